package shift

import (
	"strconv"
	"strings"
	"time"
)

// LengthSeconds is the fixed length of every production shift (8 hours).
const LengthSeconds = 8 * 3600

// Shift identifies one of the three fixed daily production shifts.
type Shift int

const (
	Shift1 Shift = 1 // 06:00 - 14:00
	Shift2 Shift = 2 // 14:00 - 22:00
	Shift3 Shift = 3 // 22:00 - 06:00 next day
)

// Parse normalizes a caller-supplied shift selector to one of the three
// shifts. Callers may send a raw code ("2") or a display label ("Team 2",
// "Equipe 2"); anything containing the shift digit resolves to that shift.
// Unresolvable input falls back to Shift1 — this is the documented default,
// not an error.
func Parse(v string) Shift {
	s := strings.TrimSpace(v)
	switch {
	case strings.Contains(s, "1"):
		return Shift1
	case strings.Contains(s, "2"):
		return Shift2
	case strings.Contains(s, "3"):
		return Shift3
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 3 {
		return Shift(n)
	}
	return Shift1
}

// FromStartTime derives the shift a stop belongs to from its start time of
// day (HH:MM:SS). The attribution is fixed at creation and never recomputed.
func FromStartTime(startTime string) Shift {
	hour := 0
	if len(startTime) >= 2 {
		if h, err := strconv.Atoi(startTime[:2]); err == nil {
			hour = h
		}
	}
	switch {
	case hour >= 6 && hour < 14:
		return Shift1
	case hour >= 14 && hour < 22:
		return Shift2
	default:
		return Shift3
	}
}

// StartHour returns the local wall-clock hour at which the shift starts.
func (s Shift) StartHour() int {
	switch s {
	case Shift2:
		return 14
	case Shift3:
		return 22
	default:
		return 6
	}
}

// Label returns the display label used by the dashboard frontend.
func (s Shift) Label() string {
	return "Team " + strconv.Itoa(int(s))
}

// AvailableSeconds computes how many seconds of the shift on the given day
// have elapsed as of now, capped to the full shift length.
//
// Days are compared as pure calendar dates in now's zone: past days count as
// fully available, future days as not started. For today the elapsed time
// since the shift's start hour is clamped to [0, LengthSeconds].
func AvailableSeconds(day time.Time, s Shift, now time.Time) int {
	dayKey := dateKey(day)
	todayKey := dateKey(now)

	if dayKey < todayKey {
		return LengthSeconds
	}
	if dayKey > todayKey {
		return 0
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), s.StartHour(), 0, 0, 0, now.Location())
	elapsed := int(now.Sub(start).Seconds())
	if elapsed < 0 {
		return 0
	}
	if elapsed > LengthSeconds {
		return LengthSeconds
	}
	return elapsed
}

// ParseDay parses a YYYY-MM-DD attribution day as a local calendar date.
func ParseDay(day string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", day, time.Local)
}

func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
