package stats

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/lineboard/lineboard/internal/rest"
	"github.com/lineboard/lineboard/internal/utils"
	"github.com/lineboard/lineboard/pkg/shift"
	"github.com/lineboard/lineboard/pkg/stop"
	log "github.com/sirupsen/logrus"
)

type StatsService interface {
	// GetDailySummary aggregates stops into per-day downtime and TRS rows for
	// the selected shift, most recent day first. Both bounds are inclusive
	// YYYY-MM-DD dates; an empty bound leaves that side open.
	GetDailySummary(ctx context.Context, from, to, shiftSelector string) ([]DailySummaryRow, error)
}

type StatsServiceImpl struct {
	stops                     stop.StopRepo
	clock                     utils.Clock
	microStopThresholdSeconds int
}

func NewStatsService(stops stop.StopRepo, clock utils.Clock, microStopThresholdSeconds int) *StatsServiceImpl {
	return &StatsServiceImpl{
		stops:                     stops,
		clock:                     clock,
		microStopThresholdSeconds: microStopThresholdSeconds,
	}
}

type dayAccumulator struct {
	stopsCount      int
	downtimeSeconds int
	trsSeconds      int
}

func (s *StatsServiceImpl) GetDailySummary(ctx context.Context, from, to, shiftSelector string) ([]DailySummaryRow, error) {
	if err := rest.ValidateRange(from, to); err != nil {
		return nil, err
	}
	selectedShift := shift.Parse(shiftSelector)

	rows, err := s.stops.FindForAnalytics(ctx, selectedShift, from, to, s.microStopThresholdSeconds)
	if err != nil {
		return nil, err
	}

	// "now" is read once and reused for every stop and every day below, so
	// the caps in a single response are mutually consistent.
	now := s.clock.Now()

	byDay := make(map[string]*dayAccumulator)
	for _, row := range rows {
		accumulator := byDay[row.Day]
		if accumulator == nil {
			accumulator = &dayAccumulator{}
			byDay[row.Day] = accumulator
		}
		duration := resolveStopDuration(row, now)
		accumulator.stopsCount++
		accumulator.downtimeSeconds += duration
		if row.AffectsTrs {
			accumulator.trsSeconds += duration
		}
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	summary := make([]DailySummaryRow, 0, len(days))
	for _, dayString := range days {
		accumulator := byDay[dayString]

		day, err := shift.ParseDay(dayString)
		if err != nil {
			log.Warnf("skipping stops with unparseable day %q: %v", dayString, err)
			continue
		}
		available := shift.AvailableSeconds(day, selectedShift, now)

		// Overlapping or mis-recorded stops can sum past what was actually
		// available; the day total is capped, never the other way around.
		cappedDowntime := clampInt(accumulator.downtimeSeconds, 0, available)
		cappedTrsDowntime := clampInt(accumulator.trsSeconds, 0, available)

		summary = append(summary, DailySummaryRow{
			Day:                  dayString,
			Shift:                selectedShift,
			StopsCount:           accumulator.stopsCount,
			TotalDowntimeSeconds: cappedDowntime,
			TrsDowntimeSeconds:   cappedTrsDowntime,
			TotalWorkSeconds:     available - cappedDowntime,
			AvailableSeconds:     available,
			TrsPercentage:        trsPercentage(available, cappedTrsDowntime),
		})
	}

	return summary, nil
}

// resolveStopDuration determines how many seconds the stop contributes to its
// day's downtime as of now. Closed stops use their frozen duration. Open
// stops accrue elapsed time but are capped at one full shift length, so a
// stale record someone forgot to close cannot run away with the totals.
func resolveStopDuration(row stop.AnalyticsRow, now time.Time) int {
	if row.DurationSeconds != nil {
		if *row.DurationSeconds < 0 {
			return 0
		}
		return *row.DurationSeconds
	}

	start, err := stopStartInstant(row, now.Location())
	if err != nil {
		log.Warnf("skipping open stop with unparseable start %q %q: %v", row.Day, row.StartTime, err)
		return 0
	}
	elapsed := int(now.Sub(start).Seconds())
	return clampInt(elapsed, 0, shift.LengthSeconds)
}

func stopStartInstant(row stop.AnalyticsRow, location *time.Location) (time.Time, error) {
	day, err := shift.ParseDay(row.Day)
	if err != nil {
		return time.Time{}, err
	}
	timeOfDay, err := time.Parse("15:04:05", row.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), timeOfDay.Second(), 0,
		location,
	), nil
}

// trsPercentage is (available - TRS downtime) over the nominal full shift
// length, not over available time: a partially elapsed shift reports a
// proportionally lower percentage instead of an inflated one.
func trsPercentage(availableSeconds, trsDowntimeSeconds int) float64 {
	value := float64(availableSeconds-trsDowntimeSeconds) / float64(shift.LengthSeconds) * 100
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	return math.Round(value*100) / 100
}

func clampInt(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
