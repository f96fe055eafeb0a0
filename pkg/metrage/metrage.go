package metrage

import (
	"errors"
	"time"
)

var ErrInvalidEntry = errors.New("invalid meterage entry")

const maxNoteLength = 40

// Entry is a manually recorded meterage sample: how many meters the line
// produced, read off the machine counter at RecordedAt.
type Entry struct {
	ID         int
	RecordedAt time.Time
	Meters     float64
	Note       string
}

// DailyTotal is the per-day aggregation of meterage samples.
type DailyTotal struct {
	Day         string // YYYY-MM-DD
	TotalMeters float64
	Samples     int
}

// RangeTotal sums all samples in an inclusive day range.
type RangeTotal struct {
	From        string
	To          string
	TotalMeters float64
	Samples     int
}
