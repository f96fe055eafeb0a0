package speed

import (
	"errors"
	"time"
)

var ErrInvalidEntry = errors.New("invalid speed entry")

const maxNoteLength = 40

// Entry is a manually recorded line speed sample (meters per minute).
type Entry struct {
	ID         int
	RecordedAt time.Time
	Speed      float64
	Note       string
}

// DailyStats aggregates samples per local calendar day.
type DailyStats struct {
	Day      string // YYYY-MM-DD
	AvgSpeed float64
	MaxSpeed float64
	Samples  int
}

// RangeSummary aggregates all samples in an inclusive day range.
type RangeSummary struct {
	From     string
	To       string
	AvgSpeed float64
	MaxSpeed float64
	Samples  int
}
