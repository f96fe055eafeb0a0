package stop

import (
	"errors"

	"github.com/lineboard/lineboard/pkg/cause"
	"github.com/lineboard/lineboard/pkg/shift"
)

var (
	ErrStopNotFound = errors.New("stop not found")
	ErrUnknownCause = errors.New("unknown cause id")
	ErrInvalidStop  = errors.New("invalid stop")
)

// Stop is a machine stop event. Day is the attribution day, fixed when the
// stop is created and never recomputed. DurationSeconds is set only once the
// stop is closed; while EndTime is nil the contribution to downtime is
// computed on read against the current instant.
type Stop struct {
	ID              int
	Day             string // YYYY-MM-DD
	StartTime       string // HH:MM:SS
	EndTime         *string
	DurationSeconds *int
	Shift           shift.Shift
	CauseID         int
	Cause           *cause.Cause
}

// Open reports whether the stop is still ongoing.
func (s Stop) Open() bool {
	return s.EndTime == nil
}

// ListFilter narrows stop list queries. Zero values mean "any".
type ListFilter struct {
	CauseID int
	Shift   *shift.Shift
	From    string
	To      string
	Page    int
	Limit   int
}

// AnalyticsRow is the projection the daily aggregation works on: the stop
// interval joined with its cause's TRS eligibility flag.
type AnalyticsRow struct {
	Day             string
	StartTime       string
	EndTime         *string
	DurationSeconds *int
	AffectsTrs      bool
}

// Open reports whether the row belongs to an ongoing stop.
func (r AnalyticsRow) Open() bool {
	return r.EndTime == nil
}
