package stop

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/lineboard/lineboard/pkg/shift"
)

var (
	dayPattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
)

// CreateStop is the input for recording a stop. EndTime may be nil for a
// stop that is still ongoing.
type CreateStop struct {
	Day       string
	StartTime string
	EndTime   *string
	CauseID   int
}

// UpdateStop carries partial changes; nil fields are left untouched. Setting
// EndTime closes the stop and freezes its duration.
type UpdateStop struct {
	Day       *string
	StartTime *string
	EndTime   *string
	CauseID   *int
}

type Service interface {
	Create(ctx context.Context, input CreateStop) (Stop, error)
	List(ctx context.Context, filter ListFilter) ([]Stop, int, error)
	Get(ctx context.Context, id int) (Stop, error)
	Update(ctx context.Context, id int, changes UpdateStop) (Stop, error)
}

type ServiceImpl struct {
	repo StopRepo
}

func NewStopService(repo StopRepo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Create(ctx context.Context, input CreateStop) (Stop, error) {
	if !dayPattern.MatchString(input.Day) {
		return Stop{}, fmt.Errorf("%w: day must be a YYYY-MM-DD date", ErrInvalidStop)
	}
	if _, err := time.Parse("2006-01-02", input.Day); err != nil {
		return Stop{}, fmt.Errorf("%w: day must be a valid date", ErrInvalidStop)
	}
	if err := validateTimeOfDay(input.StartTime); err != nil {
		return Stop{}, err
	}
	if input.CauseID == 0 {
		return Stop{}, fmt.Errorf("%w: causeId is required", ErrInvalidStop)
	}

	newStop := Stop{
		Day:       input.Day,
		StartTime: input.StartTime,
		CauseID:   input.CauseID,
		// The shift attribution is fixed here and never recomputed, even if
		// the start time is corrected later.
		Shift: shift.FromStartTime(input.StartTime),
	}
	if input.EndTime != nil {
		if err := validateTimeOfDay(*input.EndTime); err != nil {
			return Stop{}, err
		}
		endTime := *input.EndTime
		duration := durationBetween(input.StartTime, endTime)
		newStop.EndTime = &endTime
		newStop.DurationSeconds = &duration
	}

	id, err := s.repo.Store(ctx, newStop)
	if err != nil {
		return Stop{}, err
	}
	return s.Get(ctx, id)
}

func (s *ServiceImpl) List(ctx context.Context, filter ListFilter) ([]Stop, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	return s.repo.FindAll(ctx, filter)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Stop, error) {
	stop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Stop{}, err
	}
	return *stop, nil
}

func (s *ServiceImpl) Update(ctx context.Context, id int, changes UpdateStop) (Stop, error) {
	stop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Stop{}, err
	}

	if changes.Day != nil {
		if !dayPattern.MatchString(*changes.Day) {
			return Stop{}, fmt.Errorf("%w: day must be a YYYY-MM-DD date", ErrInvalidStop)
		}
		stop.Day = *changes.Day
	}
	if changes.StartTime != nil {
		if err := validateTimeOfDay(*changes.StartTime); err != nil {
			return Stop{}, err
		}
		stop.StartTime = *changes.StartTime
	}
	if changes.EndTime != nil {
		if err := validateTimeOfDay(*changes.EndTime); err != nil {
			return Stop{}, err
		}
		endTime := *changes.EndTime
		stop.EndTime = &endTime
	}
	if changes.CauseID != nil {
		stop.CauseID = *changes.CauseID
	}

	// Closing (or editing a closed stop's times) freezes the stored duration;
	// open stops keep it undefined so reads compute it against "now".
	if stop.EndTime != nil {
		duration := durationBetween(stop.StartTime, *stop.EndTime)
		stop.DurationSeconds = &duration
	}

	updated, err := s.repo.Update(ctx, *stop)
	if err != nil {
		return Stop{}, err
	}
	if !updated {
		return Stop{}, ErrStopNotFound
	}
	return s.Get(ctx, id)
}

func validateTimeOfDay(v string) error {
	if !timePattern.MatchString(v) {
		return fmt.Errorf("%w: time must be HH:MM:SS", ErrInvalidStop)
	}
	if _, err := time.Parse("15:04:05", v); err != nil {
		return fmt.Errorf("%w: time must be a valid time of day", ErrInvalidStop)
	}
	return nil
}

// durationBetween computes whole seconds from start to end within the same
// attribution day, floored at zero so a mis-entered pair can never produce
// negative downtime.
func durationBetween(startTime, endTime string) int {
	start, err := time.Parse("15:04:05", startTime)
	if err != nil {
		return 0
	}
	end, err := time.Parse("15:04:05", endTime)
	if err != nil {
		return 0
	}
	seconds := int(end.Sub(start).Seconds())
	if seconds < 0 {
		return 0
	}
	return seconds
}
