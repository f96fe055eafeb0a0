package stop

import (
	"context"
	"sort"

	"github.com/lineboard/lineboard/pkg/shift"
)

// StubStopRepo is an in-memory StopRepo for service tests.
type StubStopRepo struct {
	Stops  []Stop
	nextID int
}

func (s *StubStopRepo) Store(ctx context.Context, stop Stop) (int, error) {
	s.nextID++
	stop.ID = s.nextID
	s.Stops = append(s.Stops, stop)
	return stop.ID, nil
}

func (s *StubStopRepo) FindAll(ctx context.Context, filter ListFilter) ([]Stop, int, error) {
	var matched []Stop
	for _, stop := range s.Stops {
		if filter.CauseID != 0 && stop.CauseID != filter.CauseID {
			continue
		}
		if filter.Shift != nil && stop.Shift != *filter.Shift {
			continue
		}
		if filter.From != "" && stop.Day < filter.From {
			continue
		}
		if filter.To != "" && stop.Day > filter.To {
			continue
		}
		matched = append(matched, stop)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *StubStopRepo) FindByID(ctx context.Context, id int) (*Stop, error) {
	for i := range s.Stops {
		if s.Stops[i].ID == id {
			found := s.Stops[i]
			return &found, nil
		}
	}
	return nil, ErrStopNotFound
}

func (s *StubStopRepo) Update(ctx context.Context, stop Stop) (bool, error) {
	for i := range s.Stops {
		if s.Stops[i].ID == stop.ID {
			s.Stops[i] = stop
			return true, nil
		}
	}
	return false, nil
}

func (s *StubStopRepo) FindForAnalytics(ctx context.Context, sh shift.Shift, from, to string, microStopMax int) ([]AnalyticsRow, error) {
	var result []AnalyticsRow
	for _, stop := range s.Stops {
		if stop.Shift != sh {
			continue
		}
		if microStopMax > 0 && !stop.Open() && stop.DurationSeconds != nil && *stop.DurationSeconds <= microStopMax {
			continue
		}
		if from != "" && stop.Day < from {
			continue
		}
		if to != "" && stop.Day > to {
			continue
		}
		affectsTrs := stop.Cause != nil && stop.Cause.AffectsTrs
		result = append(result, AnalyticsRow{
			Day:             stop.Day,
			StartTime:       stop.StartTime,
			EndTime:         stop.EndTime,
			DurationSeconds: stop.DurationSeconds,
			AffectsTrs:      affectsTrs,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Day > result[j].Day })
	return result, nil
}
