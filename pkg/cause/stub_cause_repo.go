package cause

import (
	"context"
	"sort"
	"strings"

	"github.com/lineboard/lineboard/pkg/shift"
)

// StubCauseRepo is an in-memory CauseRepo for service tests.
type StubCauseRepo struct {
	Causes []Cause
	// Stats is returned verbatim by StatsPerCause; LastStatsShift records the
	// shift the service resolved.
	Stats          []StatsRow
	StatsCalls     int
	LastStatsShift shift.Shift
	nextID         int
}

func (s *StubCauseRepo) Store(ctx context.Context, cause Cause) (int, error) {
	for _, existing := range s.Causes {
		if existing.Name == cause.Name {
			return 0, ErrCauseNameTaken
		}
	}
	s.nextID++
	cause.ID = s.nextID
	s.Causes = append(s.Causes, cause)
	return cause.ID, nil
}

func (s *StubCauseRepo) FindAll(ctx context.Context, filter ListFilter) ([]Cause, int, error) {
	var matched []Cause
	for _, c := range s.Causes {
		if filter.Search != "" && !strings.Contains(c.Name, filter.Search) && !strings.Contains(c.Description, filter.Search) {
			continue
		}
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		if filter.AffectsTrs != nil && c.AffectsTrs != *filter.AffectsTrs {
			continue
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

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

func (s *StubCauseRepo) FindByID(ctx context.Context, id int) (*Cause, error) {
	for i := range s.Causes {
		if s.Causes[i].ID == id {
			found := s.Causes[i]
			return &found, nil
		}
	}
	return nil, ErrCauseNotFound
}

func (s *StubCauseRepo) Update(ctx context.Context, cause Cause) (bool, error) {
	for i := range s.Causes {
		if s.Causes[i].ID == cause.ID {
			s.Causes[i] = cause
			return true, nil
		}
	}
	return false, nil
}

func (s *StubCauseRepo) StatsPerCause(ctx context.Context, sh shift.Shift, from string, to string) ([]StatsRow, error) {
	s.StatsCalls++
	s.LastStatsShift = sh
	return s.Stats, nil
}
