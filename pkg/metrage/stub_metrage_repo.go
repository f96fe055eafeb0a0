package metrage

import (
	"context"
	"time"
)

// StubMetrageRepo is an in-memory MetrageRepo for tests.
type StubMetrageRepo struct {
	Entries []Entry
	nextID  int
}

func (r *StubMetrageRepo) Store(_ context.Context, entry Entry) (int, error) {
	r.nextID++
	entry.ID = r.nextID
	r.Entries = append(r.Entries, entry)
	return entry.ID, nil
}

func (r *StubMetrageRepo) FindPage(_ context.Context, from, to time.Time, page, limit int) ([]Entry, int, error) {
	matching := r.filter(from, to)
	total := len(matching)
	start := (page - 1) * limit
	if start >= total {
		return []Entry{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matching[start:end], total, nil
}

func (r *StubMetrageRepo) FindRange(_ context.Context, from, to time.Time) ([]Entry, error) {
	return r.filter(from, to), nil
}

func (r *StubMetrageRepo) filter(from, to time.Time) []Entry {
	result := make([]Entry, 0, len(r.Entries))
	for _, entry := range r.Entries {
		if !from.IsZero() && entry.RecordedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !entry.RecordedAt.Before(to) {
			continue
		}
		result = append(result, entry)
	}
	return result
}
