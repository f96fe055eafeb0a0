package metrage

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/lineboard/lineboard/internal/rest"
	"github.com/lineboard/lineboard/internal/utils"
)

type Service interface {
	Create(ctx context.Context, entry Entry) (Entry, error)
	List(ctx context.Context, from, to string, page, limit int) ([]Entry, int, error)
	// GetDailySeries sums samples per local calendar day, oldest day first.
	GetDailySeries(ctx context.Context, from, to string) ([]DailyTotal, error)
	GetTotal(ctx context.Context, from, to string) (RangeTotal, error)
}

type ServiceImpl struct {
	repo  MetrageRepo
	clock utils.Clock
}

func NewMetrageService(repo MetrageRepo, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, entry Entry) (Entry, error) {
	if entry.Meters < 0 {
		return Entry{}, fmt.Errorf("%w: meters must not be negative", ErrInvalidEntry)
	}
	entry.Note = strings.TrimSpace(entry.Note)
	if len(entry.Note) > maxNoteLength {
		return Entry{}, fmt.Errorf("%w: note must be at most %d characters", ErrInvalidEntry, maxNoteLength)
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = s.clock.Now()
	}

	id, err := s.repo.Store(ctx, entry)
	if err != nil {
		return Entry{}, err
	}
	entry.ID = id
	return entry, nil
}

func (s *ServiceImpl) List(ctx context.Context, from, to string, page, limit int) ([]Entry, int, error) {
	fromTime, toTime, err := rangeBounds(from, to)
	if err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	return s.repo.FindPage(ctx, fromTime, toTime, page, limit)
}

func (s *ServiceImpl) GetDailySeries(ctx context.Context, from, to string) ([]DailyTotal, error) {
	fromTime, toTime, err := rangeBounds(from, to)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.FindRange(ctx, fromTime, toTime)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*DailyTotal)
	for _, entry := range entries {
		day := entry.RecordedAt.Local().Format("2006-01-02")
		total := byDay[day]
		if total == nil {
			total = &DailyTotal{Day: day}
			byDay[day] = total
		}
		total.TotalMeters += entry.Meters
		total.Samples++
	}

	series := make([]DailyTotal, 0, len(byDay))
	for _, total := range byDay {
		total.TotalMeters = roundMeters(total.TotalMeters)
		series = append(series, *total)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Day < series[j].Day })
	return series, nil
}

func (s *ServiceImpl) GetTotal(ctx context.Context, from, to string) (RangeTotal, error) {
	fromTime, toTime, err := rangeBounds(from, to)
	if err != nil {
		return RangeTotal{}, err
	}

	entries, err := s.repo.FindRange(ctx, fromTime, toTime)
	if err != nil {
		return RangeTotal{}, err
	}

	total := RangeTotal{From: from, To: to}
	for _, entry := range entries {
		total.TotalMeters += entry.Meters
		total.Samples++
	}
	total.TotalMeters = roundMeters(total.TotalMeters)
	return total, nil
}

// rangeBounds converts inclusive YYYY-MM-DD bounds into a local half-open
// instant range. Empty bounds stay open (zero time).
func rangeBounds(from, to string) (time.Time, time.Time, error) {
	if err := rest.ValidateRange(from, to); err != nil {
		return time.Time{}, time.Time{}, err
	}

	var fromTime, toTime time.Time
	if from != "" {
		parsed, err := time.ParseInLocation("2006-01-02", from, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: from must be a YYYY-MM-DD date", ErrInvalidEntry)
		}
		fromTime = parsed
	}
	if to != "" {
		parsed, err := time.ParseInLocation("2006-01-02", to, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: to must be a YYYY-MM-DD date", ErrInvalidEntry)
		}
		toTime = parsed.AddDate(0, 0, 1)
	}
	return fromTime, toTime, nil
}

func roundMeters(v float64) float64 {
	return math.Round(v*1000) / 1000
}
