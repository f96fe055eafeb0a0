package speed

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
	// GetDailySeries computes per-day average and maximum speed, oldest day first.
	GetDailySeries(ctx context.Context, from, to string) ([]DailyStats, error)
	GetSummary(ctx context.Context, from, to string) (RangeSummary, error)
}

type ServiceImpl struct {
	repo  SpeedRepo
	clock utils.Clock
}

func NewSpeedService(repo SpeedRepo, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, entry Entry) (Entry, error) {
	if entry.Speed < 0 {
		return Entry{}, fmt.Errorf("%w: speed must not be negative", ErrInvalidEntry)
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

func (s *ServiceImpl) GetDailySeries(ctx context.Context, from, to string) ([]DailyStats, error) {
	fromTime, toTime, err := rangeBounds(from, to)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.FindRange(ctx, fromTime, toTime)
	if err != nil {
		return nil, err
	}

	type accumulator struct {
		sum     float64
		max     float64
		samples int
	}
	byDay := make(map[string]*accumulator)
	for _, entry := range entries {
		day := entry.RecordedAt.Local().Format("2006-01-02")
		acc := byDay[day]
		if acc == nil {
			acc = &accumulator{}
			byDay[day] = acc
		}
		acc.sum += entry.Speed
		if entry.Speed > acc.max {
			acc.max = entry.Speed
		}
		acc.samples++
	}

	series := make([]DailyStats, 0, len(byDay))
	for day, acc := range byDay {
		series = append(series, DailyStats{
			Day:      day,
			AvgSpeed: roundSpeed(acc.sum / float64(acc.samples)),
			MaxSpeed: roundSpeed(acc.max),
			Samples:  acc.samples,
		})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Day < series[j].Day })
	return series, nil
}

func (s *ServiceImpl) GetSummary(ctx context.Context, from, to string) (RangeSummary, error) {
	fromTime, toTime, err := rangeBounds(from, to)
	if err != nil {
		return RangeSummary{}, err
	}

	entries, err := s.repo.FindRange(ctx, fromTime, toTime)
	if err != nil {
		return RangeSummary{}, err
	}

	summary := RangeSummary{From: from, To: to}
	var sum float64
	for _, entry := range entries {
		sum += entry.Speed
		if entry.Speed > summary.MaxSpeed {
			summary.MaxSpeed = entry.Speed
		}
		summary.Samples++
	}
	if summary.Samples > 0 {
		summary.AvgSpeed = roundSpeed(sum / float64(summary.Samples))
	}
	summary.MaxSpeed = roundSpeed(summary.MaxSpeed)
	return summary, nil
}

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

func roundSpeed(v float64) float64 {
	return math.Round(v*1000) / 1000
}
