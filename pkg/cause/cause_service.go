package cause

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lineboard/lineboard/internal/rest"
	"github.com/lineboard/lineboard/pkg/shift"
	cache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

const (
	maxNameLength        = 80
	maxDescriptionLength = 2000
)

type Service interface {
	Create(ctx context.Context, cause Cause) (Cause, error)
	List(ctx context.Context, filter ListFilter) ([]Cause, int, error)
	Get(ctx context.Context, id int) (Cause, error)
	Update(ctx context.Context, id int, changes Update) (Cause, error)
	// StatsPerCause returns downtime totals per cause for the given range and
	// shift selector, including causes with zero matching stops.
	StatsPerCause(ctx context.Context, from, to, shiftSelector string) ([]StatsRow, error)
}

type ServiceImpl struct {
	repo CauseRepo
	// statsCache absorbs repeated identical chart queries. Short TTL only; it
	// must never hide new data for longer than that.
	statsCache *cache.Cache
}

func NewCauseService(repo CauseRepo) *ServiceImpl {
	return &ServiceImpl{
		repo:       repo,
		statsCache: cache.New(60*time.Second, 5*time.Minute),
	}
}

func (s *ServiceImpl) Create(ctx context.Context, cause Cause) (Cause, error) {
	cause.Name = strings.TrimSpace(cause.Name)
	cause.Description = strings.TrimSpace(cause.Description)
	if err := validateCause(cause); err != nil {
		return Cause{}, err
	}

	id, err := s.repo.Store(ctx, cause)
	if err != nil {
		return Cause{}, err
	}
	return s.Get(ctx, id)
}

func (s *ServiceImpl) List(ctx context.Context, filter ListFilter) ([]Cause, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	return s.repo.FindAll(ctx, filter)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Cause, error) {
	cause, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Cause{}, err
	}
	return *cause, nil
}

func (s *ServiceImpl) Update(ctx context.Context, id int, changes Update) (Cause, error) {
	cause, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Cause{}, err
	}

	if changes.Name != nil {
		cause.Name = strings.TrimSpace(*changes.Name)
	}
	if changes.Description != nil {
		cause.Description = strings.TrimSpace(*changes.Description)
	}
	if changes.AffectsTrs != nil {
		cause.AffectsTrs = *changes.AffectsTrs
	}
	if changes.IsActive != nil {
		cause.IsActive = *changes.IsActive
	}
	if err := validateCause(*cause); err != nil {
		return Cause{}, err
	}

	updated, err := s.repo.Update(ctx, *cause)
	if err != nil {
		return Cause{}, err
	}
	if !updated {
		return Cause{}, ErrCauseNotFound
	}
	return s.Get(ctx, id)
}

func (s *ServiceImpl) StatsPerCause(ctx context.Context, from, to, shiftSelector string) ([]StatsRow, error) {
	if err := rest.ValidateRange(from, to); err != nil {
		return nil, err
	}
	selectedShift := shift.Parse(shiftSelector)

	cacheKey := from + "|" + to + "|" + selectedShift.Label()
	if cached, found := s.statsCache.Get(cacheKey); found {
		log.Tracef("cause stats cache hit for %s", cacheKey)
		return cached.([]StatsRow), nil
	}

	stats, err := s.repo.StatsPerCause(ctx, selectedShift, from, to)
	if err != nil {
		return nil, err
	}

	s.statsCache.Set(cacheKey, stats, cache.DefaultExpiration)
	return stats, nil
}

func validateCause(cause Cause) error {
	if cause.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidCause)
	}
	if len(cause.Name) > maxNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidCause, maxNameLength)
	}
	if len(cause.Description) > maxDescriptionLength {
		return fmt.Errorf("%w: description must be at most %d characters", ErrInvalidCause, maxDescriptionLength)
	}
	return nil
}
