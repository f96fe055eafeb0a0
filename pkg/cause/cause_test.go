package cause

import (
	"context"
	"strings"
	"testing"

	"github.com/lineboard/lineboard/internal/rest"
	"github.com/lineboard/lineboard/pkg/shift"
	"github.com/stretchr/testify/assert"
)

func newService() (*ServiceImpl, *StubCauseRepo) {
	repo := &StubCauseRepo{}
	return NewCauseService(repo), repo
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("stores a valid cause", func(t *testing.T) {
		service, _ := newService()

		created, err := service.Create(context.Background(), Cause{
			Name:        "  Mechanical failure  ",
			Description: "Jammed rollers",
			AffectsTrs:  true,
			IsActive:    true,
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, created.ID)
		assert.Equal(t, "Mechanical failure", created.Name)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		service, _ := newService()

		_, err := service.Create(context.Background(), Cause{Name: "   "})

		assert.ErrorIs(t, err, ErrInvalidCause)
	})

	t.Run("rejects an overlong name", func(t *testing.T) {
		service, _ := newService()

		_, err := service.Create(context.Background(), Cause{Name: strings.Repeat("x", 81)})

		assert.ErrorIs(t, err, ErrInvalidCause)
	})

	t.Run("rejects an overlong description", func(t *testing.T) {
		service, _ := newService()

		_, err := service.Create(context.Background(), Cause{
			Name:        "Changeover",
			Description: strings.Repeat("x", 2001),
		})

		assert.ErrorIs(t, err, ErrInvalidCause)
	})

	t.Run("propagates duplicate names", func(t *testing.T) {
		service, _ := newService()
		_, err := service.Create(context.Background(), Cause{Name: "Changeover"})
		assert.NoError(t, err)

		_, err = service.Create(context.Background(), Cause{Name: "Changeover"})

		assert.ErrorIs(t, err, ErrCauseNameTaken)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("applies only the provided fields", func(t *testing.T) {
		service, _ := newService()
		created, _ := service.Create(context.Background(), Cause{
			Name:       "Changeover",
			AffectsTrs: true,
			IsActive:   true,
		})

		isActive := false
		updated, err := service.Update(context.Background(), created.ID, Update{IsActive: &isActive})

		assert.NoError(t, err)
		assert.Equal(t, "Changeover", updated.Name)
		assert.True(t, updated.AffectsTrs)
		assert.False(t, updated.IsActive)
	})

	t.Run("returns not found for an unknown id", func(t *testing.T) {
		service, _ := newService()

		name := "Anything"
		_, err := service.Update(context.Background(), 42, Update{Name: &name})

		assert.ErrorIs(t, err, ErrCauseNotFound)
	})

	t.Run("rejects clearing the name", func(t *testing.T) {
		service, _ := newService()
		created, _ := service.Create(context.Background(), Cause{Name: "Changeover"})

		empty := ""
		_, err := service.Update(context.Background(), created.ID, Update{Name: &empty})

		assert.ErrorIs(t, err, ErrInvalidCause)
	})
}

func TestServiceImpl_StatsPerCause(t *testing.T) {
	t.Run("rejects from greater than to", func(t *testing.T) {
		service, repo := newService()

		_, err := service.StatsPerCause(context.Background(), "2024-05-15", "2024-05-10", "1")

		assert.ErrorIs(t, err, rest.ErrInvalidRange)
		assert.Equal(t, 0, repo.StatsCalls)
	})

	t.Run("resolves the shift selector", func(t *testing.T) {
		service, repo := newService()

		_, err := service.StatsPerCause(context.Background(), "", "", "2")

		assert.NoError(t, err)
		assert.Equal(t, shift.Shift2, repo.LastStatsShift)
	})

	t.Run("caches identical queries", func(t *testing.T) {
		service, repo := newService()
		repo.Stats = []StatsRow{{CauseID: 1, Name: "Changeover", TotalDurationSeconds: 600, StopCount: 2}}

		first, err := service.StatsPerCause(context.Background(), "2024-05-01", "2024-05-15", "1")
		assert.NoError(t, err)
		second, err := service.StatsPerCause(context.Background(), "2024-05-01", "2024-05-15", "1")
		assert.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, repo.StatsCalls)
	})

	t.Run("different ranges or shifts are not shared", func(t *testing.T) {
		service, repo := newService()

		_, _ = service.StatsPerCause(context.Background(), "2024-05-01", "2024-05-15", "1")
		_, _ = service.StatsPerCause(context.Background(), "2024-05-01", "2024-05-15", "2")
		_, _ = service.StatsPerCause(context.Background(), "2024-05-02", "2024-05-15", "1")

		assert.Equal(t, 3, repo.StatsCalls)
	})
}
