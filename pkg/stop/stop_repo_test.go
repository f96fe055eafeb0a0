package stop

import (
	"context"
	"testing"

	"github.com/lineboard/lineboard/internal/test_utils"
	"github.com/lineboard/lineboard/pkg/cause"
	"github.com/lineboard/lineboard/pkg/shift"
	"github.com/stretchr/testify/assert"
)

func setupTestRepository(t *testing.T) (context.Context, *StopRepoImpl, int) {
	db := test_utils.SetupTestDB(t)
	ctx := context.Background()

	causeID, err := cause.NewCauseRepo(db).Store(ctx, cause.Cause{
		Name:       "Mechanical failure",
		AffectsTrs: true,
		IsActive:   true,
	})
	assert.NoError(t, err)

	return ctx, NewStopRepo(db), causeID
}

func intPtr(n int) *int {
	return &n
}

func TestStopRepoImpl_Store(t *testing.T) {
	// given
	ctx, repo, causeID := setupTestRepository(t)

	// when
	id, err := repo.Store(ctx, Stop{
		Day:             "2024-05-14",
		StartTime:       "07:00:00",
		EndTime:         strPtr("07:10:00"),
		DurationSeconds: intPtr(600),
		Shift:           shift.Shift1,
		CauseID:         causeID,
	})

	// then
	assert.NoError(t, err)
	stored, err := repo.FindByID(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, "2024-05-14", stored.Day)
	assert.Equal(t, "07:00:00", stored.StartTime)
	assert.Equal(t, 600, *stored.DurationSeconds)
	assert.Equal(t, shift.Shift1, stored.Shift)
	assert.NotNil(t, stored.Cause)
	assert.Equal(t, "Mechanical failure", stored.Cause.Name)
}

func TestStopRepoImpl_Store_RejectsUnknownCause(t *testing.T) {
	ctx, repo, _ := setupTestRepository(t)

	_, err := repo.Store(ctx, Stop{
		Day:       "2024-05-14",
		StartTime: "07:00:00",
		Shift:     shift.Shift1,
		CauseID:   999,
	})

	assert.ErrorIs(t, err, ErrUnknownCause)
}

func TestStopRepoImpl_FindByID_NotFound(t *testing.T) {
	ctx, repo, _ := setupTestRepository(t)

	_, err := repo.FindByID(ctx, 42)

	assert.ErrorIs(t, err, ErrStopNotFound)
}

func TestStopRepoImpl_FindAll(t *testing.T) {
	// given
	ctx, repo, causeID := setupTestRepository(t)
	store := func(day string, s shift.Shift) int {
		id, err := repo.Store(ctx, Stop{
			Day:             day,
			StartTime:       "07:00:00",
			EndTime:         strPtr("07:10:00"),
			DurationSeconds: intPtr(600),
			Shift:           s,
			CauseID:         causeID,
		})
		assert.NoError(t, err)
		return id
	}
	first := store("2024-05-12", shift.Shift1)
	second := store("2024-05-13", shift.Shift2)
	third := store("2024-05-14", shift.Shift1)

	t.Run("returns newest first", func(t *testing.T) {
		stops, total, err := repo.FindAll(ctx, ListFilter{Page: 1, Limit: 50})

		assert.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Equal(t, third, stops[0].ID)
		assert.Equal(t, second, stops[1].ID)
		assert.Equal(t, first, stops[2].ID)
	})

	t.Run("filters by shift", func(t *testing.T) {
		selected := shift.Shift2
		stops, total, err := repo.FindAll(ctx, ListFilter{Shift: &selected, Page: 1, Limit: 50})

		assert.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, second, stops[0].ID)
	})

	t.Run("filters by day range", func(t *testing.T) {
		stops, total, err := repo.FindAll(ctx, ListFilter{From: "2024-05-13", To: "2024-05-13", Page: 1, Limit: 50})

		assert.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, second, stops[0].ID)
	})
}

func TestStopRepoImpl_FindForAnalytics(t *testing.T) {
	// given
	ctx, repo, causeID := setupTestRepository(t)
	_, _ = repo.Store(ctx, Stop{ // closed micro-stop
		Day:             "2024-05-14",
		StartTime:       "07:00:00",
		EndTime:         strPtr("07:02:00"),
		DurationSeconds: intPtr(120),
		Shift:           shift.Shift1,
		CauseID:         causeID,
	})
	_, _ = repo.Store(ctx, Stop{ // closed, above the threshold
		Day:             "2024-05-14",
		StartTime:       "08:00:00",
		EndTime:         strPtr("08:10:00"),
		DurationSeconds: intPtr(600),
		Shift:           shift.Shift1,
		CauseID:         causeID,
	})
	_, _ = repo.Store(ctx, Stop{ // open
		Day:       "2024-05-14",
		StartTime: "09:00:00",
		Shift:     shift.Shift1,
		CauseID:   causeID,
	})
	_, _ = repo.Store(ctx, Stop{ // other shift
		Day:             "2024-05-14",
		StartTime:       "15:00:00",
		EndTime:         strPtr("15:30:00"),
		DurationSeconds: intPtr(1800),
		Shift:           shift.Shift2,
		CauseID:         causeID,
	})

	t.Run("filters micro-stops but keeps open stops", func(t *testing.T) {
		rows, err := repo.FindForAnalytics(ctx, shift.Shift1, "", "", 300)

		assert.NoError(t, err)
		assert.Len(t, rows, 2)
		assert.Equal(t, "08:00:00", rows[0].StartTime)
		assert.True(t, rows[0].AffectsTrs)
		assert.Equal(t, "09:00:00", rows[1].StartTime)
		assert.True(t, rows[1].Open())
	})

	t.Run("threshold zero disables the filter", func(t *testing.T) {
		rows, err := repo.FindForAnalytics(ctx, shift.Shift1, "", "", 0)

		assert.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("bounds are applied to the attribution day", func(t *testing.T) {
		rows, err := repo.FindForAnalytics(ctx, shift.Shift1, "2024-05-15", "2024-05-20", 0)

		assert.NoError(t, err)
		assert.Empty(t, rows)
	})
}
