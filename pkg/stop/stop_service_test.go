package stop

import (
	"context"
	"testing"

	"github.com/lineboard/lineboard/pkg/shift"
	"github.com/stretchr/testify/assert"
)

func newService() (*ServiceImpl, *StubStopRepo) {
	repo := &StubStopRepo{}
	return NewStopService(repo), repo
}

func strPtr(s string) *string {
	return &s
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("derives the shift from the start time", func(t *testing.T) {
		service, _ := newService()

		tests := []struct {
			startTime string
			want      shift.Shift
		}{
			{"06:00:00", shift.Shift1},
			{"13:59:59", shift.Shift1},
			{"14:00:00", shift.Shift2},
			{"21:59:59", shift.Shift2},
			{"22:00:00", shift.Shift3},
			{"05:59:59", shift.Shift3},
		}
		for _, tt := range tests {
			created, err := service.Create(context.Background(), CreateStop{
				Day:       "2024-05-14",
				StartTime: tt.startTime,
				CauseID:   1,
			})
			assert.NoError(t, err)
			assert.Equal(t, tt.want, created.Shift, "start time %s", tt.startTime)
		}
	})

	t.Run("an open stop has no duration", func(t *testing.T) {
		service, _ := newService()

		created, err := service.Create(context.Background(), CreateStop{
			Day:       "2024-05-14",
			StartTime: "07:00:00",
			CauseID:   1,
		})

		assert.NoError(t, err)
		assert.True(t, created.Open())
		assert.Nil(t, created.DurationSeconds)
	})

	t.Run("a stop closed at creation gets a frozen duration", func(t *testing.T) {
		service, _ := newService()

		created, err := service.Create(context.Background(), CreateStop{
			Day:       "2024-05-14",
			StartTime: "07:00:00",
			EndTime:   strPtr("07:10:30"),
			CauseID:   1,
		})

		assert.NoError(t, err)
		assert.False(t, created.Open())
		assert.Equal(t, 630, *created.DurationSeconds)
	})

	t.Run("end before start floors the duration at zero", func(t *testing.T) {
		service, _ := newService()

		created, err := service.Create(context.Background(), CreateStop{
			Day:       "2024-05-14",
			StartTime: "07:00:00",
			EndTime:   strPtr("06:00:00"),
			CauseID:   1,
		})

		assert.NoError(t, err)
		assert.Equal(t, 0, *created.DurationSeconds)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		service, _ := newService()

		tests := []struct {
			name  string
			input CreateStop
		}{
			{"malformed day", CreateStop{Day: "14/05/2024", StartTime: "07:00:00", CauseID: 1}},
			{"impossible day", CreateStop{Day: "2024-13-40", StartTime: "07:00:00", CauseID: 1}},
			{"malformed start time", CreateStop{Day: "2024-05-14", StartTime: "7:00", CauseID: 1}},
			{"impossible start time", CreateStop{Day: "2024-05-14", StartTime: "25:00:00", CauseID: 1}},
			{"missing cause", CreateStop{Day: "2024-05-14", StartTime: "07:00:00"}},
			{"malformed end time", CreateStop{Day: "2024-05-14", StartTime: "07:00:00", EndTime: strPtr("later"), CauseID: 1}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := service.Create(context.Background(), tt.input)
				assert.ErrorIs(t, err, ErrInvalidStop)
			})
		}
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("closing an open stop freezes its duration", func(t *testing.T) {
		service, _ := newService()
		created, _ := service.Create(context.Background(), CreateStop{
			Day:       "2024-05-14",
			StartTime: "07:00:00",
			CauseID:   1,
		})

		updated, err := service.Update(context.Background(), created.ID, UpdateStop{EndTime: strPtr("07:30:00")})

		assert.NoError(t, err)
		assert.False(t, updated.Open())
		assert.Equal(t, 1800, *updated.DurationSeconds)
	})

	t.Run("correcting a closed stop's start recomputes the duration", func(t *testing.T) {
		service, _ := newService()
		created, _ := service.Create(context.Background(), CreateStop{
			Day:       "2024-05-14",
			StartTime: "07:00:00",
			EndTime:   strPtr("07:30:00"),
			CauseID:   1,
		})

		updated, err := service.Update(context.Background(), created.ID, UpdateStop{StartTime: strPtr("07:15:00")})

		assert.NoError(t, err)
		assert.Equal(t, 900, *updated.DurationSeconds)
	})

	t.Run("the shift attribution is never recomputed", func(t *testing.T) {
		service, _ := newService()
		created, _ := service.Create(context.Background(), CreateStop{
			Day:       "2024-05-14",
			StartTime: "07:00:00",
			CauseID:   1,
		})
		assert.Equal(t, shift.Shift1, created.Shift)

		// moving the start into shift 2 territory
		updated, err := service.Update(context.Background(), created.ID, UpdateStop{StartTime: strPtr("15:00:00")})

		assert.NoError(t, err)
		assert.Equal(t, shift.Shift1, updated.Shift)
	})

	t.Run("returns not found for an unknown id", func(t *testing.T) {
		service, _ := newService()

		_, err := service.Update(context.Background(), 42, UpdateStop{EndTime: strPtr("07:30:00")})

		assert.ErrorIs(t, err, ErrStopNotFound)
	})
}
