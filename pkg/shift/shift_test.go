package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Run("accepts raw codes", func(t *testing.T) {
		assert.Equal(t, Shift1, Parse("1"))
		assert.Equal(t, Shift2, Parse("2"))
		assert.Equal(t, Shift3, Parse("3"))
	})

	t.Run("accepts display labels", func(t *testing.T) {
		assert.Equal(t, Shift1, Parse("Team 1"))
		assert.Equal(t, Shift2, Parse("Equipe 2"))
		assert.Equal(t, Shift3, Parse(" shift 3 "))
	})

	t.Run("falls back to shift 1 when unresolvable", func(t *testing.T) {
		assert.Equal(t, Shift1, Parse(""))
		assert.Equal(t, Shift1, Parse("night"))
		assert.Equal(t, Shift1, Parse("0"))
		assert.Equal(t, Shift1, Parse("four"))
	})
}

func TestFromStartTime(t *testing.T) {
	assert.Equal(t, Shift1, FromStartTime("06:00:00"))
	assert.Equal(t, Shift1, FromStartTime("13:59:59"))
	assert.Equal(t, Shift2, FromStartTime("14:00:00"))
	assert.Equal(t, Shift2, FromStartTime("21:59:59"))
	assert.Equal(t, Shift3, FromStartTime("22:00:00"))
	assert.Equal(t, Shift3, FromStartTime("02:30:00"))
	assert.Equal(t, Shift3, FromStartTime("05:59:59"))
}

func TestAvailableSeconds(t *testing.T) {
	now := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.Local)

	t.Run("past day is fully available regardless of time of day", func(t *testing.T) {
		yesterday := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.Local)
		for _, s := range []Shift{Shift1, Shift2, Shift3} {
			assert.Equal(t, LengthSeconds, AvailableSeconds(yesterday, s, now))
		}
	})

	t.Run("future day has no available time", func(t *testing.T) {
		tomorrow := time.Date(2026, time.March, 11, 0, 0, 0, 0, time.Local)
		for _, s := range []Shift{Shift1, Shift2, Shift3} {
			assert.Equal(t, 0, AvailableSeconds(tomorrow, s, now))
		}
	})

	t.Run("today four hours into shift 1", func(t *testing.T) {
		today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)
		assert.Equal(t, 4*3600, AvailableSeconds(today, Shift1, now))
	})

	t.Run("today before the shift started clamps to zero", func(t *testing.T) {
		today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)
		assert.Equal(t, 0, AvailableSeconds(today, Shift2, now))
		assert.Equal(t, 0, AvailableSeconds(today, Shift3, now))
	})

	t.Run("today past the shift end clamps to full length", func(t *testing.T) {
		today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)
		lateNow := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.Local)
		assert.Equal(t, LengthSeconds, AvailableSeconds(today, Shift1, lateNow))
	})

	t.Run("monotonically non-decreasing while the shift runs", func(t *testing.T) {
		today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)
		previous := -1
		for hour := 5; hour <= 15; hour++ {
			at := time.Date(2026, time.March, 10, hour, 0, 0, 0, time.Local)
			available := AvailableSeconds(today, Shift1, at)
			assert.GreaterOrEqual(t, available, previous)
			assert.GreaterOrEqual(t, available, 0)
			assert.LessOrEqual(t, available, LengthSeconds)
			previous = available
		}
	})
}
