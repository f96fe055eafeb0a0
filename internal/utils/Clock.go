package utils

import "time"

// Clock abstracts the wall clock so that services depending on "now" can be
// tested deterministically. Aggregations must read Now() once per call and
// reuse the value for every calculation within that call.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}
