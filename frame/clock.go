package frame

import (
	"sync"
	"time"
)

// Clock supplies frame timestamps
type Clock interface {
	Now() time.Time
}

// RealClock reads the system monotonic clock
type RealClock struct{}

// Now returns the current time with monotonic clock reading
func (RealClock) Now() time.Time {
	return time.Now()
}

// MockClock is a controllable Clock for tests
type MockClock struct {
	mu          sync.RWMutex
	currentTime time.Time
}

// NewMockClock creates a mock clock at start
func NewMockClock(start time.Time) *MockClock {
	return &MockClock{currentTime: start}
}

// Now returns the current mocked time
func (m *MockClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// SetTime sets the current time
func (m *MockClock) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance moves the clock forward by d and returns the new time
func (m *MockClock) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
	return m.currentTime
}
