package notify

import (
	"cab-booking-service/internal/ports"
	"context"
	"slices"
	"sync"
)

// MockSink records every notification it is handed. If Err is set, Notify
// records the call and returns Err.
type MockSink struct {
	mu   sync.Mutex
	got  []ports.Notification
	Err  error
	seen chan struct{}
}

func NewMockSink() *MockSink {
	return &MockSink{seen: make(chan struct{}, 64)}
}

func (s *MockSink) Notify(ctx context.Context, n ports.Notification) error {
	s.mu.Lock()
	s.got = append(s.got, n)
	err := s.Err
	s.mu.Unlock()

	select {
	case s.seen <- struct{}{}:
	default:
	}
	return err
}

// Notifications returns a copy of what has been recorded so far.
func (s *MockSink) Notifications() []ports.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.got)
}

// Seen signals once per recorded notification.
func (s *MockSink) Seen() <-chan struct{} {
	return s.seen
}
