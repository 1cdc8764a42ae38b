package mocks

import (
	"context"
	"sync"

	"github.com/you/booklib/domain"
)

// MockLocker implements domain.Locker interface for testing with in-process mutexes
type MockLocker struct {
	AcquireFunc func(ctx context.Context, key string) (domain.Lock, error)

	mu    sync.Mutex
	locks map[string]chan struct{}
}

// Compile-time interface compliance verification
var _ domain.Locker = (*MockLocker)(nil)

// NewMockLocker creates a new MockLocker with default behaviors
func NewMockLocker() *MockLocker {
	return &MockLocker{locks: make(map[string]chan struct{})}
}

// Acquire blocks until key is free or ctx ends
func (m *MockLocker) Acquire(ctx context.Context, key string) (domain.Lock, error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, key)
	}

	m.mu.Lock()
	ch, ok := m.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		m.locks[key] = ch
	}
	m.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return &mockLock{ch: ch}, nil
	case <-ctx.Done():
		return nil, domain.ErrVerificationBusy
	}
}

type mockLock struct {
	once sync.Once
	ch   chan struct{}
}

func (l *mockLock) Release(ctx context.Context) error {
	l.once.Do(func() { <-l.ch })
	return nil
}

// MockLock implements domain.Lock and counts releases
type MockLock struct {
	ReleaseFunc func(ctx context.Context) error
	Released    int
}

// Release records the call
func (l *MockLock) Release(ctx context.Context) error {
	l.Released++
	if l.ReleaseFunc != nil {
		return l.ReleaseFunc(ctx)
	}
	return nil
}
