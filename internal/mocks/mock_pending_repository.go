package mocks

import (
	"context"
	"sync"

	"github.com/you/booklib/domain"
)

// MockPendingRegistrationRepository implements domain.PendingRegistrationRepository
// interface for testing with an in-memory map by default
type MockPendingRegistrationRepository struct {
	SaveFunc   func(ctx context.Context, pending *domain.PendingRegistration) error
	FindFunc   func(ctx context.Context, username string) (*domain.PendingRegistration, error)
	DeleteFunc func(ctx context.Context, username string) error

	mu      sync.Mutex
	entries map[string]domain.PendingRegistration
}

// Compile-time interface compliance verification
var _ domain.PendingRegistrationRepository = (*MockPendingRegistrationRepository)(nil)

// NewMockPendingRegistrationRepository creates a new MockPendingRegistrationRepository with default behaviors
func NewMockPendingRegistrationRepository() *MockPendingRegistrationRepository {
	return &MockPendingRegistrationRepository{entries: make(map[string]domain.PendingRegistration)}
}

// Save stores a copy of pending
func (m *MockPendingRegistrationRepository) Save(ctx context.Context, pending *domain.PendingRegistration) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, pending)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[pending.Username] = *pending
	return nil
}

// Find returns a copy of the stored entry
func (m *MockPendingRegistrationRepository) Find(ctx context.Context, username string) (*domain.PendingRegistration, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, username)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.entries[username]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	return &p, nil
}

// Delete removes the entry
func (m *MockPendingRegistrationRepository) Delete(ctx context.Context, username string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, username)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, username)
	return nil
}

// Expire drops the entry as if its TTL ran out (test helper)
func (m *MockPendingRegistrationRepository) Expire(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, username)
}
