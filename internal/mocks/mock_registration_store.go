package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/you/booklib/domain"
)

// MockRegistrationStore implements domain.RegistrationStore interface for testing.
// By default it behaves like the database transaction: the user lands in Users and
// the username's tokens leave OTPs (either may be nil).
type MockRegistrationStore struct {
	CommitFunc func(ctx context.Context, user *domain.User) error

	Users *MockUserRepository
	OTPs  *MockOTPRepository

	mu    sync.Mutex
	calls int
}

// Compile-time interface compliance verification
var _ domain.RegistrationStore = (*MockRegistrationStore)(nil)

// NewMockRegistrationStore creates a store writing into users and otps
func NewMockRegistrationStore(users *MockUserRepository, otps *MockOTPRepository) *MockRegistrationStore {
	return &MockRegistrationStore{Users: users, OTPs: otps}
}

// Commit creates the user
func (m *MockRegistrationStore) Commit(ctx context.Context, user *domain.User) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.Users != nil {
		for _, u := range m.Users.Users() {
			if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
				return domain.ErrUserAlreadyExists
			}
		}
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", m.calls)
	}
	if m.Users != nil {
		m.Users.AddUser(user)
	}
	if m.OTPs != nil {
		_ = m.OTPs.DeleteByUsername(ctx, user.Username)
	}
	return nil
}

// Calls returns how many commits ran through the default behavior (test helper)
func (m *MockRegistrationStore) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
