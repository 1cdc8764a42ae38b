package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/you/booklib/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing.
// Without a Func override it serves the users stored with AddUser.
type MockUserRepository struct {
	FindByIDFunc         func(ctx context.Context, id string) (*domain.User, error)
	FindByIdentifierFunc func(ctx context.Context, identifier string) (*domain.User, error)
	ExistsByUsernameFunc func(ctx context.Context, username string) (bool, error)
	ExistsByEmailFunc    func(ctx context.Context, email string) (bool, error)
	UpdateNameFunc       func(ctx context.Context, id, firstName, lastName string) (*domain.User, error)

	mu    sync.Mutex
	users []*domain.User
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*MockUserRepository)(nil)

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// AddUser stores a user for the default behaviors (test helper)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, user)
}

// Users returns a snapshot of the stored users (test helper)
func (m *MockUserRepository) Users() []*domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.User, len(m.users))
	copy(out, m.users)
	return out
}

func (m *MockUserRepository) find(match func(*domain.User) bool) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			return u
		}
	}
	return nil
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	if u := m.find(func(u *domain.User) bool { return u.ID == id }); u != nil {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// FindByIdentifier finds a user by username or email
func (m *MockUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	if m.FindByIdentifierFunc != nil {
		return m.FindByIdentifierFunc(ctx, identifier)
	}
	u := m.find(func(u *domain.User) bool {
		return strings.EqualFold(u.Username, identifier) || strings.EqualFold(u.Email, identifier)
	})
	if u != nil {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// ExistsByUsername reports whether a committed user has username
func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.ExistsByUsernameFunc != nil {
		return m.ExistsByUsernameFunc(ctx, username)
	}
	return m.find(func(u *domain.User) bool { return strings.EqualFold(u.Username, username) }) != nil, nil
}

// ExistsByEmail reports whether a committed user has email
func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return m.find(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) }) != nil, nil
}

// UpdateName updates first and last name
func (m *MockUserRepository) UpdateName(ctx context.Context, id, firstName, lastName string) (*domain.User, error) {
	if m.UpdateNameFunc != nil {
		return m.UpdateNameFunc(ctx, id, firstName, lastName)
	}
	u := m.find(func(u *domain.User) bool { return u.ID == id })
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	m.mu.Lock()
	u.FirstName, u.LastName = firstName, lastName
	m.mu.Unlock()
	return u, nil
}
