package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/you/booklib/domain"
)

// MockOTPRepository implements domain.OTPRepository interface for testing.
// Tokens are kept in creation order.
type MockOTPRepository struct {
	CreateFunc           func(ctx context.Context, token *domain.OTPToken) error
	FindCurrentFunc      func(ctx context.Context, username string) (*domain.OTPToken, error)
	DeleteFunc           func(ctx context.Context, id string) error
	DeleteByUsernameFunc func(ctx context.Context, username string) error

	mu     sync.Mutex
	seq    int
	tokens []domain.OTPToken
}

// Compile-time interface compliance verification
var _ domain.OTPRepository = (*MockOTPRepository)(nil)

// NewMockOTPRepository creates a new MockOTPRepository with default behaviors
func NewMockOTPRepository() *MockOTPRepository {
	return &MockOTPRepository{}
}

// Create stores the token and assigns an id when missing
func (m *MockOTPRepository) Create(ctx context.Context, token *domain.OTPToken) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	if token.ID == "" {
		token.ID = fmt.Sprintf("otp-%d", m.seq)
	}
	m.tokens = append(m.tokens, *token)
	return nil
}

// FindCurrent returns the oldest token of username
func (m *MockOTPRepository) FindCurrent(ctx context.Context, username string) (*domain.OTPToken, error) {
	if m.FindCurrentFunc != nil {
		return m.FindCurrentFunc(ctx, username)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.Username == username {
			t := t
			return &t, nil
		}
	}
	return nil, domain.ErrOTPNotFound
}

// Delete removes one token
func (m *MockOTPRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.remove(func(t domain.OTPToken) bool { return t.ID == id })
	return nil
}

// DeleteByUsername removes every token of username
func (m *MockOTPRepository) DeleteByUsername(ctx context.Context, username string) error {
	if m.DeleteByUsernameFunc != nil {
		return m.DeleteByUsernameFunc(ctx, username)
	}
	m.remove(func(t domain.OTPToken) bool { return t.Username == username })
	return nil
}

func (m *MockOTPRepository) remove(match func(domain.OTPToken) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.tokens[:0]
	for _, t := range m.tokens {
		if !match(t) {
			kept = append(kept, t)
		}
	}
	m.tokens = kept
}

// Count returns how many tokens username holds (test helper)
func (m *MockOTPRepository) Count(username string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tokens {
		if t.Username == username {
			n++
		}
	}
	return n
}
