package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/you/booklib/domain"
)

// MockRevocationRepository implements domain.RevocationRepository interface for testing
type MockRevocationRepository struct {
	RevokeFunc        func(ctx context.Context, token *domain.RevokedToken) error
	IsRevokedFunc     func(ctx context.Context, jti string) (bool, error)
	DeleteExpiredFunc func(ctx context.Context, before time.Time) (int64, error)

	mu      sync.Mutex
	revoked map[string]domain.RevokedToken
}

// Compile-time interface compliance verification
var _ domain.RevocationRepository = (*MockRevocationRepository)(nil)

// NewMockRevocationRepository creates a new MockRevocationRepository with default behaviors
func NewMockRevocationRepository() *MockRevocationRepository {
	return &MockRevocationRepository{revoked: make(map[string]domain.RevokedToken)}
}

// Revoke adds the token to the list
func (m *MockRevocationRepository) Revoke(ctx context.Context, token *domain.RevokedToken) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[token.JTI] = *token
	return nil
}

// IsRevoked reports whether jti is listed
func (m *MockRevocationRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if m.IsRevokedFunc != nil {
		return m.IsRevokedFunc(ctx, jti)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

// DeleteExpired drops entries that expired before the given time
func (m *MockRevocationRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for jti, t := range m.revoked {
		if t.ExpiresAt.Before(before) {
			delete(m.revoked, jti)
			n++
		}
	}
	return n, nil
}
