package mocks

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/you/booklib/domain"
)

// MockTokenService implements domain.TokenService interface for testing.
// Default tokens look like "<typ>:<user id>:<jti>" and validate by parsing that shape.
type MockTokenService struct {
	GenerateAccessTokenFunc  func(user *domain.User) (string, time.Time, error)
	GenerateRefreshTokenFunc func(user *domain.User) (string, time.Time, error)
	ValidateAccessTokenFunc  func(token string) (*domain.TokenClaims, error)
	ValidateRefreshTokenFunc func(token string) (*domain.TokenClaims, error)

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	mu  sync.Mutex
	seq int
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{AccessTTL: 12 * time.Hour, RefreshTTL: 96 * time.Hour}
}

func (m *MockTokenService) mint(typ domain.TokenType, user *domain.User, ttl time.Duration) (string, time.Time, error) {
	m.mu.Lock()
	m.seq++
	jti := fmt.Sprintf("jti-%d", m.seq)
	m.mu.Unlock()
	return fmt.Sprintf("%s:%s:%s", typ, user.ID, jti), time.Now().Add(ttl), nil
}

func (m *MockTokenService) parse(typ domain.TokenType, token string) (*domain.TokenClaims, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return nil, domain.ErrTokenMalformed
	}
	if domain.TokenType(parts[0]) != typ {
		return nil, domain.ErrTokenInvalid
	}
	ttl := m.AccessTTL
	if typ == domain.RefreshToken {
		ttl = m.RefreshTTL
	}
	now := time.Now()
	return &domain.TokenClaims{
		ID:        parts[2],
		UserID:    parts[1],
		Role:      domain.DefaultRole,
		Type:      typ,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}, nil
}

// GenerateAccessToken generates an access token for the user
func (m *MockTokenService) GenerateAccessToken(user *domain.User) (string, time.Time, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(user)
	}
	return m.mint(domain.AccessToken, user, m.AccessTTL)
}

// GenerateRefreshToken generates a refresh token for the user
func (m *MockTokenService) GenerateRefreshToken(user *domain.User) (string, time.Time, error) {
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc(user)
	}
	return m.mint(domain.RefreshToken, user, m.RefreshTTL)
}

// ValidateAccessToken validates an access token and returns claims
func (m *MockTokenService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	return m.parse(domain.AccessToken, token)
}

// ValidateRefreshToken validates a refresh token and returns claims
func (m *MockTokenService) ValidateRefreshToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateRefreshTokenFunc != nil {
		return m.ValidateRefreshTokenFunc(token)
	}
	return m.parse(domain.RefreshToken, token)
}
