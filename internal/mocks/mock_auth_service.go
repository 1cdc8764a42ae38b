package mocks

import (
	"context"
	"time"

	"github.com/you/booklib/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	SignInFunc            func(ctx context.Context, identifier, password string) (*domain.AuthResult, error)
	RefreshFunc           func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	SignOutFunc           func(ctx context.Context, userID, refreshToken string) error
	VerifyAccessTokenFunc func(ctx context.Context, token string) (*domain.TokenClaims, error)
	GetProfileFunc        func(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfileFunc     func(ctx context.Context, userID, firstName, lastName string) (*domain.User, error)
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// SignIn authenticates a user
func (m *MockAuthService) SignIn(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, identifier, password)
	}
	now := time.Now()
	return &domain.AuthResult{
		User:             &domain.User{ID: "user-1", Username: identifier, Role: domain.DefaultRole, IsVerified: true},
		AccessToken:      "access:user-1:jti-1",
		AccessExpiresAt:  now.Add(12 * time.Hour),
		RefreshToken:     "refresh:user-1:jti-2",
		RefreshExpiresAt: now.Add(96 * time.Hour),
	}, nil
}

// Refresh mints a new access token
func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	now := time.Now()
	return &domain.AuthResult{
		User:             &domain.User{ID: "user-1", Role: domain.DefaultRole},
		AccessToken:      "access:user-1:jti-3",
		AccessExpiresAt:  now.Add(12 * time.Hour),
		RefreshToken:     refreshToken,
		RefreshExpiresAt: now.Add(96 * time.Hour),
	}, nil
}

// SignOut revokes a refresh token
func (m *MockAuthService) SignOut(ctx context.Context, userID, refreshToken string) error {
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx, userID, refreshToken)
	}
	return nil
}

// VerifyAccessToken validates an access token
func (m *MockAuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	if m.VerifyAccessTokenFunc != nil {
		return m.VerifyAccessTokenFunc(ctx, token)
	}
	if token == "" {
		return nil, domain.ErrTokenMalformed
	}
	return &domain.TokenClaims{ID: "jti-1", UserID: "user-1", Role: domain.DefaultRole, Type: domain.AccessToken}, nil
}

// GetProfile returns the user profile
func (m *MockAuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	return &domain.User{ID: userID, Username: "ana", Email: "a@x.com", FirstName: "Ana", LastName: "Silva"}, nil
}

// UpdateProfile updates the user's names
func (m *MockAuthService) UpdateProfile(ctx context.Context, userID, firstName, lastName string) (*domain.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, firstName, lastName)
	}
	return &domain.User{ID: userID, Username: "ana", Email: "a@x.com", FirstName: firstName, LastName: lastName}, nil
}
