package mocks

import (
	"context"

	"github.com/you/booklib/domain"
)

// MockRegistrationService implements domain.RegistrationService interface for testing
type MockRegistrationService struct {
	SignupFunc func(ctx context.Context, req domain.SignupRequest) (*domain.PendingRegistration, error)
	VerifyFunc func(ctx context.Context, username, code string) (*domain.User, error)
	ResendFunc func(ctx context.Context, username string) error
}

// Compile-time interface compliance verification
var _ domain.RegistrationService = (*MockRegistrationService)(nil)

// NewMockRegistrationService creates a new MockRegistrationService with default behaviors
func NewMockRegistrationService() *MockRegistrationService {
	return &MockRegistrationService{}
}

// Signup starts a registration
func (m *MockRegistrationService) Signup(ctx context.Context, req domain.SignupRequest) (*domain.PendingRegistration, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, req)
	}
	return &domain.PendingRegistration{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}, nil
}

// Verify confirms a registration
func (m *MockRegistrationService) Verify(ctx context.Context, username, code string) (*domain.User, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, username, code)
	}
	return &domain.User{ID: "user-1", Username: username, Role: domain.DefaultRole, IsVerified: true}, nil
}

// Resend reissues the code
func (m *MockRegistrationService) Resend(ctx context.Context, username string) error {
	if m.ResendFunc != nil {
		return m.ResendFunc(ctx, username)
	}
	return nil
}
