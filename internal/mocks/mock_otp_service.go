package mocks

import (
	"context"
	"time"

	"github.com/you/booklib/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	IssueFunc func(ctx context.Context, pending *domain.PendingRegistration) (*domain.OTPToken, error)
	CheckFunc func(ctx context.Context, username, code string) (*domain.OTPToken, error)
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// Issue issues a new code
func (m *MockOTPService) Issue(ctx context.Context, pending *domain.PendingRegistration) (*domain.OTPToken, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, pending)
	}
	// Default behavior: a fixed code valid for 90 seconds
	now := time.Now()
	return &domain.OTPToken{
		ID:        "otp-1",
		Username:  pending.Username,
		Code:      "a1b2c3",
		CreatedAt: now,
		ExpiresAt: now.Add(90 * time.Second),
	}, nil
}

// Check validates a code
func (m *MockOTPService) Check(ctx context.Context, username, code string) (*domain.OTPToken, error) {
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx, username, code)
	}
	if code != "a1b2c3" {
		return nil, domain.ErrOTPInvalid
	}
	now := time.Now()
	return &domain.OTPToken{ID: "otp-1", Username: username, Code: code, CreatedAt: now, ExpiresAt: now.Add(90 * time.Second)}, nil
}
