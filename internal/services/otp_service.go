package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/you/booklib/domain"
	"github.com/you/booklib/internal/logging"
)

// OTPConfig controls generated codes
type OTPConfig struct {
	Length int
	TTL    time.Duration
}

// OTPServiceImpl implements domain.OTPService on top of the OTP ledger
type OTPServiceImpl struct {
	otpRepo         domain.OTPRepository
	notificationSvc domain.NotificationService
	audit           domain.AuditLogger
	log             logging.Logger
	config          OTPConfig
	now             func() time.Time
}

// NewOTPService creates a new OTP service
func NewOTPService(
	otpRepo domain.OTPRepository,
	notificationSvc domain.NotificationService,
	audit domain.AuditLogger,
	log logging.Logger,
	config OTPConfig,
) *OTPServiceImpl {
	if config.Length <= 0 {
		config.Length = 6
	}
	return &OTPServiceImpl{
		otpRepo:         otpRepo,
		notificationSvc: notificationSvc,
		audit:           audit,
		log:             log.With("component", "otp"),
		config:          config,
		now:             time.Now,
	}
}

// WithClock replaces the time source, used by tests
func (s *OTPServiceImpl) WithClock(now func() time.Time) *OTPServiceImpl {
	s.now = now
	return s
}

// Issue implements domain.OTPService
func (s *OTPServiceImpl) Issue(ctx context.Context, pending *domain.PendingRegistration) (*domain.OTPToken, error) {
	if err := s.otpRepo.DeleteByUsername(ctx, pending.Username); err != nil {
		return nil, fmt.Errorf("failed to delete previous otp tokens: %w", err)
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	now := s.now()
	token := &domain.OTPToken{
		Username:  pending.Username,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.TTL),
	}
	if err := s.otpRepo.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to store otp token: %w", err)
	}

	subject, body := verificationEmail(pending.FirstName, code, s.config.TTL)
	if err := s.notificationSvc.SendEmail(ctx, pending.Email, subject, body); err != nil {
		// the token is useless when nobody received it
		if delErr := s.otpRepo.Delete(ctx, token.ID); delErr != nil {
			s.log.Error(ctx, "failed to delete undelivered otp token", "username", pending.Username, "error", delErr)
		}
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.OTPSendFailureEvent, pending.Username).
			WithEmail(pending.Email).WithError(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.OTPSentEvent, pending.Username).
		WithEmail(pending.Email).
		WithMetadata("expires_at", token.ExpiresAt))
	return token, nil
}

// Check implements domain.OTPService. An expired token is removed from the ledger.
func (s *OTPServiceImpl) Check(ctx context.Context, username, code string) (*domain.OTPToken, error) {
	token, err := s.otpRepo.FindCurrent(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrOTPNotFound) {
			return nil, domain.ErrOTPNotFound
		}
		return nil, fmt.Errorf("failed to load otp token: %w", err)
	}

	if token.Code != code {
		return nil, domain.ErrOTPInvalid
	}

	if token.Expired(s.now()) {
		if err := s.otpRepo.Delete(ctx, token.ID); err != nil {
			s.log.Warn(ctx, "failed to delete expired otp token", "username", username, "error", err)
		}
		return nil, domain.ErrOTPExpired
	}
	return token, nil
}

// generateSecureCode returns config.Length lowercase hex characters from crypto/rand
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	buf := make([]byte, (s.config.Length+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf)[:s.config.Length], nil
}

func verificationEmail(firstName, code string, ttl time.Duration) (string, string) {
	body := fmt.Sprintf(`Hi %s,

Here is your One-Time Password (OTP): %s
It expires in %d seconds.
Please use this OTP to verify your email.
`, firstName, code, int(ttl.Seconds()))
	return "Email Verification", body
}

var _ domain.OTPService = (*OTPServiceImpl)(nil)
