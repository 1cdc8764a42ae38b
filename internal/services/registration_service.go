package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/you/booklib/domain"
	"github.com/you/booklib/internal/logging"
)

// RegistrationServiceImpl implements domain.RegistrationService
type RegistrationServiceImpl struct {
	userRepo    domain.UserRepository
	pendingRepo domain.PendingRegistrationRepository
	store       domain.RegistrationStore
	otpSvc      domain.OTPService
	passwordSvc domain.PasswordService
	locker      domain.Locker
	audit       domain.AuditLogger
	log         logging.Logger
	now         func() time.Time
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	userRepo domain.UserRepository,
	pendingRepo domain.PendingRegistrationRepository,
	store domain.RegistrationStore,
	otpSvc domain.OTPService,
	passwordSvc domain.PasswordService,
	locker domain.Locker,
	audit domain.AuditLogger,
	log logging.Logger,
) *RegistrationServiceImpl {
	return &RegistrationServiceImpl{
		userRepo:    userRepo,
		pendingRepo: pendingRepo,
		store:       store,
		otpSvc:      otpSvc,
		passwordSvc: passwordSvc,
		locker:      locker,
		audit:       audit,
		log:         log.With("component", "registration"),
		now:         time.Now,
	}
}

// WithClock replaces the time source, used by tests
func (s *RegistrationServiceImpl) WithClock(now func() time.Time) *RegistrationServiceImpl {
	s.now = now
	return s
}

// Signup implements domain.RegistrationService. Nothing durable is created: the
// profile waits in the pending cache until the emailed code is verified.
func (s *RegistrationServiceImpl) Signup(ctx context.Context, req domain.SignupRequest) (*domain.PendingRegistration, error) {
	req = normalizeSignup(req)

	verr := validateSignup(req)
	if _, bad := verr.Fields["username"]; !bad {
		taken, err := s.userRepo.ExistsByUsername(ctx, req.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			verr.Add("username", msgDuplicateUser)
		}
	}
	if _, bad := verr.Fields["email"]; !bad {
		taken, err := s.userRepo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			verr.Add("email", msgDuplicateEmail)
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := s.passwordSvc.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	pending := &domain.PendingRegistration{
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Extra:        req.Extra,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.pendingRepo.Save(ctx, pending); err != nil {
		return nil, fmt.Errorf("failed to store pending registration: %w", err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.SignupStartedEvent, pending.Username).WithEmail(pending.Email))

	// the pending entry stays when the email fails so that resend can retry
	if _, err := s.otpSvc.Issue(ctx, pending); err != nil {
		return nil, err
	}
	return pending, nil
}

// Verify implements domain.RegistrationService. The whole check-and-commit runs
// under a per-username lock so concurrent attempts commit at most one user.
func (s *RegistrationServiceImpl) Verify(ctx context.Context, username, code string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	code = strings.TrimSpace(code)

	verr := domain.NewValidationError()
	if username == "" {
		verr.Add("username", msgRequired)
	}
	if code == "" {
		verr.Add("otp_code", msgRequired)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	lock, err := s.locker.Acquire(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrVerificationBusy) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to acquire verification lock: %w", err)
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn(ctx, "failed to release verification lock", "username", username, "error", err)
		}
	}()

	user, err := s.commit(ctx, username, code)
	if err != nil {
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.EmailVerifyFailureEvent, username).WithError(err))
		return nil, err
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.EmailVerifiedEvent, username).
		WithUser(user.ID).
		WithEmail(user.Email))
	return user, nil
}

func (s *RegistrationServiceImpl) commit(ctx context.Context, username, code string) (*domain.User, error) {
	pending, err := s.pendingRepo.Find(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load pending registration: %w", err)
	}

	if _, err := s.otpSvc.Check(ctx, username, code); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		FirstName:    pending.FirstName,
		LastName:     pending.LastName,
		Username:     pending.Username,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		Role:         domain.DefaultRole,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// creates the user and drops the username's otp tokens atomically
	if err := s.store.Commit(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	if err := s.pendingRepo.Delete(ctx, username); err != nil {
		// without the otp a leftover entry can no longer be verified
		s.log.Warn(ctx, "failed to delete pending registration", "username", username, "error", err)
	}
	return user, nil
}

// Resend implements domain.RegistrationService
func (s *RegistrationServiceImpl) Resend(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.FieldError("username", msgRequired)
	}

	pending, err := s.pendingRepo.Find(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			return err
		}
		return fmt.Errorf("failed to load pending registration: %w", err)
	}

	_, err = s.otpSvc.Issue(ctx, pending)
	return err
}

var _ domain.RegistrationService = (*RegistrationServiceImpl)(nil)
