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

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	revocations domain.RevocationRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	audit       domain.AuditLogger
	log         logging.Logger
	now         func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	revocations domain.RevocationRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	audit domain.AuditLogger,
	log logging.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		revocations: revocations,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		audit:       audit,
		log:         log.With("component", "auth"),
		now:         time.Now,
	}
}

// WithClock replaces the time source, used by tests
func (s *AuthServiceImpl) WithClock(now func() time.Time) *AuthServiceImpl {
	s.now = now
	return s
}

// SignIn implements domain.AuthService. Unknown identifiers and wrong passwords
// both yield domain.ErrInvalidCredentials.
func (s *AuthServiceImpl) SignIn(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
	identifier = strings.TrimSpace(identifier)

	verr := domain.NewValidationError()
	if identifier == "" {
		verr.Add("identifier", msgRequired)
	}
	if password == "" {
		verr.Add("password", msgRequired)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.loginFailed(ctx, identifier, domain.ErrInvalidCredentials)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		s.loginFailed(ctx, identifier, domain.ErrInvalidCredentials)
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsVerified {
		s.loginFailed(ctx, identifier, domain.ErrUserNotVerified)
		return nil, domain.ErrUserNotVerified
	}

	accessToken, accessExp, err := s.tokenSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, refreshExp, err := s.tokenSvc.GenerateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLoginEvent, user.Username).
		WithUser(user.ID).
		WithEmail(user.Email))

	return &domain.AuthResult{
		User:             user,
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *AuthServiceImpl) loginFailed(ctx context.Context, identifier string, err error) {
	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, identifier).WithError(err))
}

// Refresh implements domain.AuthService. The refresh token itself is returned unchanged.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if refreshToken == "" {
		return nil, domain.FieldError("refresh_token", msgRequired)
	}

	claims, err := s.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domain.ErrSessionExpired
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation list: %w", err)
	}
	if revoked {
		return nil, domain.ErrTokenRevoked
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrSessionExpired
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	accessToken, accessExp, err := s.tokenSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.TokenRefreshEvent, user.Username).WithUser(user.ID))

	return &domain.AuthResult{
		User:             user,
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: time.Unix(claims.ExpiresAt, 0),
	}, nil
}

// SignOut implements domain.AuthService. userID is the caller authenticated by the
// access token; the refresh token must belong to the same user.
func (s *AuthServiceImpl) SignOut(ctx context.Context, userID, refreshToken string) error {
	if refreshToken == "" {
		return domain.FieldError("refresh_token", msgRequired)
	}

	claims, err := s.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return err
	}
	if claims.UserID != userID {
		return domain.ErrTokenInvalid
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return fmt.Errorf("failed to check revocation list: %w", err)
	}
	if revoked {
		return domain.ErrTokenRevoked
	}

	err = s.revocations.Revoke(ctx, &domain.RevokedToken{
		JTI:       claims.ID,
		UserID:    claims.UserID,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0),
		RevokedAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLogoutEvent, "").WithUser(userID))
	return nil
}

// VerifyAccessToken implements domain.AuthService
func (s *AuthServiceImpl) VerifyAccessToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	if token == "" {
		return nil, domain.ErrTokenMalformed
	}
	return s.tokenSvc.ValidateAccessToken(token)
}

// GetProfile implements domain.AuthService
func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// UpdateProfile implements domain.AuthService
func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, userID, firstName, lastName string) (*domain.User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	verr := domain.NewValidationError()
	validateName(verr, "first_name", "First name", firstName)
	validateName(verr, "last_name", "Last name", lastName)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return s.userRepo.UpdateName(ctx, userID, firstName, lastName)
}

var _ domain.AuthService = (*AuthServiceImpl)(nil)
