package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	verr := NewValidationError()
	assert.NoError(t, verr.OrNil())
	assert.False(t, verr.HasErrors())

	verr.Add("password", "too short")
	verr.Add("email", "required")
	verr.Add("password", "too common")

	err := verr.OrNil()
	assert.Error(t, err)
	assert.Equal(t, "validation failed: email: required; password: too short, too common", err.Error())

	var target *ValidationError
	assert.True(t, errors.As(fmt.Errorf("signup: %w", err), &target))
	assert.Equal(t, []string{"too short", "too common"}, target.Fields["password"])

	var nilErr *ValidationError
	assert.NoError(t, nilErr.OrNil())

	assert.Equal(t, map[string][]string{"name": {"bad"}}, FieldError("name", "bad").Fields)
}

func TestOTPTokenExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	token := &OTPToken{ExpiresAt: now.Add(90 * time.Second)}

	assert.False(t, token.Expired(now))
	assert.False(t, token.Expired(now.Add(89*time.Second)))
	assert.True(t, token.Expired(now.Add(90*time.Second)))
	assert.True(t, token.Expired(now.Add(time.Hour)))
}

func TestAuditEventBuilders(t *testing.T) {
	event := NewAuditEvent(EmailVerifyFailureEvent, "ana").
		WithUser("u1").
		WithEmail("a@x.com").
		WithError(ErrOTPInvalid).
		WithMetadata("attempt", 2)

	assert.Equal(t, EmailVerifyFailureEvent, event.EventType)
	assert.Equal(t, "ana", event.Username)
	assert.Equal(t, "u1", event.UserID)
	assert.Equal(t, "a@x.com", event.Email)
	assert.False(t, event.Success)
	assert.Equal(t, ErrOTPInvalid.Error(), event.ErrorMsg)
	assert.Equal(t, 2, event.Metadata["attempt"])
	assert.False(t, event.Timestamp.IsZero())
}
