package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/booklib/internal/logging"
)

func TestSMTPService_MockModeWithoutHost(t *testing.T) {
	svc := NewSMTPService(SMTPConfig{}, logging.Nop())
	svc.deliver = func(ctx context.Context, cfg SMTPConfig, to string, msg []byte) error {
		t.Fatal("deliver must not be called without a host")
		return nil
	}

	assert.NoError(t, svc.SendEmail(context.Background(), "a@x.com", "Email Verification", "code"))
}

func TestSMTPService_Delivers(t *testing.T) {
	cfg := SMTPConfig{Host: "smtp.example.com", Port: 587, From: "no-reply@booklib.dev", Timeout: time.Second}
	svc := NewSMTPService(cfg, logging.Nop())

	var gotTo string
	var gotMsg string
	var hadDeadline bool
	svc.deliver = func(ctx context.Context, c SMTPConfig, to string, msg []byte) error {
		_, hadDeadline = ctx.Deadline()
		gotTo = to
		gotMsg = string(msg)
		return nil
	}

	require.NoError(t, svc.SendEmail(context.Background(), "a@x.com", "Email Verification", "Hi Ana\nYour code is a1b2c3"))
	assert.True(t, hadDeadline)
	assert.Equal(t, "a@x.com", gotTo)
	assert.Contains(t, gotMsg, "From: no-reply@booklib.dev\r\n")
	assert.Contains(t, gotMsg, "Subject: Email Verification\r\n")
	assert.Contains(t, gotMsg, "\r\n\r\nHi Ana\r\nYour code is a1b2c3")
}

func TestSMTPService_WrapsFailure(t *testing.T) {
	svc := NewSMTPService(SMTPConfig{Host: "smtp.example.com", Port: 587}, logging.Nop())
	boom := errors.New("connection refused")
	svc.deliver = func(ctx context.Context, cfg SMTPConfig, to string, msg []byte) error { return boom }

	err := svc.SendEmail(context.Background(), "a@x.com", "s", "b")
	assert.ErrorIs(t, err, boom)
}
