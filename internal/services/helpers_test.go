package services

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/you/booklib/internal/mocks"
)

// fakeClock is a manually advanced time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var codePattern = regexp.MustCompile(`OTP\): ([0-9a-f]+)`)

// lastCode extracts the code from the most recent verification email
func lastCode(t *testing.T, mailer *mocks.MockNotificationService) string {
	t.Helper()
	mail, ok := mailer.Last()
	require.True(t, ok, "no email was sent")
	m := codePattern.FindStringSubmatch(mail.Body)
	require.Len(t, m, 2, "email carries no code: %q", mail.Body)
	return m[1]
}

func boolPtr(b bool) *bool     { return &b }
func strPtr(s string) *string { return &s }
