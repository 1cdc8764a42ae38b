package e2e

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

const testPassword = "Str0ng!Pass"

// Session holds the tokens returned by sign-in
type Session struct {
	UserID  string
	Access  string
	Refresh string
}

// Register signs username up and verifies the emailed code
func (s *TestSuite) Register(t *testing.T, username, email string) {
	t.Helper()

	resp := s.Do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"first_name": "Test",
		"last_name":  username,
		"username":   username,
		"email":      email,
		"password":   testPassword,
	})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Body)

	resp = s.Do(t, http.MethodPost, "/auth/verify-email", "", map[string]string{
		"username": username,
		"otp_code": s.LastOTP(t, email),
	})
	require.Equal(t, http.StatusOK, resp.Status, resp.Body)
}

// SignIn returns the tokens of a registered user
func (s *TestSuite) SignIn(t *testing.T, identifier string) Session {
	t.Helper()

	resp := s.Do(t, http.MethodPost, "/auth/signin", "", map[string]string{
		"identifier": identifier,
		"password":   testPassword,
	})
	require.Equal(t, http.StatusOK, resp.Status, resp.Body)

	data := resp.Data()
	return Session{
		UserID:  data["user"].(map[string]interface{})["id"].(string),
		Access:  data["access_token"].(map[string]interface{})["token"].(string),
		Refresh: data["refresh_token"].(map[string]interface{})["token"].(string),
	}
}

// Promote grants the admin role. The caller must sign in again to get a token carrying it.
func (s *TestSuite) Promote(t *testing.T, username string) {
	t.Helper()
	err := s.Container.DB.Table("users").Where("username = ?", username).Update("role", "admin").Error
	require.NoError(t, err)
}
