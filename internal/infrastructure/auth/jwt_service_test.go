package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/booklib/domain"
)

func testUser() *domain.User {
	return &domain.User{ID: "4c7f2b9e-1111-4a2b-9c3d-000000000001", Username: "ana", Role: "user"}
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", "booklib", 12*time.Hour, 96*time.Hour)

	access, accessExp, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)
	refresh, refreshExp, err := svc.GenerateRefreshToken(testUser())
	require.NoError(t, err)

	assert.True(t, accessExp.Before(refreshExp), "access token must expire before refresh token")

	claims, err := svc.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, testUser().ID, claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, domain.AccessToken, claims.Type)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, accessExp.Unix(), claims.ExpiresAt)

	rc, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, domain.RefreshToken, rc.Type)
	assert.NotEqual(t, claims.ID, rc.ID, "each token gets its own jti")
}

func TestJWTService_RejectsWrongTokenType(t *testing.T) {
	svc := NewJWTService("secret", "booklib", time.Hour, 2*time.Hour)

	access, _, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)
	refresh, _, err := svc.GenerateRefreshToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = svc.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestJWTService_Expired(t *testing.T) {
	now := time.Now()
	svc := NewJWTService("secret", "booklib", time.Minute, time.Hour).WithClock(func() time.Time { return now })

	access, _, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	svc.WithClock(func() time.Time { return now.Add(2 * time.Minute) })
	_, err = svc.ValidateAccessToken(access)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestJWTService_InvalidInputs(t *testing.T) {
	svc := NewJWTService("secret", "booklib", time.Hour, 2*time.Hour)
	other := NewJWTService("other-secret", "booklib", time.Hour, 2*time.Hour)
	foreignIssuer := NewJWTService("secret", "someone-else", time.Hour, 2*time.Hour)

	signedByOther, _, err := other.GenerateAccessToken(testUser())
	require.NoError(t, err)
	wrongIssuer, _, err := foreignIssuer.GenerateAccessToken(testUser())
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "x", "typ": "access"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "garbage", token: "not-a-jwt", want: domain.ErrTokenMalformed},
		{name: "empty", token: "", want: domain.ErrTokenMalformed},
		{name: "wrong secret", token: signedByOther, want: domain.ErrTokenInvalid},
		{name: "wrong issuer", token: wrongIssuer, want: domain.ErrTokenInvalid},
		{name: "none algorithm", token: unsigned, want: domain.ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := NewPasswordService(4)

	hash, err := svc.Hash("Abc123!")
	require.NoError(t, err)
	assert.NotEqual(t, "Abc123!", hash)

	assert.True(t, svc.Verify(hash, "Abc123!"))
	assert.False(t, svc.Verify(hash, "abc123!"))
	assert.False(t, svc.Verify("not-a-hash", "Abc123!"))
}
