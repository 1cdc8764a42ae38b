package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/you/booklib/domain"
)

// Context keys set for authenticated requests
const (
	UserIDKey = "user_id"
	RoleKey   = "user_role"
)

// AccessCookie carries the access token when no Authorization header is sent
const AccessCookie = "access_token"

// AuthMW authenticates requests with an access token
type AuthMW struct {
	authSvc domain.AuthService
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(authSvc domain.AuthService) *AuthMW {
	return &AuthMW{authSvc: authSvc}
}

// WithJWT returns the JWT middleware function. The token comes from the
// Authorization header, falling back to the access_token cookie.
func (mw *AuthMW) WithJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			token, _ = c.Cookie(AccessCookie)
		}
		if token == "" {
			unauthorized(c, "Authentication credentials were not provided.")
			return
		}

		claims, err := mw.authSvc.VerifyAccessToken(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrTokenExpired):
				unauthorized(c, "Token expired")
			case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenMalformed):
				unauthorized(c, "Invalid token")
			default:
				unauthorized(c, "Token validation failed")
			}
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header, or ""
func BearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// CurrentUserID returns the id of the authenticated caller
func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// CurrentRole returns the role of the authenticated caller
func CurrentRole(c *gin.Context) string {
	return c.GetString(RoleKey)
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token_error", "message": message})
}
