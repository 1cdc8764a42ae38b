package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/you/booklib/domain"
	"github.com/you/booklib/internal/http/middleware"
	"github.com/you/booklib/internal/logging"
)

// Cookie names carrying the session tokens
const (
	AccessCookie  = middleware.AccessCookie
	RefreshCookie = "refresh_token"
)

// CookieSettings control the session cookies written on sign-in
type CookieSettings struct {
	Domain string
	Secure bool
}

// AuthHandlers handles registration and session HTTP requests
type AuthHandlers struct {
	registration domain.RegistrationService
	authSvc      domain.AuthService
	cookies      CookieSettings
	log          logging.Logger
	now          func() time.Time
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(registration domain.RegistrationService, authSvc domain.AuthService, cookies CookieSettings, log logging.Logger) *AuthHandlers {
	return &AuthHandlers{
		registration: registration,
		authSvc:      authSvc,
		cookies:      cookies,
		log:          log.With("component", "auth_handlers"),
		now:          time.Now,
	}
}

// SignupRequest represents the signup payload
type SignupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// VerifyEmailRequest represents the OTP verification payload
type VerifyEmailRequest struct {
	Username string `json:"username"`
	OTPCode  string `json:"otp_code"`
}

// ResendOTPRequest represents the OTP resend payload
type ResendOTPRequest struct {
	Username string `json:"username"`
}

// SignInRequest accepts the identifier under any of its names
type SignInRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

func (r SignInRequest) identifier() string {
	for _, v := range []string{r.Identifier, r.Username, r.Email} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// SignOutRequest represents the sign-out payload. The refresh cookie is used when the field is empty.
type SignOutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenJSON struct {
	Token           string `json:"token"`
	ExpireInSeconds int64  `json:"expire_in_seconds"`
}

type userJSON struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserJSON(u *domain.User) userJSON {
	return userJSON{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

// Signup handles POST /auth/signup
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	pending, err := h.registration.Signup(c.Request.Context(), domain.SignupRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respond(c, http.StatusCreated, "An OTP has been sent to your email, use it to verify your account.", gin.H{
		"username":   pending.Username,
		"email":      pending.Email,
		"first_name": pending.FirstName,
		"last_name":  pending.LastName,
	})
}

// VerifyEmail handles POST /auth/verify-email
func (h *AuthHandlers) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	user, err := h.registration.Verify(c.Request.Context(), req.Username, req.OTPCode)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Your email has been verified, you can now sign in.", toUserJSON(user))
}

// ResendOTP handles POST /auth/resend-otp
func (h *AuthHandlers) ResendOTP(c *gin.Context) {
	var req ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	if err := h.registration.Resend(c.Request.Context(), req.Username); err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			respondErrorAs(c, h.log, err, http.StatusNotFound, KeyNotFound)
			return
		}
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "A new OTP has been sent to your email.", nil)
}

// SignIn handles POST /auth/signin. Tokens go into the body and into http-only cookies.
func (h *AuthHandlers) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	result, err := h.authSvc.SignIn(c.Request.Context(), req.identifier(), req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.setCookie(c, AccessCookie, result.AccessToken, result.AccessExpiresAt)
	h.setCookie(c, RefreshCookie, result.RefreshToken, result.RefreshExpiresAt)

	respond(c, http.StatusOK, "Signed in successfully.", gin.H{
		"access_token":  h.tokenJSON(result.AccessToken, result.AccessExpiresAt),
		"refresh_token": h.tokenJSON(result.RefreshToken, result.RefreshExpiresAt),
		"user":          toUserJSON(result.User),
	})
}

// SignOut handles POST /auth/signout and revokes the refresh token of the caller
func (h *AuthHandlers) SignOut(c *gin.Context) {
	var req SignOutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequestBody(c)
			return
		}
	}
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(RefreshCookie)
	}

	if err := h.authSvc.SignOut(c.Request.Context(), middleware.CurrentUserID(c), req.RefreshToken); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.clearCookie(c, AccessCookie)
	h.clearCookie(c, RefreshCookie)
	respond(c, http.StatusOK, "Signed out successfully.", nil)
}

func (h *AuthHandlers) tokenJSON(token string, expiresAt time.Time) tokenJSON {
	return tokenJSON{Token: token, ExpireInSeconds: int64(expiresAt.Sub(h.now()).Seconds())}
}

func (h *AuthHandlers) setCookie(c *gin.Context, name, value string, expiresAt time.Time) {
	maxAge := int(expiresAt.Sub(h.now()).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", h.cookies.Domain, h.cookies.Secure, true)
}

func (h *AuthHandlers) clearCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", h.cookies.Domain, h.cookies.Secure, true)
}
