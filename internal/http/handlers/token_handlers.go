package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/you/booklib/internal/http/middleware"
)

// RefreshRequest represents the refresh payload. The refresh cookie wins when both are present.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// VerifyTokenRequest represents the token check payload
type VerifyTokenRequest struct {
	Token string `json:"token"`
}

// Refresh handles POST /token/refresh
func (h *AuthHandlers) Refresh(c *gin.Context) {
	token, _ := c.Cookie(RefreshCookie)
	if token == "" {
		var req RefreshRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequestBody(c)
				return
			}
		}
		token = req.RefreshToken
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.setCookie(c, AccessCookie, result.AccessToken, result.AccessExpiresAt)
	respond(c, http.StatusOK, "Access token refreshed.", gin.H{
		"access_token": h.tokenJSON(result.AccessToken, result.AccessExpiresAt),
	})
}

// VerifyToken handles POST /token/verify. Any failure is reported as 401.
func (h *AuthHandlers) VerifyToken(c *gin.Context) {
	var req VerifyTokenRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequestBody(c)
			return
		}
	}
	if req.Token == "" {
		req.Token = middleware.BearerToken(c)
	}

	claims, err := h.authSvc.VerifyAccessToken(c.Request.Context(), req.Token)
	if err != nil {
		respondErrorAs(c, h.log, err, http.StatusUnauthorized, KeyToken)
		return
	}
	respond(c, http.StatusOK, "Token is valid.", gin.H{
		"user_id":    claims.UserID,
		"role":       claims.Role,
		"expires_at": time.Unix(claims.ExpiresAt, 0).UTC(),
	})
}
