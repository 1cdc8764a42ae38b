package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/booklib/internal/http/middleware"
)

// UpdateProfileRequest represents PATCH /accounts/me. Only the names can change.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Me handles GET /accounts/me
func (h *AuthHandlers) Me(c *gin.Context) {
	user, err := h.authSvc.GetProfile(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Profile retrieved.", toUserJSON(user))
}

// UpdateMe handles PATCH /accounts/me
func (h *AuthHandlers) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	user, err := h.authSvc.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), req.FirstName, req.LastName)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Profile updated.", toUserJSON(user))
}
