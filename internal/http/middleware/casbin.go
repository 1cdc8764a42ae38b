package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/booklib/domain"
	"github.com/you/booklib/internal/logging"
	"github.com/you/booklib/internal/services"
)

// CasbinMW authorizes the authenticated role against the request path and method
type CasbinMW struct {
	policies domain.PolicyService
	log      logging.Logger
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(policies domain.PolicyService, log logging.Logger) *CasbinMW {
	return &CasbinMW{policies: policies, log: log.With("component", "casbin")}
}

// Enforce returns the casbin authorization middleware. It must run after AuthMW.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CurrentRole(c)
		if CurrentUserID(c) == "" || role == "" {
			unauthorized(c, "User ID or role not found in token")
			return
		}

		path := c.Request.URL.Path
		method := c.Request.Method

		allowed, err := mw.policies.CheckPermission(services.RoleSubject(role), path, method)
		if err != nil {
			mw.log.Error(c.Request.Context(), "authorization check failed", "path", path, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Authorization check failed"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "You do not have permission to perform this action."})
			return
		}
		c.Next()
	}
}
