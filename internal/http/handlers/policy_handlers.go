package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/you/booklib/domain"
	"github.com/you/booklib/internal/logging"
)

// PolicyHandlers manages casbin rules at /admin/policies
type PolicyHandlers struct {
	policies domain.PolicyService
	log      logging.Logger
}

// NewPolicyHandlers creates new policy handlers
func NewPolicyHandlers(policies domain.PolicyService, log logging.Logger) *PolicyHandlers {
	return &PolicyHandlers{policies: policies, log: log.With("component", "policy_handlers")}
}

// PolicyRequest names one rule. Sub is the casbin subject, e.g. role_user.
type PolicyRequest struct {
	Sub string `json:"sub"`
	Obj string `json:"obj"`
	Act string `json:"act"`
}

func (r PolicyRequest) validate() error {
	verr := domain.NewValidationError()
	for field, value := range map[string]string{"sub": r.Sub, "obj": r.Obj, "act": r.Act} {
		if strings.TrimSpace(value) == "" {
			verr.Add(field, "This field is required.")
		}
	}
	return verr.OrNil()
}

func (h *PolicyHandlers) List(c *gin.Context) {
	policies := h.policies.GetPolicies()
	out := make([]PolicyRequest, 0, len(policies))
	for _, p := range policies {
		if len(p) < 3 {
			continue
		}
		out = append(out, PolicyRequest{Sub: p[0], Obj: p[1], Act: p[2]})
	}
	respond(c, http.StatusOK, "Policies retrieved.", out)
}

func (h *PolicyHandlers) Add(c *gin.Context) {
	r, ok := h.bind(c)
	if !ok {
		return
	}
	if err := h.policies.AddPolicy(r.Sub, r.Obj, r.Act); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, "Policy added.", r)
}

func (h *PolicyHandlers) Remove(c *gin.Context) {
	r, ok := h.bind(c)
	if !ok {
		return
	}
	if err := h.policies.RemovePolicy(r.Sub, r.Obj, r.Act); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Policy removed.", r)
}

func (h *PolicyHandlers) bind(c *gin.Context) (PolicyRequest, bool) {
	var r PolicyRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		badRequestBody(c)
		return r, false
	}
	if err := r.validate(); err != nil {
		respondError(c, h.log, err)
		return r, false
	}
	return r, true
}
