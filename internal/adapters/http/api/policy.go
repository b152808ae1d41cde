package api

import (
	"context"
	"net/http"

	"github.com/JetxcheDev/f1-prode/internal/domain/types"
)

// PolicyDependencies defines the interface for reading the scoring policy.
type PolicyDependencies interface {
	Policy(ctx context.Context) (types.PolicyInfo, error)
}

// PolicyHandler serves the effective scoring policy.
type PolicyHandler struct {
	deps PolicyDependencies
}

// NewPolicyHandler creates a new policy handler.
func NewPolicyHandler(deps PolicyDependencies) *PolicyHandler {
	return &PolicyHandler{deps: deps}
}

// HandleGetPolicy handles GET /policy.
func (h *PolicyHandler) HandleGetPolicy(w http.ResponseWriter, r *http.Request) {
	info, err := h.deps.Policy(r.Context())
	if err != nil {
		writeFailure(w, Wrap("api.get_policy", err))
		return
	}
	writeJSON(w, http.StatusOK, info)
}
