package api

import (
	"context"
	"net/http"

	"github.com/JetxcheDev/f1-prode/internal/domain/types"
)

// RefreshDependencies defines the interface for on-demand recomputation.
type RefreshDependencies interface {
	Refresh(ctx context.Context) (types.RefreshSummary, error)
}

// RefreshHandler triggers a ranking refresh.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandleRefresh handles POST /refresh. Gateway failures surface as 503 and
// leave the previous rankings in place.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	summary, err := h.deps.Refresh(r.Context())
	if err != nil {
		writeFailure(w, WrapKind("api.refresh", ErrUnavailable, err))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
