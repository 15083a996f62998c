package dashboard

import (
	"context"
	"net/http"

	"github.com/frahmantamala/ghost-payroll/internal"
	"github.com/frahmantamala/ghost-payroll/internal/transport"
)

type ServiceAPI interface {
	GetStats(ctx context.Context, accountID string) (*Stats, error)
	GetRiskDistribution(ctx context.Context, accountID string) (*RiskDistribution, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	accountID := internal.AccountIDFromContext(r.Context())
	if accountID == "" {
		h.HandleServiceError(w, internal.ErrMissingAccount)
		return
	}

	stats, err := h.Service.GetStats(r.Context(), accountID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "failed to fetch dashboard stats")
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetRiskDistribution(w http.ResponseWriter, r *http.Request) {
	accountID := internal.AccountIDFromContext(r.Context())
	if accountID == "" {
		h.HandleServiceError(w, internal.ErrMissingAccount)
		return
	}

	dist, err := h.Service.GetRiskDistribution(r.Context(), accountID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "failed to fetch risk distribution")
		return
	}

	h.WriteJSON(w, http.StatusOK, dist)
}
