package records

import (
	"context"
	"net/http"

	"github.com/frahmantamala/ghost-payroll/internal"
	"github.com/frahmantamala/ghost-payroll/internal/transport"
)

type ServiceAPI interface {
	ListEmployees(ctx context.Context, accountID string) ([]*Employee, error)
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

func (h *Handler) GetEmployees(w http.ResponseWriter, r *http.Request) {
	accountID := internal.AccountIDFromContext(r.Context())
	if accountID == "" {
		h.HandleServiceError(w, internal.ErrMissingAccount)
		return
	}

	employees, err := h.Service.ListEmployees(r.Context(), accountID)
	if err != nil {
		h.Logger.Error("GetEmployees: service error", "error", err, "account_id", accountID)
		h.WriteError(w, http.StatusInternalServerError, "failed to fetch employees")
		return
	}

	if employees == nil {
		employees = []*Employee{}
	}
	h.WriteJSON(w, http.StatusOK, employees)
}
