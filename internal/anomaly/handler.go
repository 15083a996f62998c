package anomaly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/ghost-payroll/internal"
	"github.com/frahmantamala/ghost-payroll/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListAnomalies(ctx context.Context, accountID string) ([]*AnomalyResponse, error)
	UpdateStatus(ctx context.Context, accountID string, anomalyID int64, dto UpdateStatusDTO) (*Anomaly, error)
	ExportReport(ctx context.Context, accountID string, w io.Writer) error
	Scan(ctx context.Context, accountID string) (*ScanReport, error)
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

func (h *Handler) GetAnomalies(w http.ResponseWriter, r *http.Request) {
	accountID := internal.AccountIDFromContext(r.Context())
	if accountID == "" {
		h.HandleServiceError(w, internal.ErrMissingAccount)
		return
	}

	anomalies, err := h.Service.ListAnomalies(r.Context(), accountID)
	if err != nil {
		h.Logger.Error("GetAnomalies: service error", "error", err, "account_id", accountID)
		h.WriteError(w, http.StatusInternalServerError, "failed to fetch anomalies")
		return
	}

	h.WriteJSON(w, http.StatusOK, anomalies)
}

func (h *Handler) UpdateAnomalyStatus(w http.ResponseWriter, r *http.Request) {
	accountID := internal.AccountIDFromContext(r.Context())
	if accountID == "" {
		h.HandleServiceError(w, internal.ErrMissingAccount)
		return
	}

	idStr := chi.URLParam(r, "id")
	anomalyID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || anomalyID <= 0 {
		h.HandleServiceError(w, internal.NewValidationError("invalid anomaly ID", internal.ErrCodeInvalidIdentifier))
		return
	}

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateAnomalyStatus: invalid request body", "error", err)
		h.HandleServiceError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	updated, err := h.Service.UpdateStatus(r.Context(), accountID, anomalyID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

// DownloadReport streams the account's anomalies as a CSV attachment.
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	accountID := internal.AccountIDFromContext(r.Context())
	if accountID == "" {
		h.HandleServiceError(w, internal.ErrMissingAccount)
		return
	}

	// buffered so a failure can still produce an error status
	var buf bytes.Buffer
	if err := h.Service.ExportReport(r.Context(), accountID, &buf); err != nil {
		h.Logger.Error("DownloadReport: service error", "error", err, "account_id", accountID)
		h.WriteError(w, http.StatusInternalServerError, "failed to generate report")
		return
	}

	filename := fmt.Sprintf("ghost-payroll-report-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("DownloadReport: write failed", "error", err)
	}
}

func (h *Handler) RunScan(w http.ResponseWriter, r *http.Request) {
	accountID := internal.AccountIDFromContext(r.Context())
	if accountID == "" {
		h.HandleServiceError(w, internal.ErrMissingAccount)
		return
	}

	report, err := h.Service.Scan(r.Context(), accountID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, NewScanResponse(report))
}
