package upload

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/frahmantamala/ghost-payroll/internal"
	"github.com/frahmantamala/ghost-payroll/internal/transport"
	"github.com/go-chi/chi"
)

// room for multipart boundaries and headers on top of the file itself
const multipartOverhead = 1 << 20

type ServiceAPI interface {
	Ingest(ctx context.Context, accountID string, req IngestRequest) (*IngestResult, error)
	ListUploads(ctx context.Context, accountID string) ([]*FileUpload, error)
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	MaxBytes int64
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = internal.DefaultMaxUploadBytes
	}
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		MaxBytes:    maxBytes,
	}
}

func (h *Handler) fileTooLarge() *internal.AppError {
	appErr := internal.NewValidationError(
		fmt.Sprintf("File exceeds the %d MB limit", h.MaxBytes>>20),
		internal.ErrCodeFileTooLarge,
	)
	appErr.StatusCode = http.StatusRequestEntityTooLarge
	return appErr
}

func isCSV(filename, contentType string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "text/csv"
}

// UploadFile handles POST /upload/{type} with the CSV in the "file" form field.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	accountID := internal.AccountIDFromContext(r.Context())
	if accountID == "" {
		h.HandleServiceError(w, internal.ErrMissingAccount)
		return
	}

	fileType := chi.URLParam(r, "type")
	if !IsValidType(fileType) {
		h.HandleServiceError(w, internal.NewValidationError("Invalid file type", internal.ErrCodeInvalidUploadType))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.HandleServiceError(w, h.fileTooLarge())
			return
		}
		h.Logger.Warn("UploadFile: invalid multipart form", "error", err)
		h.HandleServiceError(w, internal.NewValidationError("No file uploaded", internal.ErrCodeInvalidFile))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.HandleServiceError(w, internal.NewValidationError("No file uploaded", internal.ErrCodeInvalidFile))
		return
	}
	defer file.Close()

	if header.Size > h.MaxBytes {
		h.HandleServiceError(w, h.fileTooLarge())
		return
	}
	if !isCSV(header.Filename, header.Header.Get("Content-Type")) {
		h.HandleServiceError(w, internal.NewValidationError("Only CSV files are allowed", internal.ErrCodeInvalidFile))
		return
	}

	result, err := h.Service.Ingest(r.Context(), accountID, IngestRequest{
		FileName: header.Filename,
		FileType: fileType,
		FileSize: header.Size,
		Body:     file,
	})
	if err != nil {
		h.Logger.Error("UploadFile: service error", "error", err, "account_id", accountID)
		h.HandleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if result.Upload.Status == StatusFailed {
		status = http.StatusUnprocessableEntity
	}
	h.WriteJSON(w, status, NewUploadResponse(result))
}

func (h *Handler) GetFileUploads(w http.ResponseWriter, r *http.Request) {
	accountID := internal.AccountIDFromContext(r.Context())
	if accountID == "" {
		h.HandleServiceError(w, internal.ErrMissingAccount)
		return
	}

	uploads, err := h.Service.ListUploads(r.Context(), accountID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "failed to fetch file uploads")
		return
	}

	h.WriteJSON(w, http.StatusOK, uploads)
}
