package upload

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/ghost-payroll/internal"
	"github.com/frahmantamala/ghost-payroll/internal/anomaly"
	"github.com/frahmantamala/ghost-payroll/internal/observability"
	"github.com/frahmantamala/ghost-payroll/internal/records"
)

type RepositoryAPI interface {
	Create(ctx context.Context, f *FileUpload) error
	Save(ctx context.Context, f *FileUpload) error
	ListByAccount(ctx context.Context, accountID string) ([]*FileUpload, error)
}

// RecordWriter is the write side of the record store.
type RecordWriter interface {
	CreateEmployee(ctx context.Context, e *records.Employee) error
	CreateAttendance(ctx context.Context, a *records.AttendanceRecord) error
	CreateSalaryPayment(ctx context.Context, p *records.SalaryPayment) error
	CreateWifiSession(ctx context.Context, w *records.WifiSession) error
}

type Service struct {
	repo     RepositoryAPI
	records  RecordWriter
	detector anomaly.Detector
	metrics  *observability.Metrics
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, recordWriter RecordWriter, detector anomaly.Detector, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		records:  recordWriter,
		detector: detector,
		metrics:  metrics,
		logger:   logger,
	}
}

// Ingest stores the rows of one uploaded CSV and then rescans the account.
// Rows that do not map are skipped. A failed scan is logged only; the
// upload stays completed because its rows are already stored.
func (s *Service) Ingest(ctx context.Context, accountID string, req IngestRequest) (*IngestResult, error) {
	if !IsValidType(req.FileType) {
		return nil, internal.NewValidationError("Invalid file type", internal.ErrCodeInvalidUploadType)
	}

	log := s.logger.With("account_id", accountID, "file_type", req.FileType, "file_name", req.FileName)

	fu := &FileUpload{
		AccountID: accountID,
		FileName:  req.FileName,
		FileType:  req.FileType,
		FileSize:  req.FileSize,
		Status:    StatusProcessing,
	}
	if err := s.repo.Create(ctx, fu); err != nil {
		log.Error("failed to create file upload", "error", err)
		return nil, fmt.Errorf("create file upload: %w", err)
	}

	rows, err := ReadRows(req.Body)
	if err != nil {
		log.Warn("csv parse failed", "error", err, "upload_id", fu.ID)
		fu.Fail(err.Error())
		if saveErr := s.repo.Save(ctx, fu); saveErr != nil {
			log.Error("failed to mark upload failed", "error", saveErr, "upload_id", fu.ID)
		}
		s.metrics.UploadFinished(req.FileType, StatusFailed)
		return &IngestResult{Upload: fu}, nil
	}

	stored, skipped := s.store(ctx, log, accountID, req.FileType, rows)
	s.metrics.RowsIngested(req.FileType, stored, skipped)

	fu.Complete(stored)
	if err := s.repo.Save(ctx, fu); err != nil {
		log.Error("failed to mark upload completed", "error", err, "upload_id", fu.ID)
		return nil, fmt.Errorf("complete file upload: %w", err)
	}
	s.metrics.UploadFinished(req.FileType, StatusCompleted)

	log.Info("file upload processed",
		"upload_id", fu.ID,
		"rows", len(rows),
		"stored", stored,
		"skipped", skipped)

	result := &IngestResult{Upload: fu, RowsRead: len(rows), RowsSkipped: skipped}

	report, err := s.detector.RunAnomalyDetection(ctx, accountID)
	if err != nil {
		log.Error("anomaly detection after upload failed", "error", err, "upload_id", fu.ID)
		return result, nil
	}
	result.AnomaliesDetected = report.AnomaliesEmitted
	return result, nil
}

func (s *Service) store(ctx context.Context, log *slog.Logger, accountID, fileType string, rows []Row) (stored, skipped int) {
	for i, row := range rows {
		if err := s.storeRow(ctx, accountID, fileType, row); err != nil {
			skipped++
			log.Warn("skipping csv row", "row", i+1, "error", err)
			continue
		}
		stored++
	}
	return stored, skipped
}

func (s *Service) storeRow(ctx context.Context, accountID, fileType string, row Row) error {
	switch fileType {
	case TypeEmployeeMaster:
		e, err := MapEmployee(accountID, row)
		if err != nil {
			return err
		}
		return s.records.CreateEmployee(ctx, e)
	case TypeAttendance:
		a, err := MapAttendance(accountID, row)
		if err != nil {
			return err
		}
		return s.records.CreateAttendance(ctx, a)
	case TypeSalary:
		p, err := MapSalaryPayment(accountID, row)
		if err != nil {
			return err
		}
		return s.records.CreateSalaryPayment(ctx, p)
	case TypeWifi:
		w, err := MapWifiSession(accountID, row)
		if err != nil {
			return err
		}
		return s.records.CreateWifiSession(ctx, w)
	}
	return fmt.Errorf("unknown file type %q", fileType)
}

func (s *Service) ListUploads(ctx context.Context, accountID string) ([]*FileUpload, error) {
	uploads, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to list file uploads", "error", err, "account_id", accountID)
		return nil, err
	}
	return uploads, nil
}
