package anomaly

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/frahmantamala/ghost-payroll/internal"
	"github.com/frahmantamala/ghost-payroll/internal/core/common/validation"
	"github.com/frahmantamala/ghost-payroll/internal/records"
)

type RepositoryAPI interface {
	Writer
	List(ctx context.Context, accountID string) ([]*Anomaly, error)
	GetByID(ctx context.Context, accountID string, id int64) (*Anomaly, error)
	UpdateStatus(ctx context.Context, accountID string, id int64, status string) (*Anomaly, error)
}

// EmployeeLookup resolves the employees anomalies refer to.
type EmployeeLookup interface {
	EmployeeIndex(ctx context.Context, accountID string) (map[string]*records.Employee, error)
}

// Detector runs an anomaly scan for one account.
type Detector interface {
	RunAnomalyDetection(ctx context.Context, accountID string) (*ScanReport, error)
}

var reportHeader = []string{
	"Employee ID",
	"Employee Name",
	"Department",
	"Type",
	"Risk Score",
	"Risk Level",
	"Status",
	"Description",
	"Detected At",
}

type Service struct {
	repo      RepositoryAPI
	employees EmployeeLookup
	detector  Detector
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, employees EmployeeLookup, detector Detector, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		detector:  detector,
		logger:    logger,
	}
}

// ListAnomalies returns the account's anomalies, newest first, each joined with its employee.
func (s *Service) ListAnomalies(ctx context.Context, accountID string) ([]*AnomalyResponse, error) {
	anomalies, err := s.repo.List(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to list anomalies", "error", err, "account_id", accountID)
		return nil, fmt.Errorf("list anomalies: %w", err)
	}

	index, err := s.employees.EmployeeIndex(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}

	result := make([]*AnomalyResponse, len(anomalies))
	for i, a := range anomalies {
		result[i] = &AnomalyResponse{
			Anomaly:   a,
			RiskLevel: a.RiskLevel(),
			Employee:  index[a.EmployeeID],
		}
	}
	return result, nil
}

// UpdateStatus applies a reviewer's decision to one anomaly.
func (s *Service) UpdateStatus(ctx context.Context, accountID string, anomalyID int64, dto UpdateStatusDTO) (*Anomaly, error) {
	if appErr := validation.Struct(dto); appErr != nil {
		return nil, appErr
	}

	updated, err := s.repo.UpdateStatus(ctx, accountID, anomalyID, dto.Status)
	if err != nil {
		if _, ok := internal.IsAppError(err); !ok {
			s.logger.Error("failed to update anomaly status", "error", err, "anomaly_id", anomalyID, "account_id", accountID)
		}
		return nil, err
	}

	s.logger.Info("anomaly status updated",
		"anomaly_id", anomalyID,
		"account_id", accountID,
		"status", updated.Status)
	return updated, nil
}

// ExportReport writes the account's anomalies as CSV.
func (s *Service) ExportReport(ctx context.Context, accountID string, w io.Writer) error {
	rows, err := s.ListAnomalies(ctx, accountID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}

	for _, row := range rows {
		name, department := "", ""
		if row.Employee != nil {
			name = row.Employee.FullName()
			if row.Employee.Department != nil {
				department = *row.Employee.Department
			}
		}
		record := []string{
			row.EmployeeID,
			name,
			department,
			row.Type,
			strconv.Itoa(row.RiskScore),
			row.RiskLevel,
			row.Status,
			row.Description,
			row.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}

	s.logger.Info("anomaly report exported", "account_id", accountID, "rows", len(rows))
	return nil
}

// Scan triggers a manual rescan of the account.
func (s *Service) Scan(ctx context.Context, accountID string) (*ScanReport, error) {
	report, err := s.detector.RunAnomalyDetection(ctx, accountID)
	if err != nil {
		appErr := internal.NewInternalError("Anomaly scan failed", err)
		appErr.Code = internal.ErrCodeScanFailed
		return nil, appErr
	}
	return report, nil
}
