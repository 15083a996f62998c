package records

import (
	"context"
	"log/slog"
)

// RepositoryAPI is the account-scoped store for the four uploaded record streams.
// Every method filters on accountID; implementations must never return rows
// owned by another account.
type RepositoryAPI interface {
	ListEmployees(ctx context.Context, accountID string) ([]*Employee, error)
	GetEmployee(ctx context.Context, accountID, employeeID string) (*Employee, error)
	ListAttendance(ctx context.Context, accountID string) ([]*AttendanceRecord, error)
	ListSalaryPayments(ctx context.Context, accountID string) ([]*SalaryPayment, error)
	ListWifiSessions(ctx context.Context, accountID string) ([]*WifiSession, error)

	CreateEmployee(ctx context.Context, e *Employee) error
	CreateAttendance(ctx context.Context, a *AttendanceRecord) error
	CreateSalaryPayment(ctx context.Context, p *SalaryPayment) error
	CreateWifiSession(ctx context.Context, w *WifiSession) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) ListEmployees(ctx context.Context, accountID string) ([]*Employee, error) {
	employees, err := s.repo.ListEmployees(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err, "account_id", accountID)
		return nil, err
	}

	s.logger.Debug("listed employees", "account_id", accountID, "count", len(employees))
	return employees, nil
}

// EmployeeIndex returns the account's employees keyed by external identifier.
func (s *Service) EmployeeIndex(ctx context.Context, accountID string) (map[string]*Employee, error) {
	employees, err := s.ListEmployees(ctx, accountID)
	if err != nil {
		return nil, err
	}

	index := make(map[string]*Employee, len(employees))
	for _, e := range employees {
		index[e.EmployeeID] = e
	}
	return index, nil
}
