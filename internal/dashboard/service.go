package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/frahmantamala/ghost-payroll/internal"
)

const queryTimeout = 5 * time.Second

type RepositoryAPI interface {
	CountEmployees(ctx context.Context, accountID string) (int, error)
	CountPendingAnomalies(ctx context.Context, accountID string) (int, error)
	SumPendingMonthlySalary(ctx context.Context, accountID string) (float64, error)
	RiskDistribution(ctx context.Context, accountID string) (RiskDistribution, error)
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

// GetStats summarises the account. Potential savings is the annual salary
// behind every pending anomaly, rounded to whole currency units.
func (s *Service) GetStats(ctx context.Context, accountID string) (*Stats, error) {
	ctx, cancel := internal.WithTimeout(ctx, queryTimeout)
	defer cancel()

	employees, err := s.repo.CountEmployees(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to count employees", "error", err, "account_id", accountID)
		return nil, fmt.Errorf("count employees: %w", err)
	}

	pending, err := s.repo.CountPendingAnomalies(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to count pending anomalies", "error", err, "account_id", accountID)
		return nil, fmt.Errorf("count pending anomalies: %w", err)
	}

	monthly, err := s.repo.SumPendingMonthlySalary(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to sum flagged salaries", "error", err, "account_id", accountID)
		return nil, fmt.Errorf("sum flagged salaries: %w", err)
	}

	return &Stats{
		TotalEmployees:   employees,
		FlaggedAnomalies: pending,
		PotentialSavings: int64(math.Round(monthly * 12)),
		DataAccuracy:     DataAccuracy,
	}, nil
}

func (s *Service) GetRiskDistribution(ctx context.Context, accountID string) (*RiskDistribution, error) {
	ctx, cancel := internal.WithTimeout(ctx, queryTimeout)
	defer cancel()

	dist, err := s.repo.RiskDistribution(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to load risk distribution", "error", err, "account_id", accountID)
		return nil, fmt.Errorf("risk distribution: %w", err)
	}
	return &dist, nil
}
