package postgres

import (
	"context"

	"github.com/frahmantamala/ghost-payroll/internal/anomaly"
	"github.com/frahmantamala/ghost-payroll/internal/dashboard"
	"github.com/jmoiron/sqlx"
)

// DashboardRepository runs the aggregate queries behind the dashboard with sqlx.
type DashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) CountEmployees(ctx context.Context, accountID string) (int, error) {
	var n int
	query := r.db.Rebind(`SELECT COUNT(*) FROM employees WHERE account_id = ?`)
	err := r.db.GetContext(ctx, &n, query, accountID)
	return n, err
}

func (r *DashboardRepository) CountPendingAnomalies(ctx context.Context, accountID string) (int, error) {
	var n int
	query := r.db.Rebind(`SELECT COUNT(*) FROM anomalies WHERE account_id = ? AND status = ?`)
	err := r.db.GetContext(ctx, &n, query, accountID, anomaly.StatusPending)
	return n, err
}

// SumPendingMonthlySalary adds up the monthly salary behind every pending
// anomaly. An employee flagged twice is counted twice.
func (r *DashboardRepository) SumPendingMonthlySalary(ctx context.Context, accountID string) (float64, error) {
	var total float64
	query := r.db.Rebind(`
		SELECT COALESCE(SUM(e.salary), 0)
		FROM anomalies a
		JOIN employees e ON e.account_id = a.account_id AND e.employee_id = a.employee_id
		WHERE a.account_id = ? AND a.status = ?`)
	err := r.db.GetContext(ctx, &total, query, accountID, anomaly.StatusPending)
	return total, err
}

func (r *DashboardRepository) RiskDistribution(ctx context.Context, accountID string) (dashboard.RiskDistribution, error) {
	var dist dashboard.RiskDistribution
	query := r.db.Rebind(`
		SELECT
			COALESCE(SUM(CASE WHEN risk_score >= ? THEN 1 ELSE 0 END), 0) AS high,
			COALESCE(SUM(CASE WHEN risk_score >= ? AND risk_score < ? THEN 1 ELSE 0 END), 0) AS medium,
			COALESCE(SUM(CASE WHEN risk_score < ? THEN 1 ELSE 0 END), 0) AS low
		FROM anomalies
		WHERE account_id = ?`)
	err := r.db.GetContext(ctx, &dist, query,
		anomaly.HighRiskThreshold,
		anomaly.MediumRiskThreshold, anomaly.HighRiskThreshold,
		anomaly.MediumRiskThreshold,
		accountID)
	return dist, err
}
