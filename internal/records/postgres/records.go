package postgres

import (
	"context"
	"errors"

	recordDatamodel "github.com/frahmantamala/ghost-payroll/internal/core/datamodel/record"
	"github.com/frahmantamala/ghost-payroll/internal/records"
	"gorm.io/gorm"
)

// RecordRepository implements records.RepositoryAPI using GORM.
type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) scoped(ctx context.Context, accountID string) *gorm.DB {
	return r.db.WithContext(ctx).Where("account_id = ?", accountID)
}

func (r *RecordRepository) ListEmployees(ctx context.Context, accountID string) ([]*records.Employee, error) {
	var rows []*recordDatamodel.Employee
	if err := r.scoped(ctx, accountID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*records.Employee, len(rows))
	for i, row := range rows {
		result[i] = records.EmployeeFromDataModel(row)
	}
	return result, nil
}

func (r *RecordRepository) GetEmployee(ctx context.Context, accountID, employeeID string) (*records.Employee, error) {
	var row recordDatamodel.Employee
	err := r.scoped(ctx, accountID).Where("employee_id = ?", employeeID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, records.ErrEmployeeNotFound
		}
		return nil, err
	}
	return records.EmployeeFromDataModel(&row), nil
}

func (r *RecordRepository) ListAttendance(ctx context.Context, accountID string) ([]*records.AttendanceRecord, error) {
	var rows []*recordDatamodel.AttendanceRecord
	if err := r.scoped(ctx, accountID).Order("date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*records.AttendanceRecord, len(rows))
	for i, row := range rows {
		result[i] = records.AttendanceFromDataModel(row)
	}
	return result, nil
}

func (r *RecordRepository) ListSalaryPayments(ctx context.Context, accountID string) ([]*records.SalaryPayment, error) {
	var rows []*recordDatamodel.SalaryPayment
	if err := r.scoped(ctx, accountID).Order("payment_date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*records.SalaryPayment, len(rows))
	for i, row := range rows {
		result[i] = records.SalaryFromDataModel(row)
	}
	return result, nil
}

func (r *RecordRepository) ListWifiSessions(ctx context.Context, accountID string) ([]*records.WifiSession, error) {
	var rows []*recordDatamodel.WifiSession
	if err := r.scoped(ctx, accountID).Order("session_start ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*records.WifiSession, len(rows))
	for i, row := range rows {
		result[i] = records.WifiFromDataModel(row)
	}
	return result, nil
}

func (r *RecordRepository) CreateEmployee(ctx context.Context, e *records.Employee) error {
	row := records.EmployeeToDataModel(e)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	e.ID, e.Status, e.CreatedAt = row.ID, row.Status, row.CreatedAt
	return nil
}

func (r *RecordRepository) CreateAttendance(ctx context.Context, a *records.AttendanceRecord) error {
	row := records.AttendanceToDataModel(a)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	a.ID, a.CreatedAt = row.ID, row.CreatedAt
	return nil
}

func (r *RecordRepository) CreateSalaryPayment(ctx context.Context, p *records.SalaryPayment) error {
	row := records.SalaryToDataModel(p)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	p.ID, p.CreatedAt = row.ID, row.CreatedAt
	return nil
}

func (r *RecordRepository) CreateWifiSession(ctx context.Context, w *records.WifiSession) error {
	row := records.WifiToDataModel(w)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	w.ID, w.CreatedAt = row.ID, row.CreatedAt
	return nil
}
