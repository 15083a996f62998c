package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/ghost-payroll/internal"
	"github.com/frahmantamala/ghost-payroll/internal/anomaly"
	anomalyDatamodel "github.com/frahmantamala/ghost-payroll/internal/core/datamodel/anomaly"
	"gorm.io/gorm"
)

// AnomalyRepository implements anomaly.RepositoryAPI using GORM.
type AnomalyRepository struct {
	db *gorm.DB
}

func NewAnomalyRepository(db *gorm.DB) *AnomalyRepository {
	return &AnomalyRepository{db: db}
}

func (r *AnomalyRepository) InsertAnomaly(ctx context.Context, a *anomaly.Anomaly) (*anomaly.Anomaly, error) {
	row, err := anomaly.ToDataModel(a)
	if err != nil {
		return nil, err
	}
	row.ID = 0

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("insert anomaly: %w", err)
	}
	return anomaly.FromDataModel(row)
}

func (r *AnomalyRepository) List(ctx context.Context, accountID string) ([]*anomaly.Anomaly, error) {
	var rows []*anomalyDatamodel.Anomaly
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*anomaly.Anomaly, 0, len(rows))
	for _, row := range rows {
		a, err := anomaly.FromDataModel(row)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *AnomalyRepository) GetByID(ctx context.Context, accountID string, id int64) (*anomaly.Anomaly, error) {
	var row anomalyDatamodel.Anomaly
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAnomalyNotFound
		}
		return nil, err
	}
	return anomaly.FromDataModel(&row)
}

func (r *AnomalyRepository) UpdateStatus(ctx context.Context, accountID string, id int64, status string) (*anomaly.Anomaly, error) {
	result := r.db.WithContext(ctx).
		Model(&anomalyDatamodel.Anomaly{}).
		Where("account_id = ? AND id = ?", accountID, id).
		Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, internal.ErrAnomalyNotFound
	}
	return r.GetByID(ctx, accountID, id)
}
