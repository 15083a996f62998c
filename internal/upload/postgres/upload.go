package postgres

import (
	"context"

	fileuploadDatamodel "github.com/frahmantamala/ghost-payroll/internal/core/datamodel/fileupload"
	"github.com/frahmantamala/ghost-payroll/internal/upload"
	"gorm.io/gorm"
)

// FileUploadRepository implements upload.RepositoryAPI using GORM.
type FileUploadRepository struct {
	db *gorm.DB
}

func NewFileUploadRepository(db *gorm.DB) *FileUploadRepository {
	return &FileUploadRepository{db: db}
}

func (r *FileUploadRepository) Create(ctx context.Context, f *upload.FileUpload) error {
	row := upload.ToDataModel(f)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	f.ID, f.Status, f.CreatedAt = row.ID, row.Status, row.CreatedAt
	return nil
}

// Save writes the mutable state of an upload: status, record count and error.
func (r *FileUploadRepository) Save(ctx context.Context, f *upload.FileUpload) error {
	return r.db.WithContext(ctx).
		Model(&fileuploadDatamodel.FileUpload{}).
		Where("account_id = ? AND id = ?", f.AccountID, f.ID).
		Updates(map[string]interface{}{
			"status":        f.Status,
			"records_count": f.RecordsCount,
			"error_message": f.ErrorMessage,
		}).Error
}

func (r *FileUploadRepository) ListByAccount(ctx context.Context, accountID string) ([]*upload.FileUpload, error) {
	var rows []*fileuploadDatamodel.FileUpload
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*upload.FileUpload, len(rows))
	for i, row := range rows {
		result[i] = upload.FromDataModel(row)
	}
	return result, nil
}
