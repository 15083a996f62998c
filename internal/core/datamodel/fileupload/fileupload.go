package fileupload

import "time"

type FileUpload struct {
	ID           int64     `gorm:"primaryKey"`
	AccountID    string    `gorm:"column:account_id;not null;index"`
	FileName     string    `gorm:"column:file_name;not null"`
	FileType     string    `gorm:"column:file_type;not null"`
	FileSize     int64     `gorm:"column:file_size;not null"`
	RecordsCount *int      `gorm:"column:records_count"`
	Status       string    `gorm:"column:status;default:processing"`
	ErrorMessage *string   `gorm:"column:error_message"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (FileUpload) TableName() string {
	return "file_uploads"
}
