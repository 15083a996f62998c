package upload

import (
	"time"

	fileuploadDatamodel "github.com/frahmantamala/ghost-payroll/internal/core/datamodel/fileupload"
)

const (
	TypeEmployeeMaster = "employee-master"
	TypeAttendance     = "attendance"
	TypeSalary         = "salary"
	TypeWifi           = "wifi"

	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

func IsValidType(fileType string) bool {
	switch fileType {
	case TypeEmployeeMaster, TypeAttendance, TypeSalary, TypeWifi:
		return true
	}
	return false
}

// FileUpload is the bookkeeping row kept for every CSV a user submits.
type FileUpload struct {
	ID           int64     `json:"id"`
	AccountID    string    `json:"-"`
	FileName     string    `json:"file_name"`
	FileType     string    `json:"file_type"`
	FileSize     int64     `json:"file_size"`
	RecordsCount *int      `json:"records_count,omitempty"`
	Status       string    `json:"status"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (f *FileUpload) Complete(recordsCount int) {
	f.Status = StatusCompleted
	f.RecordsCount = &recordsCount
	f.ErrorMessage = nil
}

func (f *FileUpload) Fail(reason string) {
	f.Status = StatusFailed
	f.ErrorMessage = &reason
}

func ToDataModel(f *FileUpload) *fileuploadDatamodel.FileUpload {
	status := f.Status
	if status == "" {
		status = StatusProcessing
	}
	return &fileuploadDatamodel.FileUpload{
		ID:           f.ID,
		AccountID:    f.AccountID,
		FileName:     f.FileName,
		FileType:     f.FileType,
		FileSize:     f.FileSize,
		RecordsCount: f.RecordsCount,
		Status:       status,
		ErrorMessage: f.ErrorMessage,
		CreatedAt:    f.CreatedAt,
	}
}

func FromDataModel(f *fileuploadDatamodel.FileUpload) *FileUpload {
	return &FileUpload{
		ID:           f.ID,
		AccountID:    f.AccountID,
		FileName:     f.FileName,
		FileType:     f.FileType,
		FileSize:     f.FileSize,
		RecordsCount: f.RecordsCount,
		Status:       f.Status,
		ErrorMessage: f.ErrorMessage,
		CreatedAt:    f.CreatedAt,
	}
}
