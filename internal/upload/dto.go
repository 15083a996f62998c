package upload

import "io"

// IngestRequest carries one uploaded file.
type IngestRequest struct {
	FileName string
	FileType string
	FileSize int64
	Body     io.Reader
}

type IngestResult struct {
	Upload            *FileUpload
	RowsRead          int
	RowsSkipped       int
	AnomaliesDetected int
}

type UploadResponse struct {
	Message           string `json:"message"`
	FileID            int64  `json:"file_id"`
	Status            string `json:"status"`
	RecordsCount      int    `json:"records_count"`
	SkippedRows       int    `json:"skipped_rows"`
	AnomaliesDetected int    `json:"anomalies_detected"`
	Error             string `json:"error,omitempty"`
}

func NewUploadResponse(r *IngestResult) UploadResponse {
	resp := UploadResponse{
		Message:           "File uploaded successfully",
		FileID:            r.Upload.ID,
		Status:            r.Upload.Status,
		SkippedRows:       r.RowsSkipped,
		AnomaliesDetected: r.AnomaliesDetected,
	}
	if r.Upload.RecordsCount != nil {
		resp.RecordsCount = *r.Upload.RecordsCount
	}
	if r.Upload.ErrorMessage != nil {
		resp.Message = "File could not be processed"
		resp.Error = *r.Upload.ErrorMessage
	}
	return resp
}
