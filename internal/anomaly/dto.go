package anomaly

import (
	"github.com/frahmantamala/ghost-payroll/internal/records"
)

// UpdateStatusDTO is the body of PATCH /anomalies/{id}/status.
type UpdateStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed resolved false_positive"`
}

// AnomalyResponse is an anomaly joined with the employee it refers to.
// Employee is nil when the employee row no longer exists.
type AnomalyResponse struct {
	*Anomaly
	RiskLevel string            `json:"risk_level"`
	Employee  *records.Employee `json:"employee"`
}

type ScanResponse struct {
	EmployeesScanned int   `json:"employees_scanned"`
	AnomaliesEmitted int   `json:"anomalies_emitted"`
	InsertFailures   int   `json:"insert_failures"`
	DurationMS       int64 `json:"duration_ms"`
}

func NewScanResponse(r *ScanReport) ScanResponse {
	return ScanResponse{
		EmployeesScanned: r.EmployeesScanned,
		AnomaliesEmitted: r.AnomaliesEmitted,
		InsertFailures:   r.InsertFailures,
		DurationMS:       r.Duration.Milliseconds(),
	}
}
