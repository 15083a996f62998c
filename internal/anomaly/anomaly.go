package anomaly

import (
	"encoding/json"
	"fmt"
	"time"

	anomalyDatamodel "github.com/frahmantamala/ghost-payroll/internal/core/datamodel/anomaly"
)

const (
	TypeWifiInconsistency   = "wifi_inconsistency"
	TypePayrollIrregularity = "payroll_irregularity"
	// TypeAttendanceGap is accepted by storage but no rule produces it yet.
	TypeAttendanceGap = "attendance_gap"

	StatusPending       = "pending"
	StatusReviewed      = "reviewed"
	StatusResolved      = "resolved"
	StatusFalsePositive = "false_positive"

	RiskScoreWifiInconsistency   = 95
	RiskScorePayrollIrregularity = 78

	PayrollWindowDays = 45
	PayrollWindow     = PayrollWindowDays * 24 * time.Hour

	DetailAttendanceDays = "attendanceDays"
	DetailWifiSessions   = "wifiSessions"
	DetailSalaryPayments = "salaryPayments"
)

// Risk bands used by the dashboard distribution.
const (
	HighRiskThreshold   = 80
	MediumRiskThreshold = 50
)

type Anomaly struct {
	ID          int64          `json:"id"`
	AccountID   string         `json:"-"`
	EmployeeID  string         `json:"employee_id"`
	Type        string         `json:"type"`
	RiskScore   int            `json:"risk_score"`
	Description string         `json:"description"`
	Details     map[string]int `json:"details"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (a *Anomaly) IsPending() bool {
	return a.Status == StatusPending
}

func (a *Anomaly) RiskLevel() string {
	switch {
	case a.RiskScore >= HighRiskThreshold:
		return "high"
	case a.RiskScore >= MediumRiskThreshold:
		return "medium"
	default:
		return "low"
	}
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusReviewed, StatusResolved, StatusFalsePositive:
		return true
	}
	return false
}

func newWifiInconsistency(accountID, employeeID string, attendanceDays, wifiSessions int) *Anomaly {
	return &Anomaly{
		AccountID:   accountID,
		EmployeeID:  employeeID,
		Type:        TypeWifiInconsistency,
		RiskScore:   RiskScoreWifiInconsistency,
		Description: fmt.Sprintf("Employee marked present for %d days but no Wi-Fi connection recorded", attendanceDays),
		Details: map[string]int{
			DetailAttendanceDays: attendanceDays,
			DetailWifiSessions:   wifiSessions,
		},
		Status: StatusPending,
	}
}

func newPayrollIrregularity(accountID, employeeID string, salaryPayments, attendanceDays int) *Anomaly {
	return &Anomaly{
		AccountID:   accountID,
		EmployeeID:  employeeID,
		Type:        TypePayrollIrregularity,
		RiskScore:   RiskScorePayrollIrregularity,
		Description: fmt.Sprintf("Salary payments continue with no attendance for %d days", PayrollWindowDays),
		Details: map[string]int{
			DetailSalaryPayments: salaryPayments,
			DetailAttendanceDays: attendanceDays,
		},
		Status: StatusPending,
	}
}

func ToDataModel(a *Anomaly) (*anomalyDatamodel.Anomaly, error) {
	details := "{}"
	if len(a.Details) > 0 {
		raw, err := json.Marshal(a.Details)
		if err != nil {
			return nil, fmt.Errorf("encode anomaly details: %w", err)
		}
		details = string(raw)
	}

	status := a.Status
	if status == "" {
		status = StatusPending
	}

	return &anomalyDatamodel.Anomaly{
		ID:          a.ID,
		AccountID:   a.AccountID,
		EmployeeID:  a.EmployeeID,
		Type:        a.Type,
		RiskScore:   a.RiskScore,
		Description: a.Description,
		Details:     details,
		Status:      status,
		CreatedAt:   a.CreatedAt,
	}, nil
}

func FromDataModel(a *anomalyDatamodel.Anomaly) (*Anomaly, error) {
	details := map[string]int{}
	if a.Details != "" {
		if err := json.Unmarshal([]byte(a.Details), &details); err != nil {
			return nil, fmt.Errorf("decode anomaly %d details: %w", a.ID, err)
		}
	}

	return &Anomaly{
		ID:          a.ID,
		AccountID:   a.AccountID,
		EmployeeID:  a.EmployeeID,
		Type:        a.Type,
		RiskScore:   a.RiskScore,
		Description: a.Description,
		Details:     details,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
	}, nil
}
