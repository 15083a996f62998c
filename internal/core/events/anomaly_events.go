package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeAnomalyDetected = "anomaly.detected"
	EventTypeScanCompleted   = "scan.completed"
)

type AnomalyDetectedEvent struct {
	BaseEvent
	AnomalyID   int64  `json:"anomaly_id"`
	AccountID   string `json:"account_id"`
	EmployeeID  string `json:"employee_id"`
	AnomalyType string `json:"anomaly_type"`
	RiskScore   int    `json:"risk_score"`
}

func NewAnomalyDetectedEvent(anomalyID int64, accountID, employeeID, anomalyType string, riskScore int) *AnomalyDetectedEvent {
	return &AnomalyDetectedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAnomalyDetected,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"anomaly_id":   anomalyID,
				"account_id":   accountID,
				"employee_id":  employeeID,
				"anomaly_type": anomalyType,
				"risk_score":   riskScore,
			},
		},
		AnomalyID:   anomalyID,
		AccountID:   accountID,
		EmployeeID:  employeeID,
		AnomalyType: anomalyType,
		RiskScore:   riskScore,
	}
}

type ScanCompletedEvent struct {
	BaseEvent
	AccountID        string `json:"account_id"`
	EmployeesScanned int    `json:"employees_scanned"`
	AnomaliesEmitted int    `json:"anomalies_emitted"`
	InsertFailures   int    `json:"insert_failures"`
}

func NewScanCompletedEvent(accountID string, employeesScanned, anomaliesEmitted, insertFailures int) *ScanCompletedEvent {
	return &ScanCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeScanCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"account_id":        accountID,
				"employees_scanned": employeesScanned,
				"anomalies_emitted": anomaliesEmitted,
				"insert_failures":   insertFailures,
			},
		},
		AccountID:        accountID,
		EmployeesScanned: employeesScanned,
		AnomaliesEmitted: anomaliesEmitted,
		InsertFailures:   insertFailures,
	}
}
