package anomaly

import "time"

type Anomaly struct {
	ID          int64     `gorm:"primaryKey"`
	AccountID   string    `gorm:"column:account_id;not null;index"`
	EmployeeID  string    `gorm:"column:employee_id;not null"`
	Type        string    `gorm:"column:type;not null"`
	RiskScore   int       `gorm:"column:risk_score;not null"`
	Description string    `gorm:"column:description;not null"`
	Details     string    `gorm:"column:details;type:jsonb"`
	Status      string    `gorm:"column:status;default:pending"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Anomaly) TableName() string {
	return "anomalies"
}
