package record

import "time"

type Employee struct {
	ID         int64      `gorm:"primaryKey"`
	AccountID  string     `gorm:"column:account_id;not null;uniqueIndex:idx_employees_account_employee"`
	EmployeeID string     `gorm:"column:employee_id;not null;uniqueIndex:idx_employees_account_employee"`
	FirstName  string     `gorm:"column:first_name;not null"`
	LastName   string     `gorm:"column:last_name;not null"`
	Email      *string    `gorm:"column:email"`
	Department *string    `gorm:"column:department"`
	Position   *string    `gorm:"column:position"`
	HireDate   *time.Time `gorm:"column:hire_date;type:date"`
	Salary     *float64   `gorm:"column:salary"`
	Status     string     `gorm:"column:status;default:active"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (Employee) TableName() string {
	return "employees"
}

type AttendanceRecord struct {
	ID         int64      `gorm:"primaryKey"`
	AccountID  string     `gorm:"column:account_id;not null;index"`
	EmployeeID string     `gorm:"column:employee_id;not null"`
	Date       time.Time  `gorm:"column:date;type:date;not null"`
	TimeIn     *time.Time `gorm:"column:time_in"`
	TimeOut    *time.Time `gorm:"column:time_out"`
	Status     string     `gorm:"column:status;not null"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

type SalaryPayment struct {
	ID             int64     `gorm:"primaryKey"`
	AccountID      string    `gorm:"column:account_id;not null;index"`
	EmployeeID     string    `gorm:"column:employee_id;not null"`
	PaymentDate    time.Time `gorm:"column:payment_date;type:date;not null"`
	Amount         float64   `gorm:"column:amount;not null"`
	PayPeriodStart time.Time `gorm:"column:pay_period_start;type:date;not null"`
	PayPeriodEnd   time.Time `gorm:"column:pay_period_end;type:date;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (SalaryPayment) TableName() string {
	return "salary_payments"
}

type WifiSession struct {
	ID           int64      `gorm:"primaryKey"`
	AccountID    string     `gorm:"column:account_id;not null;index"`
	EmployeeID   string     `gorm:"column:employee_id;not null"`
	SessionStart time.Time  `gorm:"column:session_start;not null"`
	SessionEnd   *time.Time `gorm:"column:session_end"`
	DeviceMAC    *string    `gorm:"column:device_mac"`
	IPAddress    *string    `gorm:"column:ip_address"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (WifiSession) TableName() string {
	return "wifi_sessions"
}
