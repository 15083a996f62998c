package records

import (
	"errors"
	"strings"
	"time"

	recordDatamodel "github.com/frahmantamala/ghost-payroll/internal/core/datamodel/record"
)

const (
	EmployeeStatusActive = "active"

	AttendanceStatusPresent = "present"
	AttendanceStatusAbsent  = "absent"
	AttendanceStatusLate    = "late"
)

var ErrEmployeeNotFound = errors.New("employee not found")

type Employee struct {
	ID         int64      `json:"id"`
	AccountID  string     `json:"-"`
	EmployeeID string     `json:"employee_id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Email      *string    `json:"email,omitempty"`
	Department *string    `json:"department,omitempty"`
	Position   *string    `json:"position,omitempty"`
	HireDate   *time.Time `json:"hire_date,omitempty"`
	Salary     *float64   `json:"salary,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// AnnualSalary is the yearly cost of the employee, zero when salary is unknown.
func (e *Employee) AnnualSalary() float64 {
	if e.Salary == nil {
		return 0
	}
	return *e.Salary * 12
}

type AttendanceRecord struct {
	ID         int64      `json:"id"`
	AccountID  string     `json:"-"`
	EmployeeID string     `json:"employee_id"`
	Date       time.Time  `json:"date"`
	TimeIn     *time.Time `json:"time_in,omitempty"`
	TimeOut    *time.Time `json:"time_out,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (a *AttendanceRecord) IsPresent() bool {
	return a.Status == AttendanceStatusPresent
}

type SalaryPayment struct {
	ID             int64     `json:"id"`
	AccountID      string    `json:"-"`
	EmployeeID     string    `json:"employee_id"`
	PaymentDate    time.Time `json:"payment_date"`
	Amount         float64   `json:"amount"`
	PayPeriodStart time.Time `json:"pay_period_start"`
	PayPeriodEnd   time.Time `json:"pay_period_end"`
	CreatedAt      time.Time `json:"created_at"`
}

type WifiSession struct {
	ID           int64      `json:"id"`
	AccountID    string     `json:"-"`
	EmployeeID   string     `json:"employee_id"`
	SessionStart time.Time  `json:"session_start"`
	SessionEnd   *time.Time `json:"session_end,omitempty"`
	DeviceMAC    *string    `json:"device_mac,omitempty"`
	IPAddress    *string    `json:"ip_address,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func EmployeeToDataModel(e *Employee) *recordDatamodel.Employee {
	status := e.Status
	if status == "" {
		status = EmployeeStatusActive
	}
	return &recordDatamodel.Employee{
		ID:         e.ID,
		AccountID:  e.AccountID,
		EmployeeID: e.EmployeeID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Department: e.Department,
		Position:   e.Position,
		HireDate:   e.HireDate,
		Salary:     e.Salary,
		Status:     status,
		CreatedAt:  e.CreatedAt,
	}
}

func EmployeeFromDataModel(e *recordDatamodel.Employee) *Employee {
	return &Employee{
		ID:         e.ID,
		AccountID:  e.AccountID,
		EmployeeID: e.EmployeeID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Department: e.Department,
		Position:   e.Position,
		HireDate:   e.HireDate,
		Salary:     e.Salary,
		Status:     e.Status,
		CreatedAt:  e.CreatedAt,
	}
}

func AttendanceToDataModel(a *AttendanceRecord) *recordDatamodel.AttendanceRecord {
	return &recordDatamodel.AttendanceRecord{
		ID:         a.ID,
		AccountID:  a.AccountID,
		EmployeeID: a.EmployeeID,
		Date:       a.Date,
		TimeIn:     a.TimeIn,
		TimeOut:    a.TimeOut,
		Status:     a.Status,
		CreatedAt:  a.CreatedAt,
	}
}

func AttendanceFromDataModel(a *recordDatamodel.AttendanceRecord) *AttendanceRecord {
	return &AttendanceRecord{
		ID:         a.ID,
		AccountID:  a.AccountID,
		EmployeeID: a.EmployeeID,
		Date:       a.Date,
		TimeIn:     a.TimeIn,
		TimeOut:    a.TimeOut,
		Status:     a.Status,
		CreatedAt:  a.CreatedAt,
	}
}

func SalaryToDataModel(p *SalaryPayment) *recordDatamodel.SalaryPayment {
	return &recordDatamodel.SalaryPayment{
		ID:             p.ID,
		AccountID:      p.AccountID,
		EmployeeID:     p.EmployeeID,
		PaymentDate:    p.PaymentDate,
		Amount:         p.Amount,
		PayPeriodStart: p.PayPeriodStart,
		PayPeriodEnd:   p.PayPeriodEnd,
		CreatedAt:      p.CreatedAt,
	}
}

func SalaryFromDataModel(p *recordDatamodel.SalaryPayment) *SalaryPayment {
	return &SalaryPayment{
		ID:             p.ID,
		AccountID:      p.AccountID,
		EmployeeID:     p.EmployeeID,
		PaymentDate:    p.PaymentDate,
		Amount:         p.Amount,
		PayPeriodStart: p.PayPeriodStart,
		PayPeriodEnd:   p.PayPeriodEnd,
		CreatedAt:      p.CreatedAt,
	}
}

func WifiToDataModel(w *WifiSession) *recordDatamodel.WifiSession {
	return &recordDatamodel.WifiSession{
		ID:           w.ID,
		AccountID:    w.AccountID,
		EmployeeID:   w.EmployeeID,
		SessionStart: w.SessionStart,
		SessionEnd:   w.SessionEnd,
		DeviceMAC:    w.DeviceMAC,
		IPAddress:    w.IPAddress,
		CreatedAt:    w.CreatedAt,
	}
}

func WifiFromDataModel(w *recordDatamodel.WifiSession) *WifiSession {
	return &WifiSession{
		ID:           w.ID,
		AccountID:    w.AccountID,
		EmployeeID:   w.EmployeeID,
		SessionStart: w.SessionStart,
		SessionEnd:   w.SessionEnd,
		DeviceMAC:    w.DeviceMAC,
		IPAddress:    w.IPAddress,
		CreatedAt:    w.CreatedAt,
	}
}
