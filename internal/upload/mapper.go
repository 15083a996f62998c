package upload

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/ghost-payroll/internal/core/common/validation"
	"github.com/frahmantamala/ghost-payroll/internal/records"
)

// Row is one CSV data line keyed by its header names.
type Row map[string]string

// Value returns the first non-empty value among the accepted column aliases.
func (r Row) Value(aliases ...string) string {
	for _, alias := range aliases {
		if v := strings.TrimSpace(r[alias]); v != "" {
			return v
		}
	}
	return ""
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
}

var clockLayouts = []string{"15:04:05", "15:04"}

func parseTime(field, raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%s: unrecognised date %q", field, raw)
}

func parseOptionalTime(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := parseTime(field, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseClock accepts either a full timestamp or a bare clock time, which is
// placed on day.
func parseClock(field, raw string, day time.Time) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range clockLayouts {
		if c, err := time.Parse(layout, raw); err == nil {
			t := time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), c.Second(), 0, day.Location())
			return &t, nil
		}
	}
	return parseOptionalTime(field, raw)
}

func parseOptionalFloat(field, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: not a number %q", field, raw)
	}
	return &f, nil
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

type employeeRow struct {
	EmployeeID string `json:"employee_id" validate:"required,max=64"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	Salary     string `json:"salary" validate:"omitempty,numeric"`
}

type attendanceRow struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Date       string `json:"date" validate:"required"`
	Status     string `json:"status" validate:"required,oneof=present absent late"`
}

type salaryRow struct {
	EmployeeID     string `json:"employee_id" validate:"required"`
	PaymentDate    string `json:"payment_date" validate:"required"`
	Amount         string `json:"amount" validate:"required,numeric"`
	PayPeriodStart string `json:"pay_period_start" validate:"required"`
	PayPeriodEnd   string `json:"pay_period_end" validate:"required"`
}

type wifiRow struct {
	EmployeeID   string `json:"employee_id" validate:"required"`
	SessionStart string `json:"session_start" validate:"required"`
	IPAddress    string `json:"ip_address" validate:"omitempty,ip"`
}

func MapEmployee(accountID string, r Row) (*records.Employee, error) {
	in := employeeRow{
		EmployeeID: r.Value("employee_id", "employeeId", "id"),
		FirstName:  r.Value("first_name", "firstName"),
		LastName:   r.Value("last_name", "lastName"),
		Email:      r.Value("email"),
		Salary:     r.Value("salary"),
	}
	if appErr := validation.Struct(in); appErr != nil {
		return nil, appErr
	}

	hireDate, err := parseOptionalTime("hire_date", r.Value("hire_date", "hireDate"))
	if err != nil {
		return nil, err
	}
	salary, err := parseOptionalFloat("salary", in.Salary)
	if err != nil {
		return nil, err
	}

	status := strings.ToLower(r.Value("status"))
	if status == "" {
		status = records.EmployeeStatusActive
	}

	return &records.Employee{
		AccountID:  accountID,
		EmployeeID: in.EmployeeID,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      optionalString(in.Email),
		Department: optionalString(r.Value("department")),
		Position:   optionalString(r.Value("position")),
		HireDate:   hireDate,
		Salary:     salary,
		Status:     status,
	}, nil
}

func MapAttendance(accountID string, r Row) (*records.AttendanceRecord, error) {
	in := attendanceRow{
		EmployeeID: r.Value("employee_id", "employeeId"),
		Date:       r.Value("date"),
		Status:     strings.ToLower(r.Value("status")),
	}
	if appErr := validation.Struct(in); appErr != nil {
		return nil, appErr
	}

	date, err := parseTime("date", in.Date)
	if err != nil {
		return nil, err
	}
	timeIn, err := parseClock("time_in", r.Value("time_in", "timeIn"), date)
	if err != nil {
		return nil, err
	}
	timeOut, err := parseClock("time_out", r.Value("time_out", "timeOut"), date)
	if err != nil {
		return nil, err
	}

	return &records.AttendanceRecord{
		AccountID:  accountID,
		EmployeeID: in.EmployeeID,
		Date:       date,
		TimeIn:     timeIn,
		TimeOut:    timeOut,
		Status:     in.Status,
	}, nil
}

func MapSalaryPayment(accountID string, r Row) (*records.SalaryPayment, error) {
	in := salaryRow{
		EmployeeID:     r.Value("employee_id", "employeeId"),
		PaymentDate:    r.Value("payment_date", "paymentDate"),
		Amount:         r.Value("amount"),
		PayPeriodStart: r.Value("pay_period_start", "payPeriodStart"),
		PayPeriodEnd:   r.Value("pay_period_end", "payPeriodEnd"),
	}
	if appErr := validation.Struct(in); appErr != nil {
		return nil, appErr
	}

	paymentDate, err := parseTime("payment_date", in.PaymentDate)
	if err != nil {
		return nil, err
	}
	amount, err := strconv.ParseFloat(in.Amount, 64)
	if err != nil {
		return nil, fmt.Errorf("amount: not a number %q", in.Amount)
	}
	periodStart, err := parseTime("pay_period_start", in.PayPeriodStart)
	if err != nil {
		return nil, err
	}
	periodEnd, err := parseTime("pay_period_end", in.PayPeriodEnd)
	if err != nil {
		return nil, err
	}

	return &records.SalaryPayment{
		AccountID:      accountID,
		EmployeeID:     in.EmployeeID,
		PaymentDate:    paymentDate,
		Amount:         amount,
		PayPeriodStart: periodStart,
		PayPeriodEnd:   periodEnd,
	}, nil
}

func MapWifiSession(accountID string, r Row) (*records.WifiSession, error) {
	in := wifiRow{
		EmployeeID:   r.Value("employee_id", "employeeId"),
		SessionStart: r.Value("session_start", "sessionStart"),
		IPAddress:    r.Value("ip_address", "ipAddress"),
	}
	if appErr := validation.Struct(in); appErr != nil {
		return nil, appErr
	}

	start, err := parseTime("session_start", in.SessionStart)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalTime("session_end", r.Value("session_end", "sessionEnd"))
	if err != nil {
		return nil, err
	}

	return &records.WifiSession{
		AccountID:    accountID,
		EmployeeID:   in.EmployeeID,
		SessionStart: start,
		SessionEnd:   end,
		DeviceMAC:    optionalString(r.Value("device_mac", "deviceMac")),
		IPAddress:    optionalString(in.IPAddress),
	}, nil
}
