package anomaly

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/ghost-payroll/internal/core/events"
	"github.com/frahmantamala/ghost-payroll/internal/observability"
	"github.com/frahmantamala/ghost-payroll/internal/records"
)

// RecordReader is the read side of the record store the scanner correlates.
type RecordReader interface {
	ListEmployees(ctx context.Context, accountID string) ([]*records.Employee, error)
	ListAttendance(ctx context.Context, accountID string) ([]*records.AttendanceRecord, error)
	ListSalaryPayments(ctx context.Context, accountID string) ([]*records.SalaryPayment, error)
	ListWifiSessions(ctx context.Context, accountID string) ([]*records.WifiSession, error)
}

// Writer persists a new anomaly, assigning its id, creation time and the
// pending status when none is set.
type Writer interface {
	InsertAnomaly(ctx context.Context, a *Anomaly) (*Anomaly, error)
}

type ScanReport struct {
	AccountID        string        `json:"account_id"`
	EmployeesScanned int           `json:"employees_scanned"`
	AnomaliesEmitted int           `json:"anomalies_emitted"`
	InsertFailures   int           `json:"insert_failures"`
	StartedAt        time.Time     `json:"started_at"`
	Duration         time.Duration `json:"duration_ns"`
	Anomalies        []*Anomaly    `json:"anomalies"`
}

type ScannerOption func(*Scanner)

// WithClock replaces time.Now as the reference point of the payroll window.
func WithClock(now func() time.Time) ScannerOption {
	return func(s *Scanner) {
		s.now = now
	}
}

func WithPublisher(p events.Publisher) ScannerOption {
	return func(s *Scanner) {
		s.publisher = p
	}
}

func WithMetrics(m *observability.Metrics) ScannerOption {
	return func(s *Scanner) {
		s.metrics = m
	}
}

// Scanner runs the fixed ghost-employee rules over one account's records.
// It only ever inserts anomalies; review state belongs to Service.
type Scanner struct {
	reader    RecordReader
	writer    Writer
	publisher events.Publisher
	metrics   *observability.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

func NewScanner(reader RecordReader, writer Writer, logger *slog.Logger, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		reader: reader,
		writer: writer,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// employeeActivity is the per-employee tally both rules read from.
type employeeActivity struct {
	presentDays      int
	wifiSessions     int
	recentAttendance int
	recentSalary     int
}

// RunAnomalyDetection loads the account's four record collections and applies
// the Wi-Fi and payroll rules to every employee. A failed read aborts before
// anything is written. A failed insert is logged and counted, and the scan
// moves on. Rescanning unchanged data inserts the same anomalies again.
func (s *Scanner) RunAnomalyDetection(ctx context.Context, accountID string) (*ScanReport, error) {
	begin := time.Now()
	started := s.now()
	report := &ScanReport{AccountID: accountID, StartedAt: started}
	log := s.logger.With("account_id", accountID)

	activity, employees, err := s.load(ctx, accountID, started)
	if err != nil {
		log.Error("anomaly scan aborted", "error", err)
		s.metrics.ScanFinished(time.Since(begin), err)
		return nil, err
	}

	for _, emp := range employees {
		report.EmployeesScanned++
		act := activity[emp.EmployeeID]

		if act.presentDays > 0 && act.wifiSessions == 0 {
			s.emit(ctx, log, report, newWifiInconsistency(accountID, emp.EmployeeID, act.presentDays, act.wifiSessions))
		}

		if act.recentSalary > 0 && act.recentAttendance == 0 {
			s.emit(ctx, log, report, newPayrollIrregularity(accountID, emp.EmployeeID, act.recentSalary, act.recentAttendance))
		}
	}

	report.Duration = time.Since(begin)
	s.metrics.ScanFinished(report.Duration, nil)

	log.Info("anomaly scan completed",
		"employees_scanned", report.EmployeesScanned,
		"anomalies_emitted", report.AnomaliesEmitted,
		"insert_failures", report.InsertFailures,
		"duration", report.Duration)

	s.publish(ctx, log, events.NewScanCompletedEvent(accountID, report.EmployeesScanned, report.AnomaliesEmitted, report.InsertFailures))
	return report, nil
}

func (s *Scanner) load(ctx context.Context, accountID string, now time.Time) (map[string]*employeeActivity, []*records.Employee, error) {
	employees, err := s.reader.ListEmployees(ctx, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("list employees: %w", err)
	}
	attendance, err := s.reader.ListAttendance(ctx, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("list attendance: %w", err)
	}
	salaries, err := s.reader.ListSalaryPayments(ctx, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("list salary payments: %w", err)
	}
	sessions, err := s.reader.ListWifiSessions(ctx, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("list wifi sessions: %w", err)
	}

	activity := make(map[string]*employeeActivity, len(employees))
	for _, emp := range employees {
		activity[emp.EmployeeID] = &employeeActivity{}
	}
	tally := func(employeeID string) *employeeActivity {
		act, ok := activity[employeeID]
		if !ok {
			// rows for ids missing from the employee master are never evaluated
			act = &employeeActivity{}
			activity[employeeID] = act
		}
		return act
	}

	windowStart := now.Add(-PayrollWindow)
	for _, a := range attendance {
		act := tally(a.EmployeeID)
		if a.IsPresent() {
			act.presentDays++
		}
		if a.Date.After(windowStart) {
			act.recentAttendance++
		}
	}
	for _, p := range salaries {
		if p.PaymentDate.After(windowStart) {
			tally(p.EmployeeID).recentSalary++
		}
	}
	for _, w := range sessions {
		tally(w.EmployeeID).wifiSessions++
	}

	return activity, employees, nil
}

func (s *Scanner) emit(ctx context.Context, log *slog.Logger, report *ScanReport, a *Anomaly) {
	saved, err := s.writer.InsertAnomaly(ctx, a)
	if err != nil {
		report.InsertFailures++
		s.metrics.AnomalyInsertFailed()
		log.Error("failed to insert anomaly",
			"error", err,
			"employee_id", a.EmployeeID,
			"type", a.Type)
		return
	}

	report.AnomaliesEmitted++
	report.Anomalies = append(report.Anomalies, saved)
	s.metrics.AnomalyEmitted(saved.Type)

	log.Debug("anomaly detected",
		"anomaly_id", saved.ID,
		"employee_id", saved.EmployeeID,
		"type", saved.Type,
		"risk_score", saved.RiskScore)

	s.publish(ctx, log, events.NewAnomalyDetectedEvent(saved.ID, saved.AccountID, saved.EmployeeID, saved.Type, saved.RiskScore))
}

func (s *Scanner) publish(ctx context.Context, log *slog.Logger, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
