package records_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/frahmantamala/ghost-payroll/internal"
	"github.com/frahmantamala/ghost-payroll/internal/records"
	"github.com/frahmantamala/ghost-payroll/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRecordsService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Records Suite")
}

// MockRepository keeps employees in memory; only the employee methods matter here.
type MockRepository struct {
	employees  []*records.Employee
	shouldFail bool
	failError  error
}

func (m *MockRepository) ListEmployees(ctx context.Context, accountID string) ([]*records.Employee, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*records.Employee
	for _, e := range m.employees {
		if e.AccountID == accountID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MockRepository) GetEmployee(ctx context.Context, accountID, employeeID string) (*records.Employee, error) {
	for _, e := range m.employees {
		if e.AccountID == accountID && e.EmployeeID == employeeID {
			return e, nil
		}
	}
	return nil, records.ErrEmployeeNotFound
}

func (m *MockRepository) ListAttendance(ctx context.Context, accountID string) ([]*records.AttendanceRecord, error) {
	return nil, nil
}

func (m *MockRepository) ListSalaryPayments(ctx context.Context, accountID string) ([]*records.SalaryPayment, error) {
	return nil, nil
}

func (m *MockRepository) ListWifiSessions(ctx context.Context, accountID string) ([]*records.WifiSession, error) {
	return nil, nil
}

func (m *MockRepository) CreateEmployee(ctx context.Context, e *records.Employee) error {
	m.employees = append(m.employees, e)
	return nil
}

func (m *MockRepository) CreateAttendance(ctx context.Context, a *records.AttendanceRecord) error {
	return nil
}

func (m *MockRepository) CreateSalaryPayment(ctx context.Context, p *records.SalaryPayment) error {
	return nil
}

func (m *MockRepository) CreateWifiSession(ctx context.Context, w *records.WifiSession) error {
	return nil
}

var _ = Describe("Records", func() {
	var (
		repo    *MockRepository
		service *records.Service
		slogger *slog.Logger
	)

	BeforeEach(func() {
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		salary := 5000.0
		repo = &MockRepository{
			employees: []*records.Employee{
				{ID: 1, AccountID: "acct-1", EmployeeID: "E1", FirstName: "Ana", LastName: "Lima", Salary: &salary, Status: records.EmployeeStatusActive},
				{ID: 2, AccountID: "acct-1", EmployeeID: "E2", FirstName: "Bo", LastName: "Chen", Status: records.EmployeeStatusActive},
				{ID: 3, AccountID: "acct-2", EmployeeID: "E1", FirstName: "Cy", LastName: "Dow", Status: records.EmployeeStatusActive},
			},
		}
		service = records.NewService(repo, slogger)
	})

	Describe("Employee", func() {
		It("computes annual salary", func() {
			Expect(repo.employees[0].AnnualSalary()).To(Equal(60000.0))
			Expect(repo.employees[1].AnnualSalary()).To(BeZero())
		})
	})

	Describe("Service", func() {
		It("lists only the account's employees", func() {
			list, err := service.ListEmployees(context.Background(), "acct-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
		})

		It("indexes employees by external id", func() {
			index, err := service.EmployeeIndex(context.Background(), "acct-2")
			Expect(err).NotTo(HaveOccurred())
			Expect(index).To(HaveKey("E1"))
			Expect(index["E1"].FirstName).To(Equal("Cy"))
		})

		It("returns repository errors", func() {
			repo.shouldFail = true
			repo.failError = errors.New("connection reset")

			_, err := service.ListEmployees(context.Background(), "acct-1")
			Expect(err).To(MatchError("connection reset"))
		})
	})

	Describe("Handler", func() {
		var handler *records.Handler

		BeforeEach(func() {
			handler = records.NewHandler(&transport.BaseHandler{Logger: slogger}, service)
		})

		It("returns the account's employees", func() {
			req := httptest.NewRequest(http.MethodGet, "/employees", nil)
			req = req.WithContext(internal.ContextWithAccountID(req.Context(), "acct-1"))
			w := httptest.NewRecorder()

			handler.GetEmployees(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var body []records.Employee
			Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
			Expect(body).To(HaveLen(2))
			Expect(body[0].EmployeeID).To(Equal("E1"))
		})

		It("returns an empty array for an account without employees", func() {
			req := httptest.NewRequest(http.MethodGet, "/employees", nil)
			req = req.WithContext(internal.ContextWithAccountID(req.Context(), "acct-9"))
			w := httptest.NewRecorder()

			handler.GetEmployees(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`[]`))
		})

		It("rejects requests without an account", func() {
			req := httptest.NewRequest(http.MethodGet, "/employees", nil)
			w := httptest.NewRecorder()

			handler.GetEmployees(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
