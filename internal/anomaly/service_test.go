package anomaly_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"log/slog"
	"os"

	"github.com/frahmantamala/ghost-payroll/internal"
	"github.com/frahmantamala/ghost-payroll/internal/anomaly"
	anomalyPostgres "github.com/frahmantamala/ghost-payroll/internal/anomaly/postgres"
	anomalyDatamodel "github.com/frahmantamala/ghost-payroll/internal/core/datamodel/anomaly"
	"github.com/frahmantamala/ghost-payroll/internal/records"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeEmployees struct {
	index map[string]*records.Employee
	err   error
}

func (f *fakeEmployees) EmployeeIndex(ctx context.Context, accountID string) (map[string]*records.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.index, nil
}

type fakeDetector struct {
	report *anomaly.ScanReport
	err    error
	calls  []string
}

func (f *fakeDetector) RunAnomalyDetection(ctx context.Context, accountID string) (*anomaly.ScanReport, error) {
	f.calls = append(f.calls, accountID)
	return f.report, f.err
}

func openAnomalyDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	Expect(err).NotTo(HaveOccurred())
	Expect(db.AutoMigrate(&anomalyDatamodel.Anomaly{})).To(Succeed())
	return db
}

var _ = Describe("Service", func() {
	var (
		ctx       context.Context
		repo      *anomalyPostgres.AnomalyRepository
		employees *fakeEmployees
		detector  *fakeDetector
		service   *anomaly.Service
		first     *anomaly.Anomaly
	)

	BeforeEach(func() {
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = anomalyPostgres.NewAnomalyRepository(openAnomalyDB())

		dept := "Finance"
		employees = &fakeEmployees{index: map[string]*records.Employee{
			"E1": {EmployeeID: "E1", FirstName: "Ana", LastName: "Lima", Department: &dept},
		}}
		detector = &fakeDetector{}
		service = anomaly.NewService(repo, employees, detector, slogger)

		var err error
		first, err = repo.InsertAnomaly(ctx, &anomaly.Anomaly{
			AccountID: "acct-1", EmployeeID: "E1", Type: anomaly.TypeWifiInconsistency,
			RiskScore: 95, Description: "Employee marked present for 3 days but no Wi-Fi connection recorded",
			Details: map[string]int{"attendanceDays": 3, "wifiSessions": 0},
		})
		Expect(err).NotTo(HaveOccurred())
		_, err = repo.InsertAnomaly(ctx, &anomaly.Anomaly{
			AccountID: "acct-1", EmployeeID: "E404", Type: anomaly.TypePayrollIrregularity,
			RiskScore: 78, Description: "Salary payments continue with no attendance for 45 days",
			Details: map[string]int{"salaryPayments": 1, "attendanceDays": 0},
		})
		Expect(err).NotTo(HaveOccurred())
		_, err = repo.InsertAnomaly(ctx, &anomaly.Anomaly{
			AccountID: "acct-2", EmployeeID: "E1", Type: anomaly.TypeWifiInconsistency, RiskScore: 95, Description: "other account",
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("ListAnomalies", func() {
		It("joins each anomaly with its employee", func() {
			list, err := service.ListAnomalies(ctx, "acct-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))

			byEmployee := map[string]*anomaly.AnomalyResponse{}
			for _, item := range list {
				byEmployee[item.EmployeeID] = item
			}
			Expect(byEmployee["E1"].Employee).NotTo(BeNil())
			Expect(byEmployee["E1"].Employee.FullName()).To(Equal("Ana Lima"))
			Expect(byEmployee["E1"].RiskLevel).To(Equal("high"))
			Expect(byEmployee["E404"].Employee).To(BeNil())
			Expect(byEmployee["E404"].RiskLevel).To(Equal("medium"))
		})

		It("fails when employees cannot be loaded", func() {
			employees.err = errors.New("db down")
			_, err := service.ListAnomalies(ctx, "acct-1")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateStatus", func() {
		DescribeTable("accepts every review state",
			func(status string) {
				updated, err := service.UpdateStatus(ctx, "acct-1", first.ID, anomaly.UpdateStatusDTO{Status: status})
				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Status).To(Equal(status))
				Expect(updated.Details).To(HaveKeyWithValue("attendanceDays", 3))
			},
			Entry("reviewed", anomaly.StatusReviewed),
			Entry("resolved", anomaly.StatusResolved),
			Entry("false positive", anomaly.StatusFalsePositive),
			Entry("pending", anomaly.StatusPending),
		)

		It("rejects an unknown status", func() {
			_, err := service.UpdateStatus(ctx, "acct-1", first.ID, anomaly.UpdateStatusDTO{Status: "ignored"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))

			unchanged, err := repo.GetByID(ctx, "acct-1", first.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(unchanged.Status).To(Equal(anomaly.StatusPending))
		})

		It("rejects a missing status", func() {
			_, err := service.UpdateStatus(ctx, "acct-1", first.ID, anomaly.UpdateStatusDTO{})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("does not reach anomalies of another account", func() {
			_, err := service.UpdateStatus(ctx, "acct-2", first.ID, anomaly.UpdateStatusDTO{Status: anomaly.StatusResolved})
			Expect(err).To(Equal(internal.ErrAnomalyNotFound))
		})
	})

	Describe("ExportReport", func() {
		It("writes a CSV row per anomaly", func() {
			var buf bytes.Buffer
			Expect(service.ExportReport(ctx, "acct-1", &buf)).To(Succeed())

			rows, err := csv.NewReader(&buf).ReadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(3))
			Expect(rows[0][0]).To(Equal("Employee ID"))

			var ana []string
			for _, row := range rows[1:] {
				if row[0] == "E1" {
					ana = row
				}
			}
			Expect(ana).NotTo(BeNil())
			Expect(ana[1]).To(Equal("Ana Lima"))
			Expect(ana[2]).To(Equal("Finance"))
			Expect(ana[3]).To(Equal(anomaly.TypeWifiInconsistency))
			Expect(ana[4]).To(Equal("95"))
		})
	})

	Describe("Scan", func() {
		It("runs the detector for the account", func() {
			detector.report = &anomaly.ScanReport{AccountID: "acct-1", EmployeesScanned: 4}
			report, err := service.Scan(ctx, "acct-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(report.EmployeesScanned).To(Equal(4))
			Expect(detector.calls).To(Equal([]string{"acct-1"}))
		})

		It("wraps detector failures", func() {
			detector.err = errors.New("read failed")
			_, err := service.Scan(ctx, "acct-1")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeScanFailed))
			Expect(appErr.StatusCode).To(Equal(500))
		})
	})
})
