package upload_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"

	"github.com/frahmantamala/ghost-payroll/internal"
	"github.com/frahmantamala/ghost-payroll/internal/anomaly"
	fileuploadDatamodel "github.com/frahmantamala/ghost-payroll/internal/core/datamodel/fileupload"
	"github.com/frahmantamala/ghost-payroll/internal/records"
	"github.com/frahmantamala/ghost-payroll/internal/transport"
	"github.com/frahmantamala/ghost-payroll/internal/upload"
	uploadPostgres "github.com/frahmantamala/ghost-payroll/internal/upload/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type memoryRecords struct {
	employees  []*records.Employee
	attendance []*records.AttendanceRecord
	salaries   []*records.SalaryPayment
	sessions   []*records.WifiSession
	rejectIDs  map[string]bool
}

func (m *memoryRecords) CreateEmployee(ctx context.Context, e *records.Employee) error {
	if m.rejectIDs[e.EmployeeID] {
		return errors.New("duplicate key")
	}
	m.employees = append(m.employees, e)
	return nil
}

func (m *memoryRecords) CreateAttendance(ctx context.Context, a *records.AttendanceRecord) error {
	m.attendance = append(m.attendance, a)
	return nil
}

func (m *memoryRecords) CreateSalaryPayment(ctx context.Context, p *records.SalaryPayment) error {
	m.salaries = append(m.salaries, p)
	return nil
}

func (m *memoryRecords) CreateWifiSession(ctx context.Context, w *records.WifiSession) error {
	m.sessions = append(m.sessions, w)
	return nil
}

type countingDetector struct {
	calls int
	err   error
}

func (d *countingDetector) RunAnomalyDetection(ctx context.Context, accountID string) (*anomaly.ScanReport, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return &anomaly.ScanReport{AccountID: accountID, AnomaliesEmitted: 3}, nil
}

func multipartBody(filename, contentType, content string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	Expect(err).NotTo(HaveOccurred())
	_, err = part.Write([]byte(content))
	Expect(err).NotTo(HaveOccurred())
	Expect(mw.Close()).To(Succeed())
	return body, mw.FormDataContentType()
}

var _ = Describe("Ingestion", func() {
	var (
		ctx      context.Context
		repo     *uploadPostgres.FileUploadRepository
		store    *memoryRecords
		detector *countingDetector
		service  *upload.Service
		slogger  *slog.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&fileuploadDatamodel.FileUpload{})).To(Succeed())

		repo = uploadPostgres.NewFileUploadRepository(db)
		store = &memoryRecords{rejectIDs: map[string]bool{}}
		detector = &countingDetector{}
		service = upload.NewService(repo, store, detector, nil, slogger)
	})

	Describe("Service.Ingest", func() {
		It("stores valid rows, skips bad ones and scans once", func() {
			csv := "employee_id,first_name,last_name,salary\nE1,Ana,Lima,5000\nE2,,Chen,4000\nE3,Cy,Dow,abc\nE4,Di,Eve,\n"
			result, err := service.Ingest(ctx, "acct-1", upload.IngestRequest{
				FileName: "staff.csv", FileType: upload.TypeEmployeeMaster, FileSize: int64(len(csv)), Body: strings.NewReader(csv),
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(store.employees).To(HaveLen(2))
			Expect(result.RowsRead).To(Equal(4))
			Expect(result.RowsSkipped).To(Equal(2))
			Expect(result.Upload.Status).To(Equal(upload.StatusCompleted))
			Expect(*result.Upload.RecordsCount).To(Equal(2))
			Expect(result.AnomaliesDetected).To(Equal(3))
			Expect(detector.calls).To(Equal(1))

			uploads, err := repo.ListByAccount(ctx, "acct-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(uploads).To(HaveLen(1))
			Expect(uploads[0].Status).To(Equal(upload.StatusCompleted))
			Expect(*uploads[0].RecordsCount).To(Equal(2))
			Expect(uploads[0].FileName).To(Equal("staff.csv"))
		})

		It("skips rows the store rejects", func() {
			store.rejectIDs["E1"] = true
			csv := "employee_id,first_name,last_name\nE1,Ana,Lima\nE2,Bo,Chen\n"
			result, err := service.Ingest(ctx, "acct-1", upload.IngestRequest{
				FileName: "staff.csv", FileType: upload.TypeEmployeeMaster, Body: strings.NewReader(csv),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RowsSkipped).To(Equal(1))
			Expect(store.employees).To(HaveLen(1))
		})

		It("routes each file type to its collection", func() {
			inputs := map[string]string{
				upload.TypeAttendance: "employee_id,date,status\nE1,2026-09-01,present\n",
				upload.TypeSalary:     "employee_id,payment_date,amount,pay_period_start,pay_period_end\nE1,2026-09-30,3000,2026-09-01,2026-09-30\n",
				upload.TypeWifi:       "employee_id,session_start\nE1,2026-09-01 08:55:00\n",
			}
			for fileType, csv := range inputs {
				_, err := service.Ingest(ctx, "acct-1", upload.IngestRequest{FileName: fileType + ".csv", FileType: fileType, Body: strings.NewReader(csv)})
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(store.attendance).To(HaveLen(1))
			Expect(store.salaries).To(HaveLen(1))
			Expect(store.sessions).To(HaveLen(1))
			Expect(detector.calls).To(Equal(3))
		})

		It("keeps the upload completed when the scan fails", func() {
			detector.err = errors.New("list attendance: connection refused")
			csv := "employee_id,date,status\nE1,2026-09-01,present\n"
			result, err := service.Ingest(ctx, "acct-1", upload.IngestRequest{FileName: "a.csv", FileType: upload.TypeAttendance, Body: strings.NewReader(csv)})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Upload.Status).To(Equal(upload.StatusCompleted))
			Expect(result.AnomaliesDetected).To(BeZero())
		})

		It("marks the upload failed when the CSV cannot be parsed", func() {
			result, err := service.Ingest(ctx, "acct-1", upload.IngestRequest{FileName: "empty.csv", FileType: upload.TypeWifi, Body: strings.NewReader("")})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Upload.Status).To(Equal(upload.StatusFailed))
			Expect(*result.Upload.ErrorMessage).To(ContainSubstring("header"))
			Expect(detector.calls).To(BeZero())

			uploads, err := repo.ListByAccount(ctx, "acct-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(uploads[0].Status).To(Equal(upload.StatusFailed))
		})

		It("rejects unknown file types", func() {
			_, err := service.Ingest(ctx, "acct-1", upload.IngestRequest{FileType: "payslips", Body: strings.NewReader("")})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidUploadType))
		})

		It("lists uploads per account", func() {
			for _, acct := range []string{"acct-1", "acct-2", "acct-1"} {
				_, err := service.Ingest(ctx, acct, upload.IngestRequest{FileName: "w.csv", FileType: upload.TypeWifi, Body: strings.NewReader("employee_id,session_start\n")})
				Expect(err).NotTo(HaveOccurred())
			}
			list, err := service.ListUploads(ctx, "acct-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
		})
	})

	Describe("Handler", func() {
		var router chi.Router

		BeforeEach(func() {
			handler := upload.NewHandler(&transport.BaseHandler{Logger: slogger}, service, 1024)
			withAccount := func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					next.ServeHTTP(w, r.WithContext(internal.ContextWithAccountID(r.Context(), "acct-1")))
				})
			}
			router = chi.NewRouter()
			router.With(withAccount).Post("/upload/{type}", handler.UploadFile)
			router.With(withAccount).Get("/file-uploads", handler.GetFileUploads)
		})

		post := func(path, filename, contentType, content string) *httptest.ResponseRecorder {
			body, formType := multipartBody(filename, contentType, content)
			req := httptest.NewRequest(http.MethodPost, path, body)
			req.Header.Set("Content-Type", formType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w
		}

		It("accepts a CSV upload", func() {
			w := post("/upload/attendance", "attendance.csv", "text/csv", "employee_id,date,status\nE1,2026-09-01,present\n")
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp upload.UploadResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Status).To(Equal(upload.StatusCompleted))
			Expect(resp.RecordsCount).To(Equal(1))
			Expect(resp.FileID).To(BeNumerically(">", 0))
		})

		It("accepts a csv extension with a generic content type", func() {
			w := post("/upload/wifi", "sessions.CSV", "application/octet-stream", "employee_id,session_start\n")
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("rejects non-CSV files", func() {
			w := post("/upload/attendance", "attendance.xlsx", "application/vnd.ms-excel", "binary")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("Only CSV files are allowed"))
		})

		It("rejects an unknown upload type", func() {
			w := post("/upload/payslips", "p.csv", "text/csv", "a\n")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring(string(internal.ErrCodeInvalidUploadType)))
		})

		It("rejects files over the size limit", func() {
			w := post("/upload/attendance", "big.csv", "text/csv", "employee_id\n"+strings.Repeat("E1\n", 600))
			Expect(w.Code).To(Equal(http.StatusRequestEntityTooLarge))
		})

		It("rejects a request without a file", func() {
			req := httptest.NewRequest(http.MethodPost, "/upload/attendance", strings.NewReader(""))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("reports a failed parse as unprocessable", func() {
			w := post("/upload/salary", "s.csv", "text/csv", "")
			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		})

		It("lists the account's uploads", func() {
			post("/upload/attendance", "attendance.csv", "text/csv", "employee_id,date,status\n")
			req := httptest.NewRequest(http.MethodGet, "/file-uploads", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var list []upload.FileUpload
			Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
			Expect(list).To(HaveLen(1))
			Expect(list[0].FileType).To(Equal(upload.TypeAttendance))
		})
	})
})
