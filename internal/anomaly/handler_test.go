package anomaly_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/ghost-payroll/internal"
	"github.com/frahmantamala/ghost-payroll/internal/anomaly"
	"github.com/frahmantamala/ghost-payroll/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubService struct {
	list       []*anomaly.AnomalyResponse
	listErr    error
	updated    *anomaly.Anomaly
	updateErr  error
	lastUpdate anomaly.UpdateStatusDTO
	lastID     int64
	report     string
	reportErr  error
	scan       *anomaly.ScanReport
	scanErr    error
}

func (s *stubService) ListAnomalies(ctx context.Context, accountID string) ([]*anomaly.AnomalyResponse, error) {
	return s.list, s.listErr
}

func (s *stubService) UpdateStatus(ctx context.Context, accountID string, anomalyID int64, dto anomaly.UpdateStatusDTO) (*anomaly.Anomaly, error) {
	s.lastID, s.lastUpdate = anomalyID, dto
	return s.updated, s.updateErr
}

func (s *stubService) ExportReport(ctx context.Context, accountID string, w io.Writer) error {
	if s.reportErr != nil {
		return s.reportErr
	}
	_, err := io.WriteString(w, s.report)
	return err
}

func (s *stubService) Scan(ctx context.Context, accountID string) (*anomaly.ScanReport, error) {
	return s.scan, s.scanErr
}

var _ = Describe("Handler", func() {
	var (
		svc    *stubService
		router chi.Router
	)

	withAccount := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(internal.ContextWithAccountID(r.Context(), "acct-1")))
		})
	}

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = &stubService{}
		handler := anomaly.NewHandler(&transport.BaseHandler{Logger: slogger}, svc)

		router = chi.NewRouter()
		router.With(withAccount).Get("/anomalies", handler.GetAnomalies)
		router.With(withAccount).Get("/anomalies/report", handler.DownloadReport)
		router.With(withAccount).Post("/anomalies/scan", handler.RunScan)
		router.With(withAccount).Patch("/anomalies/{id}/status", handler.UpdateAnomalyStatus)
		router.Get("/anonymous/anomalies", handler.GetAnomalies)
	})

	It("lists anomalies", func() {
		svc.list = []*anomaly.AnomalyResponse{{
			Anomaly:   &anomaly.Anomaly{ID: 7, EmployeeID: "E1", Type: anomaly.TypeWifiInconsistency, RiskScore: 95, Status: anomaly.StatusPending},
			RiskLevel: "high",
		}}

		w := serve(http.MethodGet, "/anomalies", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var body []map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body).To(HaveLen(1))
		Expect(body[0]).To(HaveKeyWithValue("id", BeNumerically("==", 7)))
		Expect(body[0]).To(HaveKeyWithValue("risk_level", "high"))
		Expect(body[0]).To(HaveKeyWithValue("employee", BeNil()))
	})

	It("rejects requests without an account", func() {
		w := serve(http.MethodGet, "/anonymous/anomalies", "")
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("updates the status of an anomaly", func() {
		svc.updated = &anomaly.Anomaly{ID: 7, Status: anomaly.StatusResolved}

		w := serve(http.MethodPatch, "/anomalies/7/status", `{"status":"resolved"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(svc.lastID).To(Equal(int64(7)))
		Expect(svc.lastUpdate.Status).To(Equal("resolved"))
	})

	It("rejects a non-numeric anomaly id", func() {
		w := serve(http.MethodPatch, "/anomalies/abc/status", `{"status":"resolved"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(string(internal.ErrCodeInvalidIdentifier)))
	})

	It("rejects a malformed body", func() {
		w := serve(http.MethodPatch, "/anomalies/7/status", `{"status":`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("maps a missing anomaly to 404", func() {
		svc.updateErr = internal.ErrAnomalyNotFound
		w := serve(http.MethodPatch, "/anomalies/99/status", `{"status":"reviewed"}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("downloads the report as CSV", func() {
		svc.report = "Employee ID\nE1\n"
		w := serve(http.MethodGet, "/anomalies/report", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(Equal("text/csv"))
		Expect(w.Header().Get("Content-Disposition")).To(HavePrefix("attachment;"))
		Expect(w.Body.String()).To(Equal("Employee ID\nE1\n"))
	})

	It("returns 500 when the report fails", func() {
		svc.reportErr = errors.New("boom")
		w := serve(http.MethodGet, "/anomalies/report", "")
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})

	It("runs a manual scan", func() {
		svc.scan = &anomaly.ScanReport{EmployeesScanned: 3, AnomaliesEmitted: 2}
		w := serve(http.MethodPost, "/anomalies/scan", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var body anomaly.ScanResponse
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.EmployeesScanned).To(Equal(3))
		Expect(body.AnomaliesEmitted).To(Equal(2))
	})
})
