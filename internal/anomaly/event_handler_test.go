package anomaly_test

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/frahmantamala/ghost-payroll/internal/anomaly"
	"github.com/frahmantamala/ghost-payroll/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventHandler", func() {
	var (
		buf     *bytes.Buffer
		handler *anomaly.EventHandler
		bus     *events.EventBus
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
		handler = anomaly.NewEventHandler(logger)
		bus = events.NewEventBus(logger)
		handler.RegisterEventHandlers(bus)
	})

	It("logs high-risk anomalies as warnings", func() {
		event := events.NewAnomalyDetectedEvent(7, "acct-1", "E1", anomaly.TypeWifiInconsistency, anomaly.RiskScoreWifiInconsistency)
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		Expect(buf.String()).To(ContainSubstring("level=WARN"))
		Expect(buf.String()).To(ContainSubstring("employee_id=E1"))
	})

	It("logs medium-risk anomalies at info", func() {
		event := events.NewAnomalyDetectedEvent(8, "acct-1", "E2", anomaly.TypePayrollIrregularity, anomaly.RiskScorePayrollIrregularity)
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		Expect(buf.String()).To(ContainSubstring(`level=INFO msg="anomaly detected"`))
	})

	It("flags scans that lost inserts", func() {
		Expect(bus.PublishSync(context.Background(), events.NewScanCompletedEvent("acct-1", 3, 1, 2))).To(Succeed())

		Expect(buf.String()).To(ContainSubstring(`level=WARN msg="anomaly scan completed"`))
		Expect(buf.String()).To(ContainSubstring("insert_failures=2"))
	})

	It("rejects events of the wrong shape", func() {
		wrong := events.BaseEvent{Type: events.EventTypeAnomalyDetected}
		Expect(handler.HandleAnomalyDetected(context.Background(), wrong)).NotTo(Succeed())
	})
})
