package anomaly

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/ghost-payroll/internal/core/events"
)

// EventHandler writes the audit trail of scan activity. It never feeds back
// into scan results.
type EventHandler struct {
	logger *slog.Logger
}

func NewEventHandler(logger *slog.Logger) *EventHandler {
	return &EventHandler{logger: logger}
}

func (h *EventHandler) HandleAnomalyDetected(ctx context.Context, event events.Event) error {
	detected, ok := event.(*events.AnomalyDetectedEvent)
	if !ok {
		h.logger.Error("invalid event type for anomaly detected handler", "event_type", event.EventType())
		return fmt.Errorf("expected AnomalyDetectedEvent, got %T", event)
	}

	level := slog.LevelInfo
	if detected.RiskScore >= HighRiskThreshold {
		level = slog.LevelWarn
	}
	h.logger.Log(ctx, level, "anomaly detected",
		"anomaly_id", detected.AnomalyID,
		"account_id", detected.AccountID,
		"employee_id", detected.EmployeeID,
		"anomaly_type", detected.AnomalyType,
		"risk_score", detected.RiskScore,
		"event_id", detected.EventID())
	return nil
}

func (h *EventHandler) HandleScanCompleted(ctx context.Context, event events.Event) error {
	completed, ok := event.(*events.ScanCompletedEvent)
	if !ok {
		h.logger.Error("invalid event type for scan completed handler", "event_type", event.EventType())
		return fmt.Errorf("expected ScanCompletedEvent, got %T", event)
	}

	level := slog.LevelInfo
	if completed.InsertFailures > 0 {
		level = slog.LevelWarn
	}
	h.logger.Log(ctx, level, "anomaly scan completed",
		"account_id", completed.AccountID,
		"employees_scanned", completed.EmployeesScanned,
		"anomalies_emitted", completed.AnomaliesEmitted,
		"insert_failures", completed.InsertFailures,
		"event_id", completed.EventID())
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeAnomalyDetected, h.HandleAnomalyDetected)
	eventBus.Subscribe(events.EventTypeScanCompleted, h.HandleScanCompleted)

	h.logger.Info("anomaly event handlers registered",
		"handlers", []string{events.EventTypeAnomalyDetected, events.EventTypeScanCompleted})
}
