package audit

import (
	"encoding/json"
	"time"

	"github.com/kidsministry/backend/internal/pkg/logger"
)

type AuditEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	EventType   string    `json:"event_type"`
	ReferenceID string    `json:"reference_id,omitempty"`
	AccountKind string    `json:"account_kind,omitempty"`
	AccountID   int64     `json:"account_id,omitempty"`
	Amount      int64     `json:"amount"`
	Status      string    `json:"status"`
	Details     any       `json:"details,omitempty"`
}

// AuditLogger writes one AUDIT record per ledger mutation attempt.
type AuditLogger struct {
	log *logger.Logger
	now func() time.Time
}

func NewAuditLogger(log *logger.Logger) *AuditLogger {
	if log == nil {
		log = logger.NewNop()
	}
	return &AuditLogger{log: log.With("component", "audit"), now: time.Now}
}

func (a *AuditLogger) LogAdjust(kind string, accountID, amount, before, after int64, historyType, reason string) {
	a.write(AuditEvent{
		EventType:   "ADJUST",
		AccountKind: kind,
		AccountID:   accountID,
		Amount:      amount,
		Status:      "SUCCESS",
		Details: map[string]any{
			"type":           historyType,
			"reason":         reason,
			"before_balance": before,
			"after_balance":  after,
		},
	})
}

func (a *AuditLogger) LogTransfer(referenceID string, teacherID, studentID, amount int64, status string) {
	a.write(AuditEvent{
		EventType:   "TRANSFER",
		ReferenceID: referenceID,
		AccountKind: "teacher",
		AccountID:   teacherID,
		Amount:      amount,
		Status:      status,
		Details: map[string]int64{
			"from_teacher": teacherID,
			"to_student":   studentID,
		},
	})
}

func (a *AuditLogger) LogError(operation, kind string, accountID int64, err error) {
	a.write(AuditEvent{
		EventType:   "ERROR",
		AccountKind: kind,
		AccountID:   accountID,
		Status:      "FAILED",
		Details:     map[string]string{"operation": operation, "error": err.Error()},
	})
}

func (a *AuditLogger) LogOperation(operation, kind string, accountID int64, details string) {
	a.write(AuditEvent{
		EventType:   operation,
		AccountKind: kind,
		AccountID:   accountID,
		Status:      "SUCCESS",
		Details:     map[string]string{"details": details},
	})
}

func (a *AuditLogger) write(event AuditEvent) {
	event.Timestamp = a.now()
	data, err := json.Marshal(event)
	if err != nil {
		a.log.Error("audit marshal failed", "event", event.EventType, "error", err)
		return
	}
	a.log.Info("AUDIT", "event", json.RawMessage(data))
}
