package audit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/shopspring/decimal"
)

type Event struct {
	Timestamp  time.Time       `json:"timestamp"`
	EventType  string          `json:"event_type"`
	TransferID string          `json:"transfer_id,omitempty"`
	AccountID  string          `json:"account_id,omitempty"`
	Reference  string          `json:"reference,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	Details    any             `json:"details,omitempty"`
}

// Logger writes one JSON line per money movement.
type Logger struct {
	std *log.Logger
}

func NewLogger() *Logger {
	return &Logger{std: log.Default()}
}

// NewLoggerWith is used by tests to capture audit output.
func NewLoggerWith(std *log.Logger) *Logger {
	return &Logger{std: std}
}

func (a *Logger) LogHold(transferID, payerAccount, payeeAccount, reference string, amount decimal.Decimal) {
	a.log(Event{
		Timestamp:  time.Now(),
		EventType:  "HOLD",
		TransferID: transferID,
		AccountID:  payerAccount,
		Reference:  reference,
		Amount:     amount,
		Status:     "SUCCESS",
		Details:    map[string]string{"payee_account": payeeAccount},
	})
}

func (a *Logger) LogSettle(transferID, payeeAccount string, amount decimal.Decimal) {
	a.log(Event{
		Timestamp:  time.Now(),
		EventType:  "SETTLE",
		TransferID: transferID,
		AccountID:  payeeAccount,
		Amount:     amount,
		Status:     "SUCCESS",
	})
}

func (a *Logger) LogRelease(transferID, payerAccount string, amount decimal.Decimal) {
	a.log(Event{
		Timestamp:  time.Now(),
		EventType:  "RELEASE",
		TransferID: transferID,
		AccountID:  payerAccount,
		Amount:     amount,
		Status:     "SUCCESS",
	})
}

func (a *Logger) LogOperation(accountID, operation string, amount decimal.Decimal, details string) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: operation,
		AccountID: accountID,
		Amount:    amount,
		Status:    "SUCCESS",
		Details:   map[string]string{"details": details},
	})
}

func (a *Logger) LogError(operation, reference string, err error) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: operation,
		Reference: reference,
		Status:    "FAILED",
		Details:   map[string]string{"error": err.Error()},
	})
}

func (a *Logger) log(event Event) {
	if a == nil {
		return
	}
	data, _ := json.Marshal(event)
	a.std.Printf("AUDIT: %s", string(data))
}
