package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/bank-demo-ledger/internal/domain/account"
	"github.com/bank-demo-ledger/internal/domain/transaction"
)

// Status defines message publishing states
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusProcessed       Status = "PROCESSED"
	StatusFailedToPublish Status = "FAILED_TO_PUBLISH"
)

// AppliedEvent is the payload recorded for every committed ledger operation.
// Consumers use it to refresh account views without re-reading both stores.
type AppliedEvent struct {
	Transaction transaction.Transaction `json:"transaction"`
	AccountKind account.Kind            `json:"account_kind"`
	NewBalance  int64                   `json:"new_balance"` // Cents, after the delta landed
	AppliedAt   time.Time               `json:"applied_at"`
}

// Message stores an applied event for reliable publishing. Rows stay pending
// until the publisher delivers them or retries are exhausted.
type Message struct {
	ID            int64           `json:"id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	Payload       json.RawMessage `json:"payload"`
	Status        Status          `json:"status"`
	Attempts      int             `json:"attempts"`
	CreatedAt     time.Time       `json:"created_at"`
	LastAttemptAt *time.Time      `json:"last_attempt_at,omitempty"`
}

// NewMessage wraps an applied event into a pending outbox message
func NewMessage(event *AppliedEvent) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &Message{
		TransactionID: event.Transaction.ID,
		AccountID:     event.Transaction.AccountID,
		Payload:       payload,
		Status:        StatusPending,
		Attempts:      0,
		CreatedAt:     time.Now(),
	}, nil
}

// Event extracts the applied event from the payload
func (m *Message) Event() (*AppliedEvent, error) {
	var event AppliedEvent
	if err := json.Unmarshal(m.Payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
