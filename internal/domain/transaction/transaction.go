package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidAmount = errors.New("transaction amount must be positive")
	ErrInvalidKind   = errors.New("invalid transaction kind")
)

// Kind defines the possible transaction operations
type Kind string

const (
	KindDeposit    Kind = "DEPOSIT"
	KindWithdrawal Kind = "WITHDRAWAL"
)

// ParseKind validates a raw kind value
func ParseKind(raw string) (Kind, error) {
	switch Kind(raw) {
	case KindDeposit, KindWithdrawal:
		return Kind(raw), nil
	default:
		return "", ErrInvalidKind
	}
}

// Transaction is an immutable balance-changing event tied to one account.
// Records are append-only: created once, never mutated or deleted.
type Transaction struct {
	ID          uuid.UUID `json:"id" bson:"transaction_id"`
	AccountID   uuid.UUID `json:"account_id" bson:"account_id"`
	Kind        Kind      `json:"kind" bson:"kind"`
	Amount      int64     `json:"amount" bson:"amount"` // Cents, always positive
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
}

// New builds a transaction record for the given account. Validation of the
// amount and kind happens before the record is built so an invalid intent
// never produces a store write.
func New(accountID uuid.UUID, kind Kind, amount int64, description string) (*Transaction, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	return &Transaction{
		ID:          uuid.New(),
		AccountID:   accountID,
		Kind:        kind,
		Amount:      amount,
		Description: description,
		Timestamp:   time.Now(),
	}, nil
}

// SignedAmount returns the amount with the sign implied by the kind:
// positive for deposits, negative for withdrawals.
func (t *Transaction) SignedAmount() int64 {
	if t.Kind == KindWithdrawal {
		return -t.Amount
	}
	return t.Amount
}
