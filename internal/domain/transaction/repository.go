package transaction

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows List results. A nil AccountID means all accounts.
type Filter struct {
	AccountID *uuid.UUID
	Limit     int
	Offset    int
}

// Stats aggregates the transaction log
type Stats struct {
	Count          int64 `json:"count"`
	SumDeposits    int64 `json:"sum_deposits"`    // Cents
	SumWithdrawals int64 `json:"sum_withdrawals"` // Cents
}

// Repository manages the append-only transaction log. The store gives no
// ordering guarantee; List must sort by descending timestamp explicitly.
type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	List(ctx context.Context, filter Filter) ([]*Transaction, error)
	Count(ctx context.Context, accountID *uuid.UUID) (int64, error)
	Stats(ctx context.Context) (*Stats, error)
}

// ErrTransactionNotFound indicates missing transaction record
type ErrTransactionNotFound struct {
	ID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	return t.ID == uuid.Nil || e.ID == t.ID
}
