package account

import (
	"context"

	"github.com/google/uuid"
)

// BalanceStats aggregates balances across all accounts
type BalanceStats struct {
	Count   int64 `json:"count"`
	Sum     int64 `json:"sum"`     // Cents
	Average int64 `json:"average"` // Cents, zero when there are no accounts
}

// Repository defines account persistence operations
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	List(ctx context.Context) ([]*Account, error)
	ListByKind(ctx context.Context, kind Kind) ([]*Account, error)

	// Update persists metadata changes using optimistic locking. The balance
	// column is never written by Update; ApplyDelta is the only balance writer.
	Update(ctx context.Context, account *Account) error

	// ApplyDelta atomically adds delta (may be negative) to the account balance
	// in a single read-modify-write and returns the resulting account state.
	ApplyDelta(ctx context.Context, id uuid.UUID, delta int64) (*Account, error)

	Delete(ctx context.Context, id uuid.UUID) error
	BalanceStats(ctx context.Context) (*BalanceStats, error)
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountID.String()
}

// Is implements the errors.Is interface for ErrAccountNotFound
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	return t.AccountID == uuid.Nil || e.AccountID == t.AccountID
}

// ErrConcurrentModification indicates optimistic lock failure
type ErrConcurrentModification struct {
	AccountID uuid.UUID
}

func (e ErrConcurrentModification) Error() string {
	return "concurrent modification detected for account: " + e.AccountID.String()
}
