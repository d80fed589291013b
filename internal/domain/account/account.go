package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidKind   = errors.New("invalid account kind")
)

// Kind defines the possible account kinds
type Kind string

const (
	KindCurrent Kind = "CURRENT"
	KindSavings Kind = "SAVINGS"
)

// ParseKind validates a raw kind value
func ParseKind(raw string) (Kind, error) {
	switch Kind(raw) {
	case KindCurrent, KindSavings:
		return Kind(raw), nil
	default:
		return "", ErrInvalidKind
	}
}

// Account represents a bank account
type Account struct {
	ID      uuid.UUID `json:"id"`
	Balance int64     `json:"balance"` // Stored in cents/minor units
	Kind    Kind      `json:"kind"`
	// InterestRate applies to savings accounts, in basis points (250 = 2.50%)
	InterestRate int64 `json:"interest_rate,omitempty"`
	// OverdraftLimit applies to current accounts, in cents. Informational only:
	// withdrawals are never blocked and balances may go negative
	OverdraftLimit int64     `json:"overdraft_limit,omitempty"`
	Version        int       `json:"version"` // For optimistic locking
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// New creates a new account with the given kind and opening balance
func New(kind Kind, openingBalance int64) (*Account, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if openingBalance < 0 {
		return nil, ErrInvalidAmount
	}

	now := time.Now()
	acc := &Account{
		ID:        uuid.New(),
		Balance:   openingBalance,
		Kind:      kind,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Defaults carried over from the account opening form
	switch kind {
	case KindSavings:
		acc.InterestRate = 250
	case KindCurrent:
		acc.OverdraftLimit = 50000
	}

	return acc, nil
}

// Overdrawn reports whether the balance has gone negative
func (a *Account) Overdrawn() bool {
	return a.Balance < 0
}
