package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/bank-demo-ledger/internal/domain/account"
	"github.com/bank-demo-ledger/internal/domain/transaction"
)

// LedgerService is the application surface the HTTP handlers talk to.
// Implemented by ledger.Service; mocked in handler tests.
type LedgerService interface {
	CreateAccount(ctx context.Context, kind account.Kind, openingBalance int64) (*account.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error)
	ListAccounts(ctx context.Context, kind *account.Kind) ([]*account.Account, error)
	UpdateAccount(ctx context.Context, id uuid.UUID, interestRate, overdraftLimit *int64) (*account.Account, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	AccountStats(ctx context.Context) (*account.BalanceStats, error)

	ApplyTransaction(ctx context.Context, accountID uuid.UUID, kind transaction.Kind, amount int64, description string) (*transaction.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	ListTransactions(ctx context.Context, filter transaction.Filter) ([]*transaction.Transaction, int64, error)
	TransactionStats(ctx context.Context) (*transaction.Stats, error)
}
