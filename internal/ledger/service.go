// Package ledger implements the ledger consistency service: the single
// authority for turning a transaction intent into a durable, balance-consistent
// state change. Every transaction is reflected exactly once in its account's
// balance; stores and event delivery are collaborators behind interfaces.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bank-demo-ledger/internal/domain/account"
	"github.com/bank-demo-ledger/internal/domain/outbox"
	"github.com/bank-demo-ledger/internal/domain/transaction"
)

// Notifier delivers applied events to interested consumers. Delivery is best
// effort: a notifier failure never fails the ledger operation.
type Notifier interface {
	TransactionApplied(ctx context.Context, event *outbox.AppliedEvent) error
}

// ErrInconsistent reports a balance delta that landed without a matching
// transaction record: the record write failed and so did the compensating
// reverse delta. This requires operator attention.
type ErrInconsistent struct {
	AccountID     uuid.UUID
	TransactionID uuid.UUID
}

func (e ErrInconsistent) Error() string {
	return fmt.Sprintf("ledger inconsistent: balance delta applied to account %s without transaction record %s",
		e.AccountID.String(), e.TransactionID.String())
}

// Service enforces the account-transaction consistency protocol
type Service struct {
	accounts     account.Repository
	transactions transaction.Repository
	notifier     Notifier
	logger       *slog.Logger
}

// NewService creates a new ledger consistency service
func NewService(logger *slog.Logger, accounts account.Repository, transactions transaction.Repository, notifier Notifier) *Service {
	return &Service{
		accounts:     accounts,
		transactions: transactions,
		notifier:     notifier,
		logger:       logger,
	}
}

// ApplyTransaction validates a transaction intent, applies the signed amount
// to the account balance and records the transaction. The balance write goes
// first, through the store's atomic delta primitive, so a partial failure can
// never leave a transaction record without a matching balance effect. If the
// record write fails the delta is compensated with its reverse.
//
// Withdrawals may drive the balance negative; no overdraft limit is enforced.
func (s *Service) ApplyTransaction(ctx context.Context, accountID uuid.UUID, kind transaction.Kind, amount int64, description string) (*transaction.Transaction, error) {
	// Precondition checks happen before any store call: an invalid intent
	// never creates a record and never mutates an account.
	tx, err := transaction.New(accountID, kind, amount, description)
	if err != nil {
		return nil, err
	}

	delta := tx.SignedAmount()

	updated, err := s.accounts.ApplyDelta(ctx, accountID, delta)
	if err != nil {
		return nil, err
	}

	if err := s.transactions.Create(ctx, tx); err != nil {
		s.logger.Error("Transaction record write failed after balance update, compensating",
			"transaction_id", tx.ID.String(),
			"account_id", accountID.String(),
			"delta", delta,
			"error", err,
		)

		if _, compErr := s.accounts.ApplyDelta(ctx, accountID, -delta); compErr != nil {
			s.logger.Error("Compensating delta failed, ledger is inconsistent",
				"transaction_id", tx.ID.String(),
				"account_id", accountID.String(),
				"error", compErr,
			)
			return nil, fmt.Errorf("%w: %v", ErrInconsistent{AccountID: accountID, TransactionID: tx.ID}, compErr)
		}

		return nil, fmt.Errorf("failed to record transaction %s: %w", tx.ID.String(), err)
	}

	s.notify(ctx, updated, tx)

	s.logger.Info("Transaction applied",
		"transaction_id", tx.ID.String(),
		"account_id", accountID.String(),
		"kind", string(kind),
		"amount", amount,
		"new_balance", updated.Balance,
	)

	return tx, nil
}

// notify emits the applied event. Failures are logged, never propagated:
// consumers resynchronize by re-reading the stores.
func (s *Service) notify(ctx context.Context, acc *account.Account, tx *transaction.Transaction) {
	event := &outbox.AppliedEvent{
		Transaction: *tx,
		AccountKind: acc.Kind,
		NewBalance:  acc.Balance,
		AppliedAt:   time.Now(),
	}

	if err := s.notifier.TransactionApplied(ctx, event); err != nil {
		s.logger.Error("Failed to emit applied event",
			"transaction_id", tx.ID.String(),
			"account_id", tx.AccountID.String(),
			"error", err,
		)
	}
}

// CreateAccount instantiates and persists a new account with a caller-supplied
// opening balance and kind. The transaction store is never touched.
func (s *Service) CreateAccount(ctx context.Context, kind account.Kind, openingBalance int64) (*account.Account, error) {
	acc, err := account.New(kind, openingBalance)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Create(ctx, acc); err != nil {
		return nil, err
	}

	s.logger.Info("Account created",
		"account_id", acc.ID.String(),
		"kind", string(acc.Kind),
		"opening_balance", acc.Balance,
	)

	return acc, nil
}

// GetAccount retrieves an account by its ID.
// Returns ErrAccountNotFound if the account doesn't exist
func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// ListAccounts returns all accounts, optionally narrowed to one kind
func (s *Service) ListAccounts(ctx context.Context, kind *account.Kind) ([]*account.Account, error) {
	if kind != nil {
		return s.accounts.ListByKind(ctx, *kind)
	}
	return s.accounts.List(ctx)
}

// UpdateAccount changes account metadata (interest rate, overdraft limit)
// under an optimistic version check. The balance is never writable this way;
// ApplyTransaction is the only balance writer.
func (s *Service) UpdateAccount(ctx context.Context, id uuid.UUID, interestRate, overdraftLimit *int64) (*account.Account, error) {
	acc, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if interestRate != nil {
		acc.InterestRate = *interestRate
	}
	if overdraftLimit != nil {
		acc.OverdraftLimit = *overdraftLimit
	}
	acc.Version++
	acc.UpdatedAt = time.Now()

	if err := s.accounts.Update(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// DeleteAccount removes an account. Its transaction records are kept: the
// log is append-only and past entries stay valid history.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Account deleted", "account_id", id.String())
	return nil
}

// ListTransactions projects the transaction history for display. Each call
// re-reads the store; results are ordered by descending timestamp (the store
// itself guarantees no order).
func (s *Service) ListTransactions(ctx context.Context, filter transaction.Filter) ([]*transaction.Transaction, int64, error) {
	txs, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.transactions.Count(ctx, filter.AccountID)
	if err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

// GetTransaction retrieves a single transaction record.
// Returns ErrTransactionNotFound if no record exists
func (s *Service) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	return s.transactions.GetByID(ctx, id)
}

// AccountStats aggregates balances across all accounts
func (s *Service) AccountStats(ctx context.Context) (*account.BalanceStats, error) {
	return s.accounts.BalanceStats(ctx)
}

// TransactionStats aggregates the transaction log
func (s *Service) TransactionStats(ctx context.Context) (*transaction.Stats, error) {
	return s.transactions.Stats(ctx)
}
