// Package postgres provides PostgreSQL implementations of the domain
// repositories. Balance mutation goes through a single-statement delta
// update so concurrent writers can never lose an update.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bank-demo-ledger/internal/domain/account"
	"github.com/bank-demo-ledger/internal/platform/persistence"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

const accountColumns = "id, balance, kind, interest_rate, overdraft_limit, version, created_at, updated_at"

func scanAccount(row pgx.Row) (*account.Account, error) {
	var acc account.Account
	err := row.Scan(
		&acc.ID,
		&acc.Balance,
		&acc.Kind,
		&acc.InterestRate,
		&acc.OverdraftLimit,
		&acc.Version,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// Create stores a new account in the database
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (id, balance, kind, interest_rate, overdraft_limit, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.ID,
		acc.Balance,
		acc.Kind,
		acc.InterestRate,
		acc.OverdraftLimit,
		acc.Version,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create account", "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `
		SELECT id, balance, kind, interest_rate, overdraft_limit, version, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	acc, err := scanAccount(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to get account", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return acc, nil
}

// List retrieves all accounts ordered by creation time
func (r *AccountRepository) List(ctx context.Context) ([]*account.Account, error) {
	query := `
		SELECT id, balance, kind, interest_rate, overdraft_limit, version, created_at, updated_at
		FROM accounts
		ORDER BY created_at ASC
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

// ListByKind retrieves all accounts of the given kind ordered by creation time
func (r *AccountRepository) ListByKind(ctx context.Context, kind account.Kind) ([]*account.Account, error) {
	query := `
		SELECT id, balance, kind, interest_rate, overdraft_limit, version, created_at, updated_at
		FROM accounts
		WHERE kind = $1
		ORDER BY created_at ASC
	`

	rows, err := r.querier.Query(ctx, query, kind)
	if err != nil {
		r.logger.Error("Failed to list accounts by kind", "kind", string(kind), "error", err)
		return nil, fmt.Errorf("failed to list accounts by kind: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func collectAccounts(rows pgx.Rows) ([]*account.Account, error) {
	var accounts []*account.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}

	return accounts, nil
}

// Update persists metadata changes using optimistic locking. The balance
// column is deliberately left out: ApplyDelta is the only balance writer.
func (r *AccountRepository) Update(ctx context.Context, acc *account.Account) error {
	query := `
		UPDATE accounts
		SET interest_rate = $1, overdraft_limit = $2, version = $3, updated_at = $4
		WHERE id = $5 AND version = $6
	`

	result, err := r.querier.Exec(ctx, query,
		acc.InterestRate,
		acc.OverdraftLimit,
		acc.Version,
		acc.UpdatedAt,
		acc.ID,
		acc.Version-1, // Check previous version for optimistic locking
	)
	if err != nil {
		r.logger.Error("Failed to update account", "id", acc.ID.String(), "error", err)
		return fmt.Errorf("failed to update account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrConcurrentModification{AccountID: acc.ID}
	}

	return nil
}

// ApplyDelta atomically adds delta to the account balance in one statement
// and returns the resulting state. The read-modify-write happens inside the
// database, so two rapid transactions against the same account can never
// both work from a stale balance.
func (r *AccountRepository) ApplyDelta(ctx context.Context, id uuid.UUID, delta int64) (*account.Account, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $1, version = version + 1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, balance, kind, interest_rate, overdraft_limit, version, created_at, updated_at
	`

	acc, err := scanAccount(r.querier.QueryRow(ctx, query, delta, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to apply balance delta", "id", id.String(), "delta", delta, "error", err)
		return nil, fmt.Errorf("failed to apply balance delta: %w", err)
	}

	return acc, nil
}

// Delete removes an account.
// Returns ErrAccountNotFound if no row was deleted
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM accounts
		WHERE id = $1
	`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete account", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{AccountID: id}
	}

	return nil
}

// BalanceStats aggregates balances across all accounts
func (r *AccountRepository) BalanceStats(ctx context.Context) (*account.BalanceStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(balance), 0), COALESCE(AVG(balance), 0)::BIGINT
		FROM accounts
	`

	var stats account.BalanceStats
	err := r.querier.QueryRow(ctx, query).Scan(&stats.Count, &stats.Sum, &stats.Average)
	if err != nil {
		r.logger.Error("Failed to compute balance stats", "error", err)
		return nil, fmt.Errorf("failed to compute balance stats: %w", err)
	}

	return &stats, nil
}
