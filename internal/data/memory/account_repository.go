// Package memory provides in-memory implementations of the domain
// repositories. They back the standalone demo mode and tests; the ledger
// service cannot tell them apart from the database-backed adapters.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bank-demo-ledger/internal/domain/account"
)

// AccountRepository is a mutex-guarded in-memory account store
type AccountRepository struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*account.Account
}

// NewAccountRepository creates an empty in-memory account repository
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[uuid.UUID]*account.Account),
	}
}

// clone returns a copy so callers can't mutate internal state
func cloneAccount(acc *account.Account) *account.Account {
	copied := *acc
	return &copied
}

// Create stores a new account
func (r *AccountRepository) Create(_ context.Context, acc *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.accounts[acc.ID] = cloneAccount(acc)
	return nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound{AccountID: id}
	}
	return cloneAccount(acc), nil
}

// List returns all accounts ordered by creation time
func (r *AccountRepository) List(_ context.Context) ([]*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collect(func(*account.Account) bool { return true }), nil
}

// ListByKind returns all accounts of the given kind ordered by creation time
func (r *AccountRepository) ListByKind(_ context.Context, kind account.Kind) ([]*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collect(func(acc *account.Account) bool { return acc.Kind == kind }), nil
}

func (r *AccountRepository) collect(keep func(*account.Account) bool) []*account.Account {
	var accounts []*account.Account
	for _, acc := range r.accounts {
		if keep(acc) {
			accounts = append(accounts, cloneAccount(acc))
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts
}

// Update persists metadata changes using optimistic locking.
// The balance field is never written by Update
func (r *AccountRepository) Update(_ context.Context, acc *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.accounts[acc.ID]
	if !ok {
		return account.ErrAccountNotFound{AccountID: acc.ID}
	}
	if existing.Version != acc.Version-1 {
		return account.ErrConcurrentModification{AccountID: acc.ID}
	}

	existing.InterestRate = acc.InterestRate
	existing.OverdraftLimit = acc.OverdraftLimit
	existing.Version = acc.Version
	existing.UpdatedAt = acc.UpdatedAt
	return nil
}

// ApplyDelta atomically adds delta to the account balance under the store
// lock and returns the resulting state
func (r *AccountRepository) ApplyDelta(_ context.Context, id uuid.UUID, delta int64) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound{AccountID: id}
	}

	acc.Balance += delta
	acc.Version++
	acc.UpdatedAt = time.Now()
	return cloneAccount(acc), nil
}

// Delete removes an account.
// Returns ErrAccountNotFound if the account doesn't exist
func (r *AccountRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return account.ErrAccountNotFound{AccountID: id}
	}
	delete(r.accounts, id)
	return nil
}

// BalanceStats aggregates balances across all accounts
func (r *AccountRepository) BalanceStats(_ context.Context) (*account.BalanceStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &account.BalanceStats{}
	for _, acc := range r.accounts {
		stats.Count++
		stats.Sum += acc.Balance
	}
	if stats.Count > 0 {
		stats.Average = stats.Sum / stats.Count
	}
	return stats, nil
}

// Compile-time check
var _ account.Repository = (*AccountRepository)(nil)
