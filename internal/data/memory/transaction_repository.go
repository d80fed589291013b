package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/bank-demo-ledger/internal/domain/transaction"
)

// TransactionRepository is a mutex-guarded in-memory transaction log
type TransactionRepository struct {
	mu  sync.Mutex
	log []*transaction.Transaction
}

// NewTransactionRepository creates an empty in-memory transaction repository
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

func cloneTransaction(tx *transaction.Transaction) *transaction.Transaction {
	copied := *tx
	return &copied
}

// Create appends a new transaction record
func (r *TransactionRepository) Create(_ context.Context, tx *transaction.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log = append(r.log, cloneTransaction(tx))
	return nil
}

// GetByID retrieves a transaction record by its ID
func (r *TransactionRepository) GetByID(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tx := range r.log {
		if tx.ID == id {
			return cloneTransaction(tx), nil
		}
	}
	return nil, transaction.ErrTransactionNotFound{ID: id}
}

// List retrieves matching records sorted by timestamp in descending order.
// The backing slice holds insertion order, which carries no guarantee, so
// the sort is always applied.
func (r *TransactionRepository) List(_ context.Context, f transaction.Filter) ([]*transaction.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var txs []*transaction.Transaction
	for _, tx := range r.log {
		if f.AccountID != nil && tx.AccountID != *f.AccountID {
			continue
		}
		txs = append(txs, cloneTransaction(tx))
	}

	sort.Slice(txs, func(i, j int) bool {
		return txs[i].Timestamp.After(txs[j].Timestamp)
	})

	if f.Offset > 0 {
		if f.Offset >= len(txs) {
			return nil, nil
		}
		txs = txs[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(txs) {
		txs = txs[:f.Limit]
	}

	return txs, nil
}

// Count counts transaction records, optionally for a single account
func (r *TransactionRepository) Count(_ context.Context, accountID *uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if accountID == nil {
		return int64(len(r.log)), nil
	}

	var count int64
	for _, tx := range r.log {
		if tx.AccountID == *accountID {
			count++
		}
	}
	return count, nil
}

// Stats aggregates the whole log
func (r *TransactionRepository) Stats(_ context.Context) (*transaction.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &transaction.Stats{}
	for _, tx := range r.log {
		stats.Count++
		switch tx.Kind {
		case transaction.KindDeposit:
			stats.SumDeposits += tx.Amount
		case transaction.KindWithdrawal:
			stats.SumWithdrawals += tx.Amount
		}
	}
	return stats, nil
}

// Compile-time check
var _ transaction.Repository = (*TransactionRepository)(nil)
