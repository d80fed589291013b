package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bank-demo-ledger/internal/domain/account"
)

func newAccount(t *testing.T, kind account.Kind, balance int64) *account.Account {
	t.Helper()
	acc, err := account.New(kind, balance)
	require.NoError(t, err)
	return acc
}

func TestAccountRepository_CreateAndGetByID(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	acc := newAccount(t, account.KindCurrent, 100000)
	require.NoError(t, repo.Create(ctx, acc))

	got, err := repo.GetByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)
	assert.Equal(t, int64(100000), got.Balance)
	assert.Equal(t, account.KindCurrent, got.Kind)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestAccountRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	id := uuid.New()
	got, err := repo.GetByID(ctx, id)

	assert.Nil(t, got)
	var notFound account.ErrAccountNotFound
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, id, notFound.AccountID)
}

func TestAccountRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	first := newAccount(t, account.KindCurrent, 100)
	second := newAccount(t, account.KindSavings, 200)
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	// Ordered by creation time regardless of insertion order
	assert.Equal(t, first.ID, accounts[0].ID)
	assert.Equal(t, second.ID, accounts[1].ID)

	// Read-only calls are idempotent
	again, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, accounts, again)
}

func TestAccountRepository_ListByKind(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	current := newAccount(t, account.KindCurrent, 100)
	savings := newAccount(t, account.KindSavings, 200)
	require.NoError(t, repo.Create(ctx, current))
	require.NoError(t, repo.Create(ctx, savings))

	accounts, err := repo.ListByKind(ctx, account.KindSavings)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, savings.ID, accounts[0].ID)
}

func TestAccountRepository_ApplyDelta(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	acc := newAccount(t, account.KindCurrent, 5000) // 50.00
	require.NoError(t, repo.Create(ctx, acc))

	updated, err := repo.ApplyDelta(ctx, acc.ID, 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), updated.Balance)
	assert.Equal(t, acc.Version+1, updated.Version)

	// Negative deltas may drive the balance below zero
	updated, err = repo.ApplyDelta(ctx, acc.ID, -20000)
	require.NoError(t, err)
	assert.Equal(t, int64(-5000), updated.Balance)

	got, err := repo.GetByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-5000), got.Balance)
}

func TestAccountRepository_ApplyDelta_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	updated, err := repo.ApplyDelta(ctx, uuid.New(), 100)
	assert.Nil(t, updated)
	assert.ErrorIs(t, err, account.ErrAccountNotFound{})
}

func TestAccountRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	acc := newAccount(t, account.KindSavings, 1000)
	require.NoError(t, repo.Create(ctx, acc))

	t.Run("Success", func(t *testing.T) {
		modified := *acc
		modified.InterestRate = 300
		modified.Version = acc.Version + 1
		modified.UpdatedAt = time.Now()

		require.NoError(t, repo.Update(ctx, &modified))

		got, err := repo.GetByID(ctx, acc.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(300), got.InterestRate)
		assert.Equal(t, acc.Version+1, got.Version)
	})

	t.Run("StaleVersion", func(t *testing.T) {
		stale := *acc
		stale.InterestRate = 400
		stale.Version = acc.Version + 1 // Already consumed above

		err := repo.Update(ctx, &stale)
		var conflict account.ErrConcurrentModification
		assert.ErrorAs(t, err, &conflict)
	})
}

func TestAccountRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	acc := newAccount(t, account.KindCurrent, 100)
	require.NoError(t, repo.Create(ctx, acc))

	require.NoError(t, repo.Delete(ctx, acc.ID))

	_, err := repo.GetByID(ctx, acc.ID)
	assert.ErrorIs(t, err, account.ErrAccountNotFound{})

	err = repo.Delete(ctx, acc.ID)
	assert.ErrorIs(t, err, account.ErrAccountNotFound{})
}

func TestAccountRepository_BalanceStats(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	t.Run("Empty", func(t *testing.T) {
		stats, err := repo.BalanceStats(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.Count)
		assert.Zero(t, stats.Sum)
		assert.Zero(t, stats.Average)
	})

	t.Run("Aggregates", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, newAccount(t, account.KindCurrent, 10000)))
		require.NoError(t, repo.Create(ctx, newAccount(t, account.KindSavings, 20000)))

		stats, err := repo.BalanceStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.Count)
		assert.Equal(t, int64(30000), stats.Sum)
		assert.Equal(t, int64(15000), stats.Average)
	})
}
