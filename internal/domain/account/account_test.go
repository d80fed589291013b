package account

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Run("CurrentAccount", func(t *testing.T) {
		acc, err := New(KindCurrent, 100000) // 1000.00

		assert.NoError(t, err)
		assert.NotNil(t, acc)
		assert.NotEqual(t, uuid.Nil, acc.ID)
		assert.Equal(t, int64(100000), acc.Balance)
		assert.Equal(t, KindCurrent, acc.Kind)
		assert.Equal(t, 1, acc.Version)
		assert.False(t, acc.CreatedAt.IsZero())
		assert.Equal(t, int64(50000), acc.OverdraftLimit)
		assert.Zero(t, acc.InterestRate)
	})

	t.Run("SavingsAccount", func(t *testing.T) {
		acc, err := New(KindSavings, 0)

		assert.NoError(t, err)
		assert.Equal(t, KindSavings, acc.Kind)
		assert.Equal(t, int64(250), acc.InterestRate)
		assert.Zero(t, acc.OverdraftLimit)
	})

	t.Run("NegativeOpeningBalance", func(t *testing.T) {
		acc, err := New(KindCurrent, -1)

		assert.Nil(t, acc)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("UnknownKind", func(t *testing.T) {
		acc, err := New(Kind("CHECKING"), 100)

		assert.Nil(t, acc)
		assert.ErrorIs(t, err, ErrInvalidKind)
	})
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("CURRENT")
	assert.NoError(t, err)
	assert.Equal(t, KindCurrent, kind)

	kind, err = ParseKind("SAVINGS")
	assert.NoError(t, err)
	assert.Equal(t, KindSavings, kind)

	_, err = ParseKind("savings")
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = ParseKind("")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestOverdrawn(t *testing.T) {
	acc := &Account{Balance: 100}
	assert.False(t, acc.Overdrawn())

	acc.Balance = 0
	assert.False(t, acc.Overdrawn())

	acc.Balance = -1
	assert.True(t, acc.Overdrawn())
}

func TestErrAccountNotFound_Is(t *testing.T) {
	id := uuid.New()
	err := ErrAccountNotFound{AccountID: id}

	assert.ErrorIs(t, err, ErrAccountNotFound{AccountID: id})
	assert.ErrorIs(t, err, ErrAccountNotFound{}) // Nil ID matches any account
	assert.NotErrorIs(t, err, ErrAccountNotFound{AccountID: uuid.New()})
}
