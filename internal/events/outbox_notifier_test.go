package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bank-demo-ledger/internal/domain/account"
	"github.com/bank-demo-ledger/internal/domain/outbox"
	"github.com/bank-demo-ledger/internal/domain/transaction"
)

func appliedEventForTest(t *testing.T) *outbox.AppliedEvent {
	t.Helper()
	tx, err := transaction.New(uuid.New(), transaction.KindDeposit, 10000, "salary")
	require.NoError(t, err)
	return &outbox.AppliedEvent{
		Transaction: *tx,
		AccountKind: account.KindCurrent,
		NewBalance:  15000,
		AppliedAt:   time.Now().UTC(),
	}
}

func TestOutboxNotifier_TransactionApplied(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("enqueues a pending message carrying the event", func(t *testing.T) {
		mockRepo := &MockOutboxRepo{}
		notifier := NewOutboxNotifier(logger, mockRepo)
		event := appliedEventForTest(t)

		mockRepo.On("Create", ctx, mock.MatchedBy(func(msg *outbox.Message) bool {
			if msg.Status != outbox.StatusPending {
				return false
			}
			if msg.TransactionID != event.Transaction.ID || msg.AccountID != event.Transaction.AccountID {
				return false
			}
			var decoded outbox.AppliedEvent
			if err := json.Unmarshal(msg.Payload, &decoded); err != nil {
				return false
			}
			return decoded.NewBalance == event.NewBalance
		})).Return(nil).Once()

		err := notifier.TransactionApplied(ctx, event)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("propagates repository failure", func(t *testing.T) {
		mockRepo := &MockOutboxRepo{}
		notifier := NewOutboxNotifier(logger, mockRepo)

		repoErr := errors.New("db down")
		mockRepo.On("Create", ctx, mock.Anything).Return(repoErr).Once()

		err := notifier.TransactionApplied(ctx, appliedEventForTest(t))
		require.Error(t, err)
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestLogNotifier_TransactionApplied(t *testing.T) {
	notifier := NewLogNotifier(slog.Default())
	err := notifier.TransactionApplied(context.Background(), appliedEventForTest(t))
	assert.NoError(t, err)
}
