package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bank-demo-ledger/internal/domain/outbox"
)

// OutboxNotifier records applied-transaction events in the PostgreSQL outbox.
// The poller picks them up and publishes to Kafka, so a broker outage never
// blocks or fails the ledger write path.
type OutboxNotifier struct {
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

func NewOutboxNotifier(logger *slog.Logger, outboxRepo outbox.Repository) *OutboxNotifier {
	return &OutboxNotifier{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

func (n *OutboxNotifier) TransactionApplied(ctx context.Context, event *outbox.AppliedEvent) error {
	message, err := outbox.NewMessage(event)
	if err != nil {
		return fmt.Errorf("failed to build outbox message: %w", err)
	}

	if err := n.outboxRepo.Create(ctx, message); err != nil {
		return fmt.Errorf("failed to enqueue applied event: %w", err)
	}

	n.logger.Debug("Enqueued applied event",
		"outbox_id", message.ID,
		"transaction_id", message.TransactionID.String(),
	)
	return nil
}

// LogNotifier logs applied events instead of publishing them. Used with the
// in-memory store driver where no broker is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) TransactionApplied(_ context.Context, event *outbox.AppliedEvent) error {
	n.logger.Info("Transaction applied",
		"transaction_id", event.Transaction.ID.String(),
		"account_id", event.Transaction.AccountID.String(),
		"kind", string(event.Transaction.Kind),
		"new_balance", event.NewBalance,
	)
	return nil
}
