package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/bank-demo-ledger/internal/config"
	"github.com/bank-demo-ledger/internal/domain/outbox"
)

// Poller drains pending outbox messages to the publisher.
// Messages within a batch are published concurrently on a worker pool;
// the poller waits for the batch to finish before the next tick.
type Poller struct {
	outboxRepo       outbox.Repository
	publisher        Publisher
	pool             *ants.Pool
	logger           *slog.Logger
	pollInterval     time.Duration
	batchSize        int
	maxRetryAttempts int
}

func NewPoller(
	cfg *config.OutboxConfig,
	poolSize int,
	outboxRepo outbox.Repository,
	publisher Publisher,
	logger *slog.Logger,
) (*Poller, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox worker pool: %w", err)
	}

	return &Poller{
		outboxRepo:       outboxRepo,
		publisher:        publisher,
		pool:             pool,
		logger:           logger,
		pollInterval:     cfg.PollingInterval,
		batchSize:        cfg.BatchSize,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}, nil
}

// Start begins polling until context is canceled
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting outbox poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
		"pool_capacity", p.pool.Cap(),
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox poller stopping due to context cancellation")
			p.pool.Release()
			return
		case <-ticker.C:
			if err := p.processPendingMessages(ctx); err != nil {
				p.logger.Error("Error during batch processing of pending outbox messages", "error", err)
			}
		}
	}
}

func (p *Poller) processPendingMessages(ctx context.Context) error {
	messages, err := p.outboxRepo.GetPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending outbox messages: %w", err)
	}

	if len(messages) == 0 {
		return nil
	}

	p.logger.Info("Fetched pending outbox messages", "count", len(messages))

	var wg sync.WaitGroup
	for _, msg := range messages {
		msg := msg
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			p.publishMessage(ctx, msg)
		})
		if err != nil {
			wg.Done()
			p.logger.Error("Failed to submit outbox message to worker pool", "outbox_id", msg.ID, "error", err)
		}
	}
	wg.Wait()

	return nil
}

// publishMessage pushes one message to the publisher. On success the row is
// deleted; on failure the attempt counter goes up and the message is marked
// FAILED_TO_PUBLISH once the retry limit is reached.
func (p *Poller) publishMessage(ctx context.Context, msg *outbox.Message) {
	err := p.publisher.Publish(ctx, msg.AccountID.String(), msg.Payload)
	if err != nil {
		p.logger.Error("Failed to publish outbox message",
			"outbox_id", msg.ID, "transaction_id", msg.TransactionID, "current_attempts", msg.Attempts, "error", err,
		)

		if errInc := p.outboxRepo.IncrementAttempts(ctx, msg.ID); errInc != nil {
			p.logger.Error("Failed to increment attempts for outbox message", "outbox_id", msg.ID, "error", errInc)
			return
		}

		if msg.Attempts+1 >= p.maxRetryAttempts {
			p.logger.Warn("Max retry attempts reached for outbox message, marking as FAILED_TO_PUBLISH",
				"outbox_id", msg.ID, "transaction_id", msg.TransactionID, "attempts_made", msg.Attempts+1,
			)
			if errUpdate := p.outboxRepo.UpdateStatus(ctx, msg.ID, outbox.StatusFailedToPublish); errUpdate != nil {
				p.logger.Error("Failed to mark outbox message as FAILED_TO_PUBLISH", "outbox_id", msg.ID, "error", errUpdate)
			}
		}
		return
	}

	if err := p.outboxRepo.Delete(ctx, msg.ID); err != nil {
		p.logger.Error("Published outbox message but failed to delete it",
			"outbox_id", msg.ID, "transaction_id", msg.TransactionID, "error", err,
		)
		return
	}

	p.logger.Info("Published and cleared outbox message", "outbox_id", msg.ID, "transaction_id", msg.TransactionID)
}
