package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bank-demo-ledger/internal/domain/transaction"
)

const (
	// TransactionCollectionName is the name of the transaction log collection
	TransactionCollectionName = "transactions"
)

// TransactionRepository implements the transaction.Repository interface for
// MongoDB. The collection is append-only: documents are inserted once and
// never updated or removed.
type TransactionRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewTransactionRepository creates a new MongoDB transaction repository
func NewTransactionRepository(logger *slog.Logger, db *mongo.Database) transaction.Repository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a new transaction record
func (r *TransactionRepository) Create(ctx context.Context, tx *transaction.Transaction) error {
	collection := r.db.Collection(TransactionCollectionName)

	_, err := collection.InsertOne(ctx, tx)
	if err != nil {
		r.logger.Error("Failed to create transaction record",
			"transaction_id", tx.ID.String(),
			"error", err)
		return fmt.Errorf("failed to create transaction record: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction record by its ID.
// Returns ErrTransactionNotFound if no record exists
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"transaction_id": id}
	var tx transaction.Transaction
	err := collection.FindOne(ctx, filter).Decode(&tx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, transaction.ErrTransactionNotFound{ID: id}
		}
		r.logger.Error("Failed to get transaction record",
			"transaction_id", id.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get transaction record: %w", err)
	}

	return &tx, nil
}

// List retrieves transaction records matching the filter, sorted by timestamp
// in descending order (newest first). The sort is always explicit: insertion
// order carries no guarantee.
func (r *TransactionRepository) List(ctx context.Context, f transaction.Filter) ([]*transaction.Transaction, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{}
	if f.AccountID != nil {
		filter["account_id"] = *f.AccountID
	}

	opts := options.Find().
		SetSort(bson.M{"timestamp": -1}).
		SetSkip(int64(f.Offset))
	if f.Limit > 0 {
		opts = opts.SetLimit(int64(f.Limit))
	}

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list transaction records", "error", err)
		return nil, fmt.Errorf("failed to list transaction records: %w", err)
	}
	defer cursor.Close(ctx)

	var txs []*transaction.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		r.logger.Error("Failed to decode transaction records", "error", err)
		return nil, fmt.Errorf("failed to decode transaction records: %w", err)
	}

	return txs, nil
}

// Count counts transaction records, optionally for a single account
func (r *TransactionRepository) Count(ctx context.Context, accountID *uuid.UUID) (int64, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{}
	if accountID != nil {
		filter["account_id"] = *accountID
	}

	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count transaction records", "error", err)
		return 0, fmt.Errorf("failed to count transaction records: %w", err)
	}

	return count, nil
}

// Stats aggregates the whole log: record count plus deposit and withdrawal sums
func (r *TransactionRepository) Stats(ctx context.Context) (*transaction.Stats, error) {
	collection := r.db.Collection(TransactionCollectionName)

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"sum_deposits": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$kind", transaction.KindDeposit}}, "$amount", 0},
			}},
			"sum_withdrawals": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$kind", transaction.KindWithdrawal}}, "$amount", 0},
			}},
		}}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Failed to aggregate transaction stats", "error", err)
		return nil, fmt.Errorf("failed to aggregate transaction stats: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Count          int64 `bson:"count"`
		SumDeposits    int64 `bson:"sum_deposits"`
		SumWithdrawals int64 `bson:"sum_withdrawals"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		r.logger.Error("Failed to decode transaction stats", "error", err)
		return nil, fmt.Errorf("failed to decode transaction stats: %w", err)
	}

	// An empty collection yields no groups
	if len(results) == 0 {
		return &transaction.Stats{}, nil
	}

	return &transaction.Stats{
		Count:          results[0].Count,
		SumDeposits:    results[0].SumDeposits,
		SumWithdrawals: results[0].SumWithdrawals,
	}, nil
}
