package mongo

import (
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bank-demo-ledger/internal/domain/transaction"
)

func TestNewTransactionRepository(t *testing.T) {
	db := &mongo.Database{}
	logger := slog.Default()

	repo := NewTransactionRepository(logger, db)

	assert.NotNil(t, repo)
	assert.IsType(t, &TransactionRepository{}, repo)
}

// The lookup filters in this repository address documents by the
// transaction_id and account_id keys, so the struct tags must keep
// producing them.
func TestTransactionDocumentKeys(t *testing.T) {
	tx := &transaction.Transaction{
		ID:        uuid.New(),
		AccountID: uuid.New(),
		Kind:      transaction.KindDeposit,
		Amount:    10000,
		Timestamp: time.Now(),
	}

	raw, err := bson.Marshal(tx)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))

	assert.Contains(t, doc, "transaction_id")
	assert.Contains(t, doc, "account_id")
	assert.Contains(t, doc, "kind")
	assert.Contains(t, doc, "amount")
	assert.Contains(t, doc, "timestamp")
	assert.NotContains(t, doc, "description", "empty description should be omitted")
}
