package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bank-demo-ledger/internal/domain/account"
	"github.com/bank-demo-ledger/internal/domain/transaction"
	"github.com/bank-demo-ledger/internal/ledger"
)

// TransactionHandler handles HTTP requests for transaction operations
type TransactionHandler struct {
	service LedgerService
	logger  *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, service LedgerService) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		logger:  logger,
	}
}

// Create applies a deposit or withdrawal to an account. The response carries
// the committed transaction record; the balance has already moved when the
// handler returns.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		h.logger.Error("Invalid account ID", "account_id", req.AccountID, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		h.logger.Error("Invalid amount", "amount", req.Amount, "error", err)
		RespondBadRequest(c, "Invalid amount")
		return
	}

	tx, err := h.service.ApplyTransaction(c.Request.Context(), accountID, transaction.Kind(req.Kind), amount, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, transaction.ErrInvalidAmount), errors.Is(err, transaction.ErrInvalidKind):
			RespondBadRequest(c, err.Error())
		case errors.As(err, &account.ErrAccountNotFound{}):
			RespondNotFound(c, "Account not found")
		case errors.As(err, &ledger.ErrInconsistent{}):
			h.logger.Error("Ledger inconsistency detected", "account_id", req.AccountID, "error", err)
			RespondWithError(c, http.StatusInternalServerError, "INCONSISTENT", "Stores disagree for this account, manual reconciliation required")
		default:
			h.logger.Error("Failed to apply transaction", "account_id", req.AccountID, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, mapTransactionToResponse(tx))
}

// GetByID retrieves a transaction record by its ID, returns 404 if not found
func (h *TransactionHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid transaction ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	tx, err := h.service.GetTransaction(c.Request.Context(), id)
	if err != nil {
		var txNotFound transaction.ErrTransactionNotFound
		if errors.As(err, &txNotFound) {
			RespondNotFound(c, "Transaction not found")
			return
		}
		h.logger.Error("Failed to get transaction", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapTransactionToResponse(tx))
}

// List retrieves the full transaction log, newest first, with pagination
func (h *TransactionHandler) List(c *gin.Context) {
	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	h.listWithFilter(c, transaction.Filter{
		Limit:  pagination.PerPage,
		Offset: (pagination.Page - 1) * pagination.PerPage,
	}, pagination)
}

// GetByAccountID retrieves paginated transaction history for one account,
// newest first
func (h *TransactionHandler) GetByAccountID(c *gin.Context) {
	accountIDParam := c.Param("id")
	accountID, err := uuid.Parse(accountIDParam)
	if err != nil {
		h.logger.Error("Invalid account ID", "account_id", accountIDParam, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	h.listWithFilter(c, transaction.Filter{
		AccountID: &accountID,
		Limit:     pagination.PerPage,
		Offset:    (pagination.Page - 1) * pagination.PerPage,
	}, pagination)
}

func (h *TransactionHandler) listWithFilter(c *gin.Context, filter transaction.Filter, pagination PaginationParams) {
	txs, total, err := h.service.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list transactions", "error", err)
		RespondInternalError(c)
		return
	}

	transactions := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		transactions = append(transactions, mapTransactionToResponse(tx))
	}

	RespondWithPaginatedData(c, http.StatusOK, TransactionListResponse{Transactions: transactions},
		pagination.Page, pagination.PerPage, int(total))
}

// Stats returns aggregate figures over the whole transaction log
func (h *TransactionHandler) Stats(c *gin.Context) {
	stats, err := h.service.TransactionStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute transaction stats", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, TransactionStatsResponse{
		Count:          stats.Count,
		SumDeposits:    formatAmount(stats.SumDeposits),
		SumWithdrawals: formatAmount(stats.SumWithdrawals),
	})
}
