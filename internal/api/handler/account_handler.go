package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bank-demo-ledger/internal/domain/account"
)

// AccountHandler handles HTTP requests for account operations
type AccountHandler struct {
	service LedgerService
	logger  *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, service LedgerService) *AccountHandler {
	return &AccountHandler{
		service: service,
		logger:  logger,
	}
}

// Create opens a new account with the requested kind and opening balance
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	openingBalance, err := parseAmount(req.OpeningBalance)
	if err != nil {
		h.logger.Error("Invalid opening balance", "opening_balance", req.OpeningBalance, "error", err)
		RespondBadRequest(c, "Invalid opening balance")
		return
	}

	acc, err := h.service.CreateAccount(c.Request.Context(), account.Kind(req.Kind), openingBalance)
	if err != nil {
		if errors.Is(err, account.ErrInvalidAmount) || errors.Is(err, account.ErrInvalidKind) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create account", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// GetByID retrieves an account by its ID, returning 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid account ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	acc, err := h.service.GetAccount(c.Request.Context(), id)
	if err != nil {
		var accNotFound account.ErrAccountNotFound
		if errors.As(err, &accNotFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get account", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// List retrieves all accounts, optionally filtered by kind via ?kind=SAVINGS
func (h *AccountHandler) List(c *gin.Context) {
	var kind *account.Kind
	if raw := c.Query("kind"); raw != "" {
		parsed, err := account.ParseKind(raw)
		if err != nil {
			RespondBadRequest(c, "Invalid account kind")
			return
		}
		kind = &parsed
	}

	accounts, err := h.service.ListAccounts(c.Request.Context(), kind)
	if err != nil {
		h.logger.Error("Failed to list accounts", "error", err)
		RespondInternalError(c)
		return
	}

	response := AccountListResponse{Accounts: make([]AccountResponse, 0, len(accounts))}
	for _, acc := range accounts {
		response.Accounts = append(response.Accounts, mapAccountToResponse(acc))
	}

	RespondOK(c, response)
}

// Update changes account metadata. The balance is off limits here; only
// deposits and withdrawals move it.
func (h *AccountHandler) Update(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid account ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var overdraftLimit *int64
	if req.OverdraftLimit != nil {
		cents, err := parseAmount(*req.OverdraftLimit)
		if err != nil {
			RespondBadRequest(c, "Invalid overdraft limit")
			return
		}
		overdraftLimit = &cents
	}

	acc, err := h.service.UpdateAccount(c.Request.Context(), id, req.InterestRate, overdraftLimit)
	if err != nil {
		var accNotFound account.ErrAccountNotFound
		if errors.As(err, &accNotFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		var conflict account.ErrConcurrentModification
		if errors.As(err, &conflict) {
			RespondConflict(c, "Account was modified concurrently, retry the update")
			return
		}
		h.logger.Error("Failed to update account", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// Delete removes an account. Its transaction history stays in the log.
func (h *AccountHandler) Delete(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid account ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	if err := h.service.DeleteAccount(c.Request.Context(), id); err != nil {
		var accNotFound account.ErrAccountNotFound
		if errors.As(err, &accNotFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to delete account", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// Stats returns aggregate balance figures across all accounts
func (h *AccountHandler) Stats(c *gin.Context) {
	stats, err := h.service.AccountStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute account stats", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, AccountStatsResponse{
		Count:          stats.Count,
		TotalBalance:   formatAmount(stats.Sum),
		AverageBalance: formatAmount(stats.Average),
	})
}
