package handler

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bank-demo-ledger/internal/domain/account"
	"github.com/bank-demo-ledger/internal/domain/transaction"
)

// Amounts cross the API boundary as decimal strings ("150.00") and are held
// internally as integer cents. Parsing rejects more than two fraction digits
// instead of silently rounding.

var errTooManyDecimals = errors.New("amount must have at most two decimal places")

func parseAmount(raw string) (int64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, err
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, errTooManyDecimals
	}
	return cents.IntPart(), nil
}

func formatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// CreateAccountRequest represents a request to open a new account
type CreateAccountRequest struct {
	Kind           string `json:"kind" binding:"required,oneof=CURRENT SAVINGS"`
	OpeningBalance string `json:"opening_balance" binding:"required"`
}

// UpdateAccountRequest carries optional metadata changes for an account.
// Absent fields are left untouched; the balance cannot be set this way.
type UpdateAccountRequest struct {
	InterestRate   *int64  `json:"interest_rate,omitempty"`
	OverdraftLimit *string `json:"overdraft_limit,omitempty"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID             string `json:"id"`
	Balance        string `json:"balance"`
	Kind           string `json:"kind"`
	InterestRate   int64  `json:"interest_rate,omitempty"`
	OverdraftLimit string `json:"overdraft_limit,omitempty"`
	Overdrawn      bool   `json:"overdrawn"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// AccountListResponse represents a list of accounts in API responses
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// AccountStatsResponse aggregates balances across all accounts
type AccountStatsResponse struct {
	Count          int64  `json:"count"`
	TotalBalance   string `json:"total_balance"`
	AverageBalance string `json:"average_balance"`
}

// CreateTransactionRequest represents a request to apply a deposit or withdrawal
type CreateTransactionRequest struct {
	AccountID   string `json:"account_id" binding:"required,uuid"`
	Kind        string `json:"kind" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          string `json:"id"`
	AccountID   string `json:"account_id"`
	Kind        string `json:"kind"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
	Timestamp   string `json:"timestamp"`
}

// TransactionListResponse represents a list of transactions in API responses
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// TransactionStatsResponse aggregates the transaction log
type TransactionStatsResponse struct {
	Count          int64  `json:"count"`
	SumDeposits    string `json:"sum_deposits"`
	SumWithdrawals string `json:"sum_withdrawals"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

// mapAccountToResponse maps an account entity to an account response DTO
func mapAccountToResponse(acc *account.Account) AccountResponse {
	resp := AccountResponse{
		ID:           acc.ID.String(),
		Balance:      formatAmount(acc.Balance),
		Kind:         string(acc.Kind),
		InterestRate: acc.InterestRate,
		Overdrawn:    acc.Overdrawn(),
		CreatedAt:    acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    acc.UpdatedAt.Format(time.RFC3339),
	}
	if acc.Kind == account.KindCurrent {
		resp.OverdraftLimit = formatAmount(acc.OverdraftLimit)
	}
	return resp
}

// mapTransactionToResponse maps a transaction entity to a response DTO
func mapTransactionToResponse(tx *transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID.String(),
		AccountID:   tx.AccountID.String(),
		Kind:        string(tx.Kind),
		Amount:      formatAmount(tx.Amount),
		Description: tx.Description,
		Timestamp:   tx.Timestamp.Format(time.RFC3339),
	}
}
