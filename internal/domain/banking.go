package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Account is a read-only record owned by the banking service.
type Account struct {
	AccountID   string          `json:"accountId"`
	AccountName string          `json:"accountName"`
	Balance     decimal.Decimal `json:"balance"`
	Currency    string          `json:"currency"`
	Type        string          `json:"type"`
}

// Transaction is a read-only record owned by the banking service.
type Transaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
}

// BankingResponse pairs the decoded payload with the raw upstream body, which is
// handed back to the caller for optional display.
type BankingResponse[T any] struct {
	Data T
	Raw  json.RawMessage
}
