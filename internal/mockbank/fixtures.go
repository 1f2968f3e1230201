package mockbank

import "github.com/shopspring/decimal"

// money renders as a bare JSON number, the wire format of the banking service.
type money struct {
	decimal.Decimal
}

func usd(s string) money {
	return money{decimal.RequireFromString(s)}
}

func (m money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

type account struct {
	AccountID   string `json:"accountId"`
	AccountName string `json:"accountName"`
	Balance     money  `json:"balance"`
	Currency    string `json:"currency"`
	Type        string `json:"type"`
}

type transaction struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      money  `json:"amount"`
	Type        string `json:"type"`
}

// accountOrder fixes the listing order of the fixture accounts.
var accountOrder = []string{"12345", "67890", "98765"}

var accounts = map[string]account{
	"12345": {AccountID: "12345", AccountName: "John Doe Checking", Balance: usd("15230.75"), Currency: "USD", Type: "Checking"},
	"67890": {AccountID: "67890", AccountName: "John Doe Savings", Balance: usd("45000.0"), Currency: "USD", Type: "Savings"},
	"98765": {AccountID: "98765", AccountName: "Jane Smith Business", Balance: usd("120000.5"), Currency: "USD", Type: "Business Checking"},
}

var transactions = map[string][]transaction{
	"12345": {
		{ID: "t001", Date: "2024-06-28", Description: "Grocery Store", Amount: usd("-75.2"), Type: "debit"},
		{ID: "t002", Date: "2024-06-27", Description: "Salary Deposit", Amount: usd("3500.0"), Type: "credit"},
		{ID: "t003", Date: "2024-06-26", Description: "Online Subscription", Amount: usd("-15.99"), Type: "debit"},
		{ID: "t004", Date: "2024-06-25", Description: "Restaurant", Amount: usd("-45.0"), Type: "debit"},
	},
	"67890": {
		{ID: "t005", Date: "2024-06-29", Description: "Interest Earned", Amount: usd("12.5"), Type: "credit"},
		{ID: "t006", Date: "2024-06-20", Description: "Transfer to Checking", Amount: usd("-1000.0"), Type: "debit"},
		{ID: "t007", Date: "2024-06-15", Description: "Deposit", Amount: usd("500.0"), Type: "credit"},
	},
	"98765": {
		{ID: "t008", Date: "2024-06-30", Description: "Client Payment", Amount: usd("15000.0"), Type: "credit"},
		{ID: "t009", Date: "2024-06-28", Description: "Office Supplies", Amount: usd("-210.5"), Type: "debit"},
		{ID: "t010", Date: "2024-06-25", Description: "Utilities Bill", Amount: usd("-350.0"), Type: "debit"},
	},
}
