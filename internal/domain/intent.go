package domain

// Intent is the closed set of response strategies for a message.
type Intent string

const (
	IntentBalance            Intent = "balance"
	IntentTransactionHistory Intent = "transaction-history"
	IntentListAccounts       Intent = "list-accounts"
	IntentAccountDetails     Intent = "account-details"
	IntentGeneral            Intent = "general"
)
