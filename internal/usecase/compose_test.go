package usecase

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bank-chat-gateway/internal/domain"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func upstreamErr(message string) *Error {
	return &Error{Code: ErrorUpstreamUnavailable, Reason: "test", Message: message, Err: errors.New("dial tcp 127.0.0.1:3002: connect: connection refused")}
}

func TestCompose_Balance(t *testing.T) {
	out := Outcome{Account: domain.Account{AccountID: "67890", Balance: dec(t, "45000.0"), Currency: "USD"}}
	require.Equal(t, "Your account 67890 balance is: 45000 USD.", Compose(domain.IntentBalance, out, "67890"))

	out = Outcome{Account: domain.Account{AccountID: "12345", Balance: dec(t, "15230.75"), Currency: "USD"}}
	require.Equal(t, "Your account 12345 balance is: 15230.75 USD.", Compose(domain.IntentBalance, out, "12345"))
}

func TestCompose_BalanceFailure(t *testing.T) {
	text := Compose(domain.IntentBalance, Outcome{Err: upstreamErr("Account not found...")}, "00000")
	require.Equal(t, "I couldn't retrieve the account balance. Account not found...", text)
	require.NotContains(t, text, "connection refused")

	text = Compose(domain.IntentBalance, Outcome{Err: upstreamErr("")}, "00000")
	require.Equal(t, "I couldn't retrieve the account balance. Please ensure the account ID is valid.", text)
	require.NotContains(t, text, "connection refused")
}

func TestCompose_Transactions(t *testing.T) {
	out := Outcome{Transactions: []domain.Transaction{
		{Date: "2024-06-29", Description: "Interest Earned", Amount: dec(t, "12.5"), Type: "credit"},
		{Date: "2024-06-20", Description: "Transfer to Checking", Amount: dec(t, "-1000.0"), Type: "debit"},
	}}
	require.Equal(t,
		"Here are your recent transactions for account 67890:\n2024-06-29: Interest Earned (12.5 credit)\n2024-06-20: Transfer to Checking (-1000 debit)",
		Compose(domain.IntentTransactionHistory, out, "67890"))
}

func TestCompose_TransactionsEmptyOrFailed(t *testing.T) {
	require.Equal(t, "I couldn't retrieve transaction history. No transactions found or invalid account ID.",
		Compose(domain.IntentTransactionHistory, Outcome{}, "67890"))
	require.Equal(t, "I couldn't retrieve transaction history. No transaction history found.",
		Compose(domain.IntentTransactionHistory, Outcome{Err: upstreamErr("No transaction history found.")}, "67890"))
}

func TestCompose_Accounts(t *testing.T) {
	out := Outcome{Accounts: []domain.Account{
		{AccountID: "12345", AccountName: "John Doe Checking", Balance: dec(t, "15230.75"), Currency: "USD"},
		{AccountID: "67890", AccountName: "John Doe Savings", Balance: dec(t, "45000"), Currency: "USD"},
	}}
	text := Compose(domain.IntentListAccounts, out, "12345")
	require.Equal(t, []string{
		"John Doe Checking (ID: 12345, Balance: 15230.75 USD)",
		"John Doe Savings (ID: 67890, Balance: 45000 USD)",
	}, strings.Split(text, "\n"))

	require.Equal(t, "I couldn't retrieve available accounts. No accounts found.",
		Compose(domain.IntentListAccounts, Outcome{}, "12345"))
}

func TestCompose_AccountDetails(t *testing.T) {
	out := Outcome{Account: domain.Account{AccountID: "98765", AccountName: "Jane Smith Business", Balance: dec(t, "120000.5"), Currency: "USD", Type: "Business Checking"}}
	require.Equal(t,
		"Details for account 98765:\nName: Jane Smith Business\nBalance: 120000.5 USD\nType: Business Checking",
		Compose(domain.IntentAccountDetails, out, "98765"))

	require.Equal(t, "I couldn't find details for account 11111. Please provide a valid account ID.",
		Compose(domain.IntentAccountDetails, Outcome{Err: upstreamErr("")}, "11111"))
}

func TestCompose_General(t *testing.T) {
	require.Equal(t, "Hello! How can I help?", Compose(domain.IntentGeneral, Outcome{Text: "Hello! How can I help?"}, "12345"))

	text := Compose(domain.IntentGeneral, Outcome{Err: &Error{Code: ErrorUpstreamUnavailable, Message: "LLM API error: 503"}}, "12345")
	require.Equal(t, "I apologize, but I'm having trouble understanding. LLM API error: 503", text)

	text = Compose(domain.IntentGeneral, Outcome{Err: &Error{Code: ErrorMalformedUpstream}}, "12345")
	require.Equal(t, "I apologize, but I'm having trouble understanding. LLM did not return a valid text response.", text)

	text = Compose(domain.IntentGeneral, Outcome{Err: upstreamErr("")}, "12345")
	require.True(t, strings.HasPrefix(text, "I apologize"))
	require.NotContains(t, text, "connection refused")
}
