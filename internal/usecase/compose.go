package usecase

import (
	"fmt"
	"strings"

	"bank-chat-gateway/internal/domain"
)

// Outcome is the tagged result of the one upstream call made for a message.
// Exactly one of the payload fields is meaningful for a given intent; Err is
// set when that call failed.
type Outcome struct {
	Account      domain.Account
	Accounts     []domain.Account
	Transactions []domain.Transaction
	Text         string
	Err          *Error
}

const (
	hintInvalidAccount  = "Please ensure the account ID is valid."
	hintNoTransactions  = "No transactions found or invalid account ID."
	hintNoAccounts      = "No accounts found."
	hintDetailsNotFound = "Please provide a valid account ID."
	hintLLMUnavailable  = "The language service is unavailable right now."
	hintLLMMalformed    = "LLM did not return a valid text response."
)

// Compose renders the user-facing reply for intent.
func Compose(intent domain.Intent, out Outcome, accountID string) string {
	switch intent {
	case domain.IntentBalance:
		return composeBalance(out, accountID)
	case domain.IntentTransactionHistory:
		return composeTransactions(out, accountID)
	case domain.IntentListAccounts:
		return composeAccounts(out)
	case domain.IntentAccountDetails:
		return composeDetails(out, accountID)
	default:
		return composeGeneral(out)
	}
}

func composeBalance(out Outcome, accountID string) string {
	if out.Err != nil {
		return apology("I couldn't retrieve the account balance.", out.Err, hintInvalidAccount)
	}
	return fmt.Sprintf("Your account %s balance is: %s %s.", accountID, out.Account.Balance.String(), out.Account.Currency)
}

func composeTransactions(out Outcome, accountID string) string {
	if out.Err != nil || len(out.Transactions) == 0 {
		return apology("I couldn't retrieve transaction history.", out.Err, hintNoTransactions)
	}
	lines := make([]string, 0, len(out.Transactions))
	for _, t := range out.Transactions {
		lines = append(lines, fmt.Sprintf("%s: %s (%s %s)", t.Date, t.Description, t.Amount.String(), t.Type))
	}
	return fmt.Sprintf("Here are your recent transactions for account %s:\n%s", accountID, strings.Join(lines, "\n"))
}

func composeAccounts(out Outcome) string {
	if out.Err != nil || len(out.Accounts) == 0 {
		return apology("I couldn't retrieve available accounts.", out.Err, hintNoAccounts)
	}
	lines := make([]string, 0, len(out.Accounts))
	for _, a := range out.Accounts {
		lines = append(lines, fmt.Sprintf("%s (ID: %s, Balance: %s %s)", a.AccountName, a.AccountID, a.Balance.String(), a.Currency))
	}
	return strings.Join(lines, "\n")
}

func composeDetails(out Outcome, accountID string) string {
	if out.Err != nil {
		return apology(fmt.Sprintf("I couldn't find details for account %s.", accountID), out.Err, hintDetailsNotFound)
	}
	a := out.Account
	return fmt.Sprintf("Details for account %s:\nName: %s\nBalance: %s %s\nType: %s",
		a.AccountID, a.AccountName, a.Balance.String(), a.Currency, a.Type)
}

func composeGeneral(out Outcome) string {
	if out.Err == nil {
		return out.Text
	}
	hint := hintLLMUnavailable
	if out.Err.Code == ErrorMalformedUpstream {
		hint = hintLLMMalformed
	}
	return apology("I apologize, but I'm having trouble understanding.", out.Err, hint)
}

// apology joins lead with the upstream-provided message, or hint when the
// failure carried none. Raw transport errors never reach the text.
func apology(lead string, err *Error, hint string) string {
	detail := hint
	if err != nil && strings.TrimSpace(err.Message) != "" {
		detail = strings.TrimSpace(err.Message)
	}
	return lead + " " + detail
}
