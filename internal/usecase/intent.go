package usecase

import (
	"regexp"
	"strings"

	"bank-chat-gateway/internal/domain"
)

// DefaultAccountID is used when a message names no account.
const DefaultAccountID = "12345"

var accountIDPattern = regexp.MustCompile(`\b(\d{5})\b`)

type intentRule struct {
	intent domain.Intent
	match  func(lower string) bool
}

// intentRules is evaluated in order; the first match wins, so a message that
// mentions both a balance and a history keyword resolves to balance.
var intentRules = []intentRule{
	{intent: domain.IntentBalance, match: containsAny("balance", "money")},
	{intent: domain.IntentTransactionHistory, match: containsAny("transaction", "history")},
	{intent: domain.IntentListAccounts, match: containsAny("list available accounts", "all accounts", "my accounts")},
	{intent: domain.IntentAccountDetails, match: containsAny("account details", "account info")},
}

func containsAny(keywords ...string) func(string) bool {
	return func(lower string) bool {
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				return true
			}
		}
		return false
	}
}

// Classifier maps message text to an intent and an account identifier.
type Classifier struct {
	defaultAccountID string
}

func NewClassifier(defaultAccountID string) Classifier {
	defaultAccountID = strings.TrimSpace(defaultAccountID)
	if defaultAccountID == "" {
		defaultAccountID = DefaultAccountID
	}
	return Classifier{defaultAccountID: defaultAccountID}
}

// Classify returns the intent of message and the first standalone five-digit
// number in it, or the default account id when there is none.
func (c Classifier) Classify(message string) (domain.Intent, string) {
	lower := strings.ToLower(message)

	accountID := c.defaultAccountID
	if m := accountIDPattern.FindStringSubmatch(lower); m != nil {
		accountID = m[1]
	}

	for _, rule := range intentRules {
		if rule.match(lower) {
			return rule.intent, accountID
		}
	}
	return domain.IntentGeneral, accountID
}
