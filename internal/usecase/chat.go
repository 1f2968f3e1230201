package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"bank-chat-gateway/internal/domain"
)

// HistoryStore appends and reads conversation turns.
type HistoryStore interface {
	HistoryReader
	AppendTurn(ctx context.Context, userID string, role domain.Role, message string) (domain.ConversationTurn, error)
}

// BankingClient is the read-only banking data service.
type BankingClient interface {
	AccountBalance(ctx context.Context, accountID string) (domain.BankingResponse[domain.Account], error)
	TransactionHistory(ctx context.Context, accountID string) (domain.BankingResponse[[]domain.Transaction], error)
	ListAccounts(ctx context.Context) (domain.BankingResponse[[]domain.Account], error)
}

// LLMClient generates a reply for an ordered conversation.
type LLMClient interface {
	Generate(ctx context.Context, turns []domain.ContextTurn) (string, error)
}

// Config tunes a ChatService. Zero values select the defaults.
type Config struct {
	DefaultAccountID string
	ContextTurns     int
	// CallTimeout bounds each call to the history store, banking service and
	// language model. Zero leaves the caller's context untouched.
	CallTimeout time.Duration
	Logger      *slog.Logger
}

// ChatService runs the per-message pipeline: persist the user turn, classify,
// fetch from the banking service or the language model, compose the reply and
// persist it.
type ChatService struct {
	history     HistoryStore
	banking     BankingClient
	llm         LLMClient
	classifier  Classifier
	assembler   *ContextAssembler
	callTimeout time.Duration
	logger      *slog.Logger
}

type ChatInput struct {
	UserID  string
	Message string
}

type ChatOutput struct {
	Response  string
	Intent    domain.Intent
	AccountID string
	// BankingData is the raw banking service body, nil for the general intent
	// or when the service returned nothing parseable.
	BankingData json.RawMessage
}

func NewChatService(history HistoryStore, banking BankingClient, llm LLMClient, cfg Config) (*ChatService, error) {
	if history == nil {
		return nil, errors.New("usecase: history store must not be nil")
	}
	if banking == nil {
		return nil, errors.New("usecase: banking client must not be nil")
	}
	if llm == nil {
		return nil, errors.New("usecase: llm client must not be nil")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatService{
		history:     history,
		banking:     banking,
		llm:         llm,
		classifier:  NewClassifier(cfg.DefaultAccountID),
		assembler:   NewContextAssembler(history, cfg.ContextTurns),
		callTimeout: cfg.CallTimeout,
		logger:      logger,
	}, nil
}

// Chat answers one message. Upstream and persistence failures are absorbed
// into the reply; only validation and configuration failures are returned.
func (s *ChatService) Chat(ctx context.Context, in ChatInput) (ChatOutput, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" || strings.TrimSpace(in.Message) == "" {
		err := newError(ErrorValidation, "missing_user_id_or_message", nil)
		err.Message = "User ID and message are required."
		return ChatOutput{}, err
	}
	// The message is stored and forwarded exactly as received.
	message := in.Message

	s.appendTurn(ctx, userID, domain.RoleUser, message)

	intent, accountID := s.classifier.Classify(message)
	outcome, raw := s.dispatch(ctx, intent, userID, message, accountID)
	if outcome.Err != nil {
		s.logger.Warn("upstream call failed",
			"user_id", userID, "intent", string(intent), "code", string(outcome.Err.Code), "err", outcome.Err)
		if outcome.Err.Code == ErrorConfiguration {
			return ChatOutput{}, outcome.Err
		}
	}

	reply := Compose(intent, outcome, accountID)
	s.appendTurn(ctx, userID, domain.RoleAssistant, reply)

	return ChatOutput{
		Response:    reply,
		Intent:      intent,
		AccountID:   accountID,
		BankingData: raw,
	}, nil
}

func (s *ChatService) dispatch(ctx context.Context, intent domain.Intent, userID, message, accountID string) (Outcome, json.RawMessage) {
	if intent == domain.IntentGeneral {
		return s.generate(ctx, userID, message), nil
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	switch intent {
	case domain.IntentTransactionHistory:
		res, err := s.banking.TransactionHistory(ctx, accountID)
		if err != nil {
			return Outcome{Err: classifyUpstream("banking_transactions_error", err)}, res.Raw
		}
		return Outcome{Transactions: res.Data}, res.Raw
	case domain.IntentListAccounts:
		res, err := s.banking.ListAccounts(ctx)
		if err != nil {
			return Outcome{Err: classifyUpstream("banking_accounts_error", err)}, res.Raw
		}
		return Outcome{Accounts: res.Data}, res.Raw
	default:
		// Balance and account details share the account lookup.
		res, err := s.banking.AccountBalance(ctx, accountID)
		if err != nil {
			return Outcome{Err: classifyUpstream("banking_account_error", err)}, res.Raw
		}
		return Outcome{Account: res.Data}, res.Raw
	}
}

func (s *ChatService) generate(ctx context.Context, userID, message string) Outcome {
	readCtx, cancelRead := s.callContext(ctx)
	turns, err := s.assembler.Build(readCtx, userID, message)
	cancelRead()
	if err != nil {
		s.logger.Warn("history read failed, continuing with short context", "user_id", userID, "err", err)
	}

	genCtx, cancelGen := s.callContext(ctx)
	defer cancelGen()
	text, err := s.llm.Generate(genCtx, turns)
	if err != nil {
		return Outcome{Err: classifyUpstream("llm_error", err)}
	}
	return Outcome{Text: text}
}

// appendTurn persists a turn on a best-effort basis.
func (s *ChatService) appendTurn(ctx context.Context, userID string, role domain.Role, message string) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	if _, err := s.history.AppendTurn(ctx, userID, role, message); err != nil {
		s.logger.Warn("history append failed",
			"user_id", userID, "role", string(role), "err", newError(ErrorPersistence, "history_write_error", err))
	}
}

func (s *ChatService) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.callTimeout)
}
