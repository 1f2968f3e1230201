package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"bank-chat-gateway/internal/config"
	"bank-chat-gateway/internal/integrations/banking"
	"bank-chat-gateway/internal/integrations/gemini"
	"bank-chat-gateway/internal/integrations/paramstore"
	"bank-chat-gateway/internal/repository"
	"bank-chat-gateway/internal/usecase"
)

type loadConfigFunc func() (*config.Config, error)

// awsLoader loads the shared AWS config on first use only, so local runs
// without credentials never touch it.
type awsLoader struct {
	cfg *aws.Config
}

func (l *awsLoader) load(ctx context.Context) (aws.Config, error) {
	if l.cfg != nil {
		return *l.cfg, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load AWS config: %w", err)
	}
	l.cfg = &cfg
	return cfg, nil
}

// buildChatService wires the pipeline from cfg. The returned cleanup releases
// the history store.
func buildChatService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*usecase.ChatService, func(), error) {
	loader := &awsLoader{}

	history, cleanup, err := openHistory(ctx, cfg.History, loader)
	if err != nil {
		return nil, nil, err
	}

	keySource, keyName, err := llmKeySource(ctx, cfg.LLM, loader)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if keySource == nil {
		logger.Warn("no language model credential configured, general questions will fail")
	}
	if cfg.Banking.BaseURL == "" {
		logger.Warn("MOCK_BANKING_API_URL is not set, banking questions will fail")
	}

	svc, err := usecase.NewChatService(
		history,
		banking.NewClient(cfg.Banking.BaseURL, banking.WithTimeout(cfg.Banking.Timeout)),
		gemini.NewClient(keySource, keyName,
			gemini.WithBaseURL(cfg.LLM.BaseURL),
			gemini.WithModel(cfg.LLM.Model),
			gemini.WithTimeout(cfg.LLM.Timeout),
		),
		usecase.Config{
			DefaultAccountID: cfg.Pipeline.DefaultAccountID,
			ContextTurns:     cfg.Pipeline.ContextTurns,
			CallTimeout:      cfg.Pipeline.CallTimeout,
			Logger:           logger,
		},
	)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("create chat service: %w", err)
	}
	return svc, cleanup, nil
}

func openHistory(ctx context.Context, cfg config.HistoryConfig, loader *awsLoader) (usecase.HistoryStore, func(), error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := repository.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case config.BackendDynamoDB:
		awsCfg, err := loader.load(ctx)
		if err != nil {
			return nil, nil, err
		}
		store, err := repository.NewDynamoStore(awsdynamodb.NewFromConfig(awsCfg), cfg.Table)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		return repository.NewMemoryStore(), func() {}, nil
	}
}

// llmKeySource prefers a key given directly in the environment over an SSM
// parameter. A nil getter leaves the model unconfigured.
func llmKeySource(ctx context.Context, cfg config.LLMConfig, loader *awsLoader) (paramstore.Getter, string, error) {
	switch {
	case cfg.APIKey != "":
		return paramstore.Static(cfg.APIKey), "", nil
	case cfg.APIKeyParam != "":
		awsCfg, err := loader.load(ctx)
		if err != nil {
			return nil, "", err
		}
		client, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
		if err != nil {
			return nil, "", err
		}
		return client, cfg.APIKeyParam, nil
	default:
		return nil, "", nil
	}
}
