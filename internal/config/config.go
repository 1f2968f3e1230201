// Package config loads gateway settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// History backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendDynamoDB = "dynamodb"
)

type Config struct {
	Server   ServerConfig
	Banking  BankingConfig
	LLM      LLMConfig
	History  HistoryConfig
	Pipeline PipelineConfig
}

type ServerConfig struct {
	Addr         string
	MockBankAddr string
}

type BankingConfig struct {
	// BaseURL is empty when the banking service is not configured.
	BaseURL string
	Timeout time.Duration
}

type LLMConfig struct {
	APIKey      string
	APIKeyParam string
	BaseURL     string
	Model       string
	Timeout     time.Duration
}

// Configured reports whether a credential source is set.
func (c LLMConfig) Configured() bool {
	return c.APIKey != "" || c.APIKeyParam != ""
}

type HistoryConfig struct {
	Backend string
	DBPath  string
	Table   string
}

type PipelineConfig struct {
	DefaultAccountID string
	ContextTurns     int
	CallTimeout      time.Duration
}

// Load reads a .env file when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return FromLookup(os.Getenv)
}

// FromLookup builds a Config from getenv without touching .env files.
func FromLookup(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	addr, err := listenAddr(env("PORT", "3001"))
	if err != nil {
		return nil, fmt.Errorf("config: PORT: %w", err)
	}
	mockAddr, err := listenAddr(env("MOCK_BANKING_PORT", "3002"))
	if err != nil {
		return nil, fmt.Errorf("config: MOCK_BANKING_PORT: %w", err)
	}

	timeout, err := time.ParseDuration(env("UPSTREAM_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("config: UPSTREAM_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("config: UPSTREAM_TIMEOUT must be positive, got %s", timeout)
	}

	turns, err := strconv.Atoi(env("CONTEXT_TURNS", "10"))
	if err != nil {
		return nil, fmt.Errorf("config: CONTEXT_TURNS: %w", err)
	}
	if turns <= 0 {
		return nil, fmt.Errorf("config: CONTEXT_TURNS must be positive, got %d", turns)
	}

	history, err := loadHistoryConfig(env)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{Addr: addr, MockBankAddr: mockAddr},
		Banking: BankingConfig{
			BaseURL: env("MOCK_BANKING_API_URL", ""),
			Timeout: timeout,
		},
		LLM: LLMConfig{
			APIKey:      env("GEMINI_API_KEY", ""),
			APIKeyParam: env("GEMINI_API_KEY_PARAM", ""),
			BaseURL:     env("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Model:       env("GEMINI_MODEL", "gemini-2.0-flash"),
			Timeout:     timeout,
		},
		History: history,
		Pipeline: PipelineConfig{
			DefaultAccountID: env("DEFAULT_ACCOUNT_ID", "12345"),
			ContextTurns:     turns,
			CallTimeout:      timeout,
		},
	}, nil
}

func loadHistoryConfig(env func(key, def string) string) (HistoryConfig, error) {
	cfg := HistoryConfig{
		Backend: strings.ToLower(env("HISTORY_BACKEND", BackendMemory)),
		DBPath:  env("HISTORY_DB_PATH", "data/chat_history.db"),
		Table:   env("HISTORY_TABLE", ""),
	}
	switch cfg.Backend {
	case BackendMemory, BackendSQLite:
	case BackendDynamoDB:
		if cfg.Table == "" {
			return HistoryConfig{}, errors.New("config: HISTORY_TABLE is required for the dynamodb backend")
		}
	default:
		return HistoryConfig{}, fmt.Errorf("config: unknown HISTORY_BACKEND %q", cfg.Backend)
	}
	return cfg, nil
}

// listenAddr accepts a bare port or a host:port pair.
func listenAddr(port string) (string, error) {
	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid value %q", port)
	}
	if strings.Contains(port, ":") {
		return port, nil
	}
	if _, err := strconv.Atoi(port); err != nil {
		return "", fmt.Errorf("invalid value %q", port)
	}
	return ":" + port, nil
}
