package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func lookup(vals map[string]string) func(string) string {
	return func(k string) string { return vals[k] }
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookup(nil))
	require.NoError(t, err)

	require.Equal(t, ":3001", cfg.Server.Addr)
	require.Equal(t, ":3002", cfg.Server.MockBankAddr)
	require.Empty(t, cfg.Banking.BaseURL)
	require.Equal(t, 10*time.Second, cfg.Banking.Timeout)
	require.False(t, cfg.LLM.Configured())
	require.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	require.Equal(t, "https://generativelanguage.googleapis.com", cfg.LLM.BaseURL)
	require.Equal(t, HistoryConfig{Backend: BackendMemory, DBPath: "data/chat_history.db"}, cfg.History)
	require.Equal(t, PipelineConfig{DefaultAccountID: "12345", ContextTurns: 10, CallTimeout: 10 * time.Second}, cfg.Pipeline)
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookup(map[string]string{
		"PORT":                 "127.0.0.1:8080",
		"MOCK_BANKING_API_URL": "http://localhost:3002",
		"GEMINI_API_KEY_PARAM": "/bank-chat/gemini",
		"UPSTREAM_TIMEOUT":     "3s",
		"HISTORY_BACKEND":      "DynamoDB",
		"HISTORY_TABLE":        "chat-history",
		"CONTEXT_TURNS":        "4",
		"DEFAULT_ACCOUNT_ID":   "67890",
	}))
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	require.Equal(t, "http://localhost:3002", cfg.Banking.BaseURL)
	require.True(t, cfg.LLM.Configured())
	require.Equal(t, 3*time.Second, cfg.LLM.Timeout)
	require.Equal(t, BackendDynamoDB, cfg.History.Backend)
	require.Equal(t, "chat-history", cfg.History.Table)
	require.Equal(t, 4, cfg.Pipeline.ContextTurns)
	require.Equal(t, "67890", cfg.Pipeline.DefaultAccountID)
}

func TestFromLookup_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad port":             {"PORT": "30 01"},
		"non numeric port":     {"MOCK_BANKING_PORT": "abc"},
		"bad timeout":          {"UPSTREAM_TIMEOUT": "ten"},
		"negative timeout":     {"UPSTREAM_TIMEOUT": "-1s"},
		"bad turns":            {"CONTEXT_TURNS": "x"},
		"zero turns":           {"CONTEXT_TURNS": "0"},
		"unknown backend":      {"HISTORY_BACKEND": "postgres"},
		"dynamodb needs table": {"HISTORY_BACKEND": "dynamodb"},
	}
	for name, vals := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromLookup(lookup(vals))
			require.Error(t, err)
		})
	}
}
