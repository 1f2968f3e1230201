// Package mockbank serves a fixed set of demo accounts over the same HTTP
// contract as the banking data service.
package mockbank

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	msgAccountNotFound      = "Account not found. Please provide a valid account ID (e.g., 12345, 67890, 98765)."
	msgTransactionsNotFound = "No transaction history found for this account. Please provide a valid account ID (e.g., 12345, 67890, 98765)."

	// HealthText is the body of GET /health.
	HealthText = "Mock Banking API is healthy"
)

type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type Server struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{logger: logger}
}

// Router returns the service routes with request logging and CORS applied.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(allowAllOrigins)

	r.Get("/account-balance/{accountId}", s.handleBalance)
	r.Get("/transaction-history/{accountId}", s.handleTransactions)
	r.Get("/accounts", s.handleAccounts)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(HealthText))
	})
	return r
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "accountId")
	acc, ok := accounts[id]
	if !ok {
		s.logger.Warn("account not found", "account_id", id)
		respondJSON(w, http.StatusNotFound, envelope{Status: "error", Message: msgAccountNotFound})
		return
	}
	s.logger.Info("returning balance", "account_id", id)
	respondJSON(w, http.StatusOK, envelope{Status: "success", Data: acc})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "accountId")
	txs, ok := transactions[id]
	if !ok {
		s.logger.Warn("transactions not found", "account_id", id)
		respondJSON(w, http.StatusNotFound, envelope{Status: "error", Message: msgTransactionsNotFound})
		return
	}
	s.logger.Info("returning transaction history", "account_id", id)
	respondJSON(w, http.StatusOK, envelope{Status: "success", Data: txs})
}

func (s *Server) handleAccounts(w http.ResponseWriter, _ *http.Request) {
	out := make([]account, 0, len(accountOrder))
	for _, id := range accountOrder {
		out = append(out, accounts[id])
	}
	s.logger.Info("returning all accounts", "count", len(out))
	respondJSON(w, http.StatusOK, envelope{Status: "success", Data: out})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func allowAllOrigins(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
