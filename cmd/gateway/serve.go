package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bank-chat-gateway/handler"
	"bank-chat-gateway/internal/mockbank"
)

func newServeCmd(loadConfig loadConfigFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat gateway HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := slog.Default()
			svc, cleanup, err := buildChatService(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			srv := newHTTPServer(cfg.Server.Addr, handler.NewRouter(svc, logger))
			logger.Info("chat gateway listening", "addr", cfg.Server.Addr, "history", cfg.History.Backend)
			return runServer(ctx, srv)
		},
	}
}

func newMockBankCmd(loadConfig loadConfigFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "mockbank",
		Short: "Run the mock banking data service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := slog.Default()
			srv := newHTTPServer(cfg.Server.MockBankAddr, mockbank.New(logger).Router())
			logger.Info("mock banking API listening", "addr", cfg.Server.MockBankAddr)
			return runServer(ctx, srv)
		},
	}
}

func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
