package main

import (
	"github.com/spf13/cobra"

	"bank-chat-gateway/internal/config"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gateway",
		Short:         "Banking chat gateway",
		Long:          "gateway answers chat messages from banking data or a language model and keeps a per-user conversation history.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Configuration is read once, lazily, so --help works without a valid environment.
	var cfg *config.Config
	loadConfig := func() (*config.Config, error) {
		if cfg != nil {
			return cfg, nil
		}
		c, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = c
		return cfg, nil
	}

	rootCmd.AddCommand(
		newServeCmd(loadConfig),
		newLambdaCmd(loadConfig),
		newMockBankCmd(loadConfig),
	)
	return rootCmd
}
