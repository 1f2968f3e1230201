package main

import (
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"

	"bank-chat-gateway/handler"
)

func newLambdaCmd(loadConfig loadConfigFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "lambda",
		Short: "Serve API Gateway proxy events as an AWS Lambda function",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, cleanup, err := buildChatService(cmd.Context(), cfg, slog.Default())
			if err != nil {
				return err
			}
			defer cleanup()

			h, err := handler.NewHandler(svc)
			if err != nil {
				return err
			}
			lambda.Start(h.Handle)
			return nil
		},
	}
}
