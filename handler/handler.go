// Package handler exposes the chat pipeline over HTTP and API Gateway.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"bank-chat-gateway/internal/usecase"
)

// HealthText is the body of GET /health.
const HealthText = "Backend API Gateway is healthy"

const (
	msgInvalidBody    = "Invalid request body."
	msgNotConfigured  = "A required service is not configured."
	msgInternal       = "An internal server error occurred."
	msgNotFound       = "Not found."
	msgMissingRequest = "User ID and message are required."
)

// Chatter answers a single chat message.
type Chatter interface {
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
}

type chatRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

type chatResponse struct {
	Response    string          `json:"response"`
	BankingData json.RawMessage `json:"bankingData"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func decodeChatRequest(body []byte) (usecase.ChatInput, bool) {
	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return usecase.ChatInput{}, false
	}
	return usecase.ChatInput{UserID: req.UserID, Message: req.Message}, true
}

func newChatResponse(out usecase.ChatOutput) chatResponse {
	return chatResponse{Response: out.Response, BankingData: out.BankingData}
}

// statusFor maps a pipeline error to an HTTP status and a message that is
// safe to return to the caller.
func statusFor(err error) (int, string) {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		return http.StatusInternalServerError, msgInternal
	}
	switch ucErr.Code {
	case usecase.ErrorValidation:
		msg := strings.TrimSpace(ucErr.Message)
		if msg == "" {
			msg = msgMissingRequest
		}
		return http.StatusBadRequest, msg
	case usecase.ErrorConfiguration:
		return http.StatusInternalServerError, msgNotConfigured
	default:
		return http.StatusInternalServerError, msgInternal
	}
}
