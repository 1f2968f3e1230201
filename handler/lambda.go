package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

const correlationHeader = "X-Correlation-Id"

// Handler serves API Gateway proxy events with the same routes as NewRouter.
type Handler struct {
	chatter Chatter
	logger  *slog.Logger
}

func NewHandler(chatter Chatter) (*Handler, error) {
	if chatter == nil {
		return nil, errors.New("handler: chatter must not be nil")
	}
	return &Handler{chatter: chatter, logger: slog.Default()}, nil
}

func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	correlationID := headerValue(req.Headers, correlationHeader)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	logger := h.logger.With("correlation_id", correlationID)

	path := strings.TrimRight(req.Path, "/")
	switch {
	case req.HTTPMethod == http.MethodOptions:
		return respond(http.StatusNoContent, correlationID, "", ""), nil
	case req.HTTPMethod == http.MethodGet && strings.HasSuffix(path, "/health"):
		return respond(http.StatusOK, correlationID, "text/plain; charset=utf-8", HealthText), nil
	case req.HTTPMethod == http.MethodPost && strings.HasSuffix(path, "/chat"):
		body, err := requestBody(req)
		if err != nil {
			return respondJSONEvent(http.StatusBadRequest, correlationID, errorResponse{Error: msgInvalidBody}), nil
		}
		return h.chat(ctx, logger, correlationID, body), nil
	default:
		return respondJSONEvent(http.StatusNotFound, correlationID, errorResponse{Error: msgNotFound}), nil
	}
}

// requestBody returns the raw body, decoding it when API Gateway delivered it
// base64 encoded.
func requestBody(req events.APIGatewayProxyRequest) ([]byte, error) {
	if !req.IsBase64Encoded {
		return []byte(req.Body), nil
	}
	return base64.StdEncoding.DecodeString(req.Body)
}

func (h *Handler) chat(ctx context.Context, logger *slog.Logger, correlationID string, body []byte) events.APIGatewayProxyResponse {
	in, ok := decodeChatRequest(body)
	if !ok {
		return respondJSONEvent(http.StatusBadRequest, correlationID, errorResponse{Error: msgInvalidBody})
	}

	out, err := h.chatter.Chat(ctx, in)
	if err != nil {
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			logger.Error("chat failed", "err", err)
		}
		return respondJSONEvent(status, correlationID, errorResponse{Error: msg})
	}
	logger.Info("chat answered", "intent", string(out.Intent), "account_id", out.AccountID)
	return respondJSONEvent(http.StatusOK, correlationID, newChatResponse(out))
}

func respondJSONEvent(status int, correlationID string, payload any) events.APIGatewayProxyResponse {
	b, err := json.Marshal(payload)
	if err != nil {
		b, _ = json.Marshal(errorResponse{Error: msgInternal})
		status = http.StatusInternalServerError
	}
	return respond(status, correlationID, "application/json", string(b))
}

func respond(status int, correlationID, contentType, body string) events.APIGatewayProxyResponse {
	headers := map[string]string{
		correlationHeader:             correlationID,
		"Access-Control-Allow-Origin": "*",
	}
	if contentType != "" {
		headers["Content-Type"] = contentType
	}
	return events.APIGatewayProxyResponse{StatusCode: status, Headers: headers, Body: body}
}

func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
