package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/require"

	"bank-chat-gateway/internal/usecase"
)

type stubChatter struct {
	out   usecase.ChatOutput
	err   error
	in    usecase.ChatInput
	calls int
}

func (s *stubChatter) Chat(_ context.Context, in usecase.ChatInput) (usecase.ChatOutput, error) {
	s.calls++
	s.in = in
	return s.out, s.err
}

func makeEvent(body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/chat",
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}

func parseBody[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

func TestNewHandler_ValidatesDependency(t *testing.T) {
	_, err := NewHandler(nil)
	require.Error(t, err)
}

func TestHandle_HappyPath(t *testing.T) {
	uc := &stubChatter{out: usecase.ChatOutput{
		Response:    "Your account 67890 balance is: 45000 USD.",
		BankingData: json.RawMessage(`{"status":"success"}`),
	}}
	h, err := NewHandler(uc)
	require.NoError(t, err)

	resp, err := h.Handle(context.Background(), makeEvent(`{"userId":"u1","message":"What is my balance for 67890?"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, usecase.ChatInput{UserID: "u1", Message: "What is my balance for 67890?"}, uc.in)

	out := parseBody[chatResponse](t, resp.Body)
	require.Equal(t, "Your account 67890 balance is: 45000 USD.", out.Response)
	require.JSONEq(t, `{"status":"success"}`, string(out.BankingData))
	require.NotEmpty(t, resp.Headers["X-Correlation-Id"])
}

func TestHandle_NullBankingData(t *testing.T) {
	h, err := NewHandler(&stubChatter{out: usecase.ChatOutput{Response: "Hello!"}})
	require.NoError(t, err)

	resp, err := h.Handle(context.Background(), makeEvent(`{"userId":"u1","message":"hi there"}`))
	require.NoError(t, err)
	require.JSONEq(t, `{"response":"Hello!","bankingData":null}`, resp.Body)
}

func TestHandle_InvalidBody(t *testing.T) {
	uc := &stubChatter{}
	h, err := NewHandler(uc)
	require.NoError(t, err)

	resp, err := h.Handle(context.Background(), makeEvent(`not-json`))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, msgInvalidBody, parseBody[errorResponse](t, resp.Body).Error)
	require.Zero(t, uc.calls)
}

func TestHandle_MapsUseCaseErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{name: "validation", err: &usecase.Error{Code: usecase.ErrorValidation, Reason: "missing_user_id_or_message", Message: "User ID and message are required."}, status: http.StatusBadRequest, msg: "User ID and message are required."},
		{name: "validation without message", err: &usecase.Error{Code: usecase.ErrorValidation}, status: http.StatusBadRequest, msg: msgMissingRequest},
		{name: "configuration", err: &usecase.Error{Code: usecase.ErrorConfiguration, Reason: "llm_error", Err: errors.New("gemini: api key: secret detail")}, status: http.StatusInternalServerError, msg: msgNotConfigured},
		{name: "internal", err: &usecase.Error{Code: usecase.ErrorInternal, Reason: "boom"}, status: http.StatusInternalServerError, msg: msgInternal},
		{name: "unexpected", err: errors.New("boom"), status: http.StatusInternalServerError, msg: msgInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := NewHandler(&stubChatter{err: tc.err})
			require.NoError(t, err)

			resp, err := h.Handle(context.Background(), makeEvent(`{"userId":"u1","message":"hi"}`))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
			require.Equal(t, tc.msg, parseBody[errorResponse](t, resp.Body).Error)
		})
	}
}

func TestHandle_UsesProvidedCorrelationID_CaseInsensitive(t *testing.T) {
	h, err := NewHandler(&stubChatter{out: usecase.ChatOutput{Response: "ok"}})
	require.NoError(t, err)

	event := makeEvent(`{"userId":"u1","message":"hi"}`)
	event.Headers["x-correlation-id"] = "corr-123"
	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "corr-123", resp.Headers["X-Correlation-Id"])
}

func TestHandle_Routes(t *testing.T) {
	uc := &stubChatter{}
	h, err := NewHandler(uc)
	require.NoError(t, err)

	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/prod/health"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, HealthText, resp.Body)

	resp, err = h.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/chat"})
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Zero(t, uc.calls)
}

func TestHandle_Base64Body(t *testing.T) {
	uc := &stubChatter{out: usecase.ChatOutput{Response: "ok"}}
	h, err := NewHandler(uc)
	require.NoError(t, err)

	event := makeEvent(base64.StdEncoding.EncodeToString([]byte(`{"userId":"u1","message":"hi there"}`)))
	event.IsBase64Encoded = true
	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, usecase.ChatInput{UserID: "u1", Message: "hi there"}, uc.in)

	event = makeEvent("%%%not-base64")
	event.IsBase64Encoded = true
	resp, err = h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
