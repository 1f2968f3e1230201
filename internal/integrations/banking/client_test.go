package banking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bank-chat-gateway/internal/domain"
)

func newServer(t *testing.T, status int, body string, gotPath *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotPath != nil {
			*gotPath = r.URL.Path
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAccountBalance_HappyPath(t *testing.T) {
	var path string
	srv := newServer(t, http.StatusOK, `{"status":"success","data":{"accountId":"67890","accountName":"John Doe Savings","balance":45000.0,"currency":"USD","type":"Savings"}}`, &path)

	out, err := NewClient(srv.URL).AccountBalance(context.Background(), "67890")
	require.NoError(t, err)
	require.Equal(t, "/account-balance/67890", path)
	require.Equal(t, "67890", out.Data.AccountID)
	require.Equal(t, "45000", out.Data.Balance.String())
	require.Equal(t, "USD", out.Data.Currency)
	require.JSONEq(t, `{"status":"success","data":{"accountId":"67890","accountName":"John Doe Savings","balance":45000.0,"currency":"USD","type":"Savings"}}`, string(out.Raw))
}

func TestTransactionHistory_HappyPath(t *testing.T) {
	var path string
	srv := newServer(t, http.StatusOK, `{"status":"success","data":[{"id":"t005","date":"2024-06-29","description":"Interest Earned","amount":12.5,"type":"credit"},{"id":"t006","date":"2024-06-20","description":"Transfer to Checking","amount":-1000.0,"type":"debit"}]}`, &path)

	out, err := NewClient(srv.URL+"/").TransactionHistory(context.Background(), "67890")
	require.NoError(t, err)
	require.Equal(t, "/transaction-history/67890", path)
	require.Len(t, out.Data, 2)
	require.Equal(t, "12.5", out.Data[0].Amount.String())
	require.Equal(t, "-1000", out.Data[1].Amount.String())
}

func TestListAccounts_HappyPath(t *testing.T) {
	var path string
	srv := newServer(t, http.StatusOK, `{"status":"success","data":[{"accountId":"12345"},{"accountId":"67890"}]}`, &path)

	out, err := NewClient(srv.URL).ListAccounts(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/accounts", path)
	require.Len(t, out.Data, 2)
}

func TestAccountBalance_NotFoundCarriesUpstreamMessage(t *testing.T) {
	srv := newServer(t, http.StatusNotFound, `{"status":"error","message":"Account not found."}`, nil)

	out, err := NewClient(srv.URL).AccountBalance(context.Background(), "00000")
	require.Error(t, err)

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	require.Equal(t, http.StatusNotFound, upErr.HTTPStatusCode())
	require.Equal(t, "Account not found.", upErr.UpstreamMessage())
	require.NotEmpty(t, out.Raw)
}

func TestAccountBalance_ErrorStatusInSuccessfulResponse(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"status":"error","message":"maintenance"}`, nil)

	_, err := NewClient(srv.URL).AccountBalance(context.Background(), "12345")
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	require.Equal(t, "maintenance", upErr.UpstreamMessage())
}

func TestAccountBalance_NonJSONBody(t *testing.T) {
	srv := newServer(t, http.StatusBadGateway, `<html>bad gateway</html>`, nil)

	out, err := NewClient(srv.URL).AccountBalance(context.Background(), "12345")
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	require.Equal(t, http.StatusBadGateway, upErr.StatusCode)
	require.Empty(t, upErr.UpstreamMessage())
	require.Nil(t, out.Raw)
}

func TestAccountBalance_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).AccountBalance(context.Background(), "12345")
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	require.Zero(t, upErr.HTTPStatusCode())
	require.Empty(t, upErr.UpstreamMessage())
	require.Error(t, errors.Unwrap(err))
}

func TestAccountBalance_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, WithTimeout(50*time.Millisecond)).AccountBalance(context.Background(), "12345")
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	require.Zero(t, upErr.StatusCode)
}

func TestClient_NotConfigured(t *testing.T) {
	_, err := NewClient(" ").ListAccounts(context.Background())
	require.ErrorIs(t, err, domain.ErrNotConfigured)
}
