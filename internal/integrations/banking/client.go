package banking

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"bank-chat-gateway/internal/domain"
)

const (
	defaultTimeout = 10 * time.Second
	statusSuccess  = "success"

	balancePath      = "/account-balance/{accountId}"
	transactionsPath = "/transaction-history/{accountId}"
	accountsPath     = "/accounts"
)

// envelope is the response wrapper used by every banking endpoint.
type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// UpstreamError is returned for transport failures and non-success responses.
// StatusCode is zero when no response was received.
type UpstreamError struct {
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("banking: request to %s failed: %v", e.Endpoint, e.Err)
	case e.Message != "":
		return fmt.Sprintf("banking: unexpected status %d from %s: %s", e.StatusCode, e.Endpoint, e.Message)
	default:
		return fmt.Sprintf("banking: unexpected status %d from %s", e.StatusCode, e.Endpoint)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the upstream status, or zero for transport failures.
func (e *UpstreamError) HTTPStatusCode() int {
	return e.StatusCode
}

// UpstreamMessage returns the message the banking service put in its error body.
func (e *UpstreamError) UpstreamMessage() string {
	return e.Message
}

// Client is a read-only client for the banking data service.
type Client struct {
	baseURL string
	http    *resty.Client
}

type Option func(*Client)

// WithTimeout bounds every outbound call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// NewClient creates a Client for baseURL. An empty baseURL is accepted; every
// call then fails with domain.ErrNotConfigured without touching the network.
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	c := &Client{
		baseURL: baseURL,
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(defaultTimeout).
			SetHeader("Accept", "application/json"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AccountBalance fetches a single account, which also carries its balance.
func (c *Client) AccountBalance(ctx context.Context, accountID string) (domain.BankingResponse[domain.Account], error) {
	return get[domain.Account](ctx, c, balancePath, accountID)
}

// TransactionHistory fetches the transactions of one account.
func (c *Client) TransactionHistory(ctx context.Context, accountID string) (domain.BankingResponse[[]domain.Transaction], error) {
	return get[[]domain.Transaction](ctx, c, transactionsPath, accountID)
}

// ListAccounts fetches every account known to the service.
func (c *Client) ListAccounts(ctx context.Context) (domain.BankingResponse[[]domain.Account], error) {
	return get[[]domain.Account](ctx, c, accountsPath, "")
}

func get[T any](ctx context.Context, c *Client, path, accountID string) (domain.BankingResponse[T], error) {
	var out domain.BankingResponse[T]
	if c.baseURL == "" {
		return out, fmt.Errorf("banking: base URL: %w", domain.ErrNotConfigured)
	}

	req := c.http.R().SetContext(ctx)
	if accountID != "" {
		req.SetPathParam("accountId", accountID)
	}
	res, err := req.Get(path)
	if err != nil {
		return out, &UpstreamError{Endpoint: path, Err: err}
	}

	body := res.Body()
	if json.Valid(body) {
		out.Raw = json.RawMessage(body)
	}

	var env envelope
	decErr := json.Unmarshal(body, &env)
	if !res.IsSuccess() {
		return out, &UpstreamError{StatusCode: res.StatusCode(), Endpoint: path, Message: env.Message}
	}
	if decErr != nil {
		return out, &UpstreamError{StatusCode: res.StatusCode(), Endpoint: path, Err: fmt.Errorf("decode envelope: %w", decErr)}
	}
	if env.Status != statusSuccess {
		return out, &UpstreamError{StatusCode: res.StatusCode(), Endpoint: path, Message: env.Message}
	}
	if err := json.Unmarshal(env.Data, &out.Data); err != nil {
		return out, &UpstreamError{StatusCode: res.StatusCode(), Endpoint: path, Err: fmt.Errorf("decode data: %w", err)}
	}
	return out, nil
}
