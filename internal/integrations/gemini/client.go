package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"bank-chat-gateway/internal/domain"
	"bank-chat-gateway/internal/integrations/paramstore"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.0-flash"

	// Sampling parameters are fixed for every request.
	Temperature = 0.7
	TopK        = 40
	TopP        = 0.95

	defaultTimeout = 10 * time.Second
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
	TopK        int     `json:"topK"`
	TopP        float64 `json:"topP"`
}

// generateRequest is the minimal request shape for generateContent.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

// generateResponse is the minimal response shape returned by generateContent.
type generateResponse struct {
	Candidates []struct {
		Content *content `json:"content"`
	} `json:"candidates"`
}

// HTTPStatusError captures non-2xx upstream responses.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("gemini: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// UpstreamMessage is the user-safe summary of the failure.
func (e *HTTPStatusError) UpstreamMessage() string {
	return fmt.Sprintf("LLM API error: %d", e.StatusCode)
}

// Client calls the Gemini generateContent endpoint.
type Client struct {
	baseURL string
	model   string
	http    *resty.Client
	getter  paramstore.Getter
	keyName string

	keyMu  sync.Mutex
	apiKey string
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if v := strings.TrimSpace(baseURL); v != "" {
			c.baseURL = v
		}
	}
}

func WithModel(model string) Option {
	return func(c *Client) {
		if v := strings.TrimSpace(model); v != "" {
			c.model = v
		}
	}
}

// WithTimeout bounds every outbound call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// NewClient creates a Client whose API key is resolved through g under keyName
// on first use and reused once a lookup succeeds. A nil getter is accepted;
// every call then fails with domain.ErrNotConfigured.
func NewClient(g paramstore.Getter, keyName string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		http: resty.New().
			SetTimeout(defaultTimeout).
			SetHeader("Content-Type", "application/json"),
		getter:  g,
		keyName: strings.TrimSpace(keyName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// resolveAPIKey returns the cached key or looks it up. Failed lookups are not
// cached. A missing getter or an empty value is a configuration error; any
// other lookup failure is reported as a transient upstream error.
func (c *Client) resolveAPIKey(ctx context.Context) (string, error) {
	if c.getter == nil {
		return "", fmt.Errorf("gemini: api key: %w", domain.ErrNotConfigured)
	}
	c.keyMu.Lock()
	defer c.keyMu.Unlock()

	if c.apiKey != "" {
		return c.apiKey, nil
	}
	key, err := paramstore.Token(ctx, c.getter, c.keyName)
	if errors.Is(err, paramstore.ErrEmptyValue) {
		return "", fmt.Errorf("gemini: api key: %w: %v", domain.ErrNotConfigured, err)
	}
	if err != nil {
		return "", fmt.Errorf("gemini: api key lookup: %w", err)
	}
	c.apiKey = key
	return key, nil
}

func generateURL(baseURL, model string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/v1beta") {
		base += "/v1beta"
	}
	return base + "/models/" + model + ":generateContent"
}

// Generate sends the ordered conversation to the model and returns the text of
// the first candidate. A response without that text yields an error wrapping
// domain.ErrMalformedResponse; transport and status failures do not.
func (c *Client) Generate(ctx context.Context, turns []domain.ContextTurn) (string, error) {
	if len(turns) == 0 {
		return "", errors.New("gemini: conversation must not be empty")
	}

	apiKey, err := c.resolveAPIKey(ctx)
	if err != nil {
		return "", err
	}

	url := generateURL(c.baseURL, c.model)
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", apiKey).
		SetBody(newGenerateRequest(turns)).
		Post(url)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	if !res.IsSuccess() {
		body := res.String()
		if len(body) > 4096 {
			body = body[:4096]
		}
		return "", fmt.Errorf("gemini: request failed: %w", &HTTPStatusError{
			StatusCode: res.StatusCode(),
			URL:        url,
			Body:       body,
		})
	}

	var payload generateResponse
	if err := json.Unmarshal(res.Body(), &payload); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w: %v", domain.ErrMalformedResponse, err)
	}
	return firstCandidateText(payload)
}

func newGenerateRequest(turns []domain.ContextTurn) generateRequest {
	contents := make([]content, 0, len(turns))
	for _, t := range turns {
		contents = append(contents, content{
			Role:  string(t.Speaker),
			Parts: []part{{Text: t.Text}},
		})
	}
	return generateRequest{
		Contents: contents,
		GenerationConfig: generationConfig{
			Temperature: Temperature,
			TopK:        TopK,
			TopP:        TopP,
		},
	}
}

func firstCandidateText(payload generateResponse) (string, error) {
	if len(payload.Candidates) == 0 {
		return "", fmt.Errorf("gemini: no candidates in response: %w", domain.ErrMalformedResponse)
	}
	first := payload.Candidates[0].Content
	if first == nil || len(first.Parts) == 0 {
		return "", fmt.Errorf("gemini: first candidate has no content parts: %w", domain.ErrMalformedResponse)
	}
	if first.Parts[0].Text == "" {
		return "", fmt.Errorf("gemini: first candidate part has no text: %w", domain.ErrMalformedResponse)
	}
	return first.Parts[0].Text, nil
}
