// Package workersai calls Cloudflare Workers AI text generation models.
package workersai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Ashenden365/mlb-hr-ai/external/provider"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/logging"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/metrics"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/resilience"
)

const (
	providerName   = "workersai"
	defaultBaseURL = "https://api.cloudflare.com/client/v4"
	DefaultModel   = "@cf/meta/llama-3-8b-instruct"
)

var ErrMissingCredentials = crerr.New("workers ai account id and token are required")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	AccountID      string
	Token          string
	Model          string
	Timeout        time.Duration
	Logger         *logging.Logger
	Metrics        metrics.Recorder
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	baseURL   string
	accountID string
	token     string
	model     string
	caller    *provider.Caller
}

// NewClient builds a client that makes a single attempt per Generate call;
// callers own the retry budget.
func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.Trim(strings.TrimSpace(cfg.Model), "/")
	if model == "" {
		model = DefaultModel
	}

	accountID := strings.TrimSpace(cfg.AccountID)
	token := strings.TrimSpace(cfg.Token)

	return &Client{
		baseURL:   baseURL,
		accountID: accountID,
		token:     token,
		model:     model,
		caller: provider.NewCaller(provider.Config{
			Name:           providerName,
			HTTPClient:     cfg.HTTPClient,
			Timeout:        cfg.Timeout,
			MaxRetries:     0,
			Logger:         cfg.Logger,
			Metrics:        cfg.Metrics,
			CircuitBreaker: cfg.CircuitBreaker,
			Secrets:        []string{accountID, token},
		}),
	}
}

func (c *Client) Model() string {
	return c.model
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type runRequest struct {
	Messages []message `json:"messages"`
}

type runResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Response string `json:"response"`
	} `json:"result"`
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Generate sends prompt as a single user message and returns the model's
// reply text. An empty reply is not an error.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.accountID == "" || c.token == "" {
		return "", ErrMissingCredentials
	}

	body, err := sonic.Marshal(runRequest{
		Messages: []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", crerr.Wrap(err, "marshal workers ai request")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("workersai.model", c.model),
			attribute.Int("workersai.prompt_length", len(prompt)),
		)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)
	header.Set("Content-Type", "application/json")
	header.Set("Accept", "application/json")

	raw, err := c.caller.Do(ctx, provider.Request{
		Operation: "run",
		Method:    http.MethodPost,
		URL:       c.baseURL + "/accounts/" + c.accountID + "/ai/run/" + c.model,
		Header:    header,
		Body:      body,
	})
	if err != nil {
		return "", err
	}

	var payload runResponse
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("decode workers ai response: %w", err)
	}
	if !payload.Success && len(payload.Errors) > 0 {
		return "", fmt.Errorf("workers ai error code=%d: %s", payload.Errors[0].Code, payload.Errors[0].Message)
	}
	return payload.Result.Response, nil
}
