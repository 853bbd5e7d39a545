// Package provider holds the HTTP plumbing shared by the upstream data
// clients: bounded retries with linear backoff, a circuit breaker, collapsing
// of identical in-flight GETs, call metrics and secret redaction.
package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/Ashenden365/mlb-hr-ai/internal/platform/logging"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/metrics"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/resilience"
	"github.com/Ashenden365/mlb-hr-ai/internal/usecase"
)

const (
	defaultTimeout   = 20 * time.Second
	maxResponseBytes = 16 << 20
	bodyPreviewLen   = 240
)

// ErrTransient marks failures worth retrying and counted by the breaker.
var ErrTransient = crerr.New("provider transient failure")

var bearerRegex = regexp.MustCompile(`(?i)bearer\s+[^\s"']+`)

type Config struct {
	// Name labels logs and metrics, e.g. "statsapi".
	Name           string
	HTTPClient     *http.Client
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	Metrics        metrics.Recorder
	CircuitBreaker resilience.CircuitBreakerConfig
	Clock          clockwork.Clock
	// Backoff returns the wait before retry attempt+1. Defaults to
	// (attempt+1) seconds.
	Backoff func(attempt int) time.Duration
	// Secrets are scrubbed from error text.
	Secrets []string
}

type Request struct {
	Operation string
	Method    string
	URL       string
	Header    http.Header
	Body      []byte
}

type Caller struct {
	name       string
	httpClient *http.Client
	maxRetries int
	logger     *logging.Logger
	metrics    metrics.Recorder
	breaker    *resilience.CircuitBreaker
	clock      clockwork.Clock
	backoff    func(int) time.Duration
	secrets    []string
	flight     singleflight.Group
}

func NewCaller(cfg Config) *Caller {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	backoff := cfg.Backoff
	if backoff == nil {
		backoff = func(attempt int) time.Duration {
			return time.Duration(attempt+1) * time.Second
		}
	}

	secrets := make([]string, 0, len(cfg.Secrets))
	for _, s := range cfg.Secrets {
		if s = strings.TrimSpace(s); s != "" {
			secrets = append(secrets, s)
		}
	}

	return &Caller{
		name:       cfg.Name,
		httpClient: httpClient,
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger.Named(cfg.Name),
		metrics:    cfg.Metrics,
		breaker:    resilience.NewCircuitBreaker(cfg.CircuitBreaker, clock),
		clock:      clock,
		backoff:    backoff,
		secrets:    secrets,
	}
}

func (c *Caller) BreakerState() resilience.CircuitState {
	return c.breaker.State()
}

// Do sends req and returns the 2xx body. GETs for the same URL that overlap
// in time share one upstream call.
func (c *Caller) Do(ctx context.Context, req Request) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "circuit breaker rejected request",
			"operation", req.Operation,
			"state", c.breaker.State(),
		)
		return nil, fmt.Errorf("%w: %s is temporarily unavailable", usecase.ErrDependencyUnavailable, c.name)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	if method != http.MethodGet {
		return payload(c.run(ctx, method, req))
	}

	// Shared GETs run detached from the first caller's cancellation, bounded
	// by the retry budget.
	results := c.flight.DoChan(req.URL, func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.retryBudget())
		defer cancel()
		return c.run(flightCtx, method, req)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		return payload(res.Val, res.Err)
	}
}

func (c *Caller) run(ctx context.Context, method string, req Request) (any, error) {
	raw, err := c.execute(ctx, method, req)
	c.breaker.Record(err, IsTransient)
	return raw, err
}

// retryBudget is the longest a call can take: every attempt timing out plus
// the backoff between them.
func (c *Caller) retryBudget() time.Duration {
	budget := time.Duration(c.maxRetries+1) * c.httpClient.Timeout
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		budget += c.backoff(attempt)
	}
	return budget
}

func payload(out any, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Caller) execute(ctx context.Context, method string, req Request) ([]byte, error) {
	started := c.clock.Now()
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, status, err := c.attempt(ctx, method, req)
		if c.metrics != nil {
			c.metrics.ObserveOutbound(c.name, req.Operation, status, c.clock.Since(started))
		}
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !IsTransient(err) {
			return nil, err
		}

		if attempt == c.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.clock.After(c.backoff(attempt)):
		}
	}

	c.logger.WarnContext(ctx, "provider request failed",
		"operation", req.Operation,
		"url", c.Sanitize(req.URL),
		"error", lastErr,
	)
	return nil, lastErr
}

func (c *Caller) attempt(ctx context.Context, method string, req Request) ([]byte, int, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, 0, ctxErr
		}
		return nil, 0, fmt.Errorf("%w: send request: %s", ErrTransient, c.Sanitize(err.Error()))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response body: %v", ErrTransient, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, resp.StatusCode, nil
	}
	if IsRetryableStatus(resp.StatusCode) {
		return nil, resp.StatusCode, fmt.Errorf("%w: provider status=%d body=%s", ErrTransient, resp.StatusCode, c.Sanitize(AbbreviateBody(raw)))
	}
	return nil, resp.StatusCode, &StatusError{StatusCode: resp.StatusCode, Body: c.Sanitize(AbbreviateBody(raw))}
}

// Sanitize removes configured secrets and bearer tokens from text.
func (c *Caller) Sanitize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	for _, s := range c.secrets {
		value = strings.ReplaceAll(value, s, "REDACTED")
	}
	return bearerRegex.ReplaceAllString(value, "Bearer REDACTED")
}

// StatusError is a non-retryable, non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider status=%d body=%s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return crerr.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

func IsTransient(err error) bool {
	return err != nil && crerr.Is(err, ErrTransient)
}

func IsRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func AbbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= bodyPreviewLen {
		return text
	}
	return text[:bodyPreviewLen] + "..."
}
