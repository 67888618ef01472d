// Package ingest is the transport collaborator: a thin HTTP client for the
// FinBro data provider. It fetches raw metric records for a ticker and hands
// them to the validation pipeline. No retries, no caching, no pagination.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"finbro/pkg/core/pipeline"
	"finbro/pkg/core/validate"
	"finbro/pkg/models"
)

const (
	// DefaultBaseURL is the public FinBro API endpoint.
	DefaultBaseURL = "https://api.finbro.dev"
	// DefaultUserAgent identifies this client to the provider.
	DefaultUserAgent = "finbro-go/1.0"

	requestTimeout = 30 * time.Second
)

// HTTPClient describes an HTTP client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the FinBro API. The zero-option construction works
// against the public endpoint, so NewClient() alone is a usable client.
type Client struct {
	baseURL     string
	apiKey      string
	userAgent   string
	httpClient  HTTPClient
	validation  validate.Config
	parallelism int
	runner      *pipeline.Runner
}

// Option is a configuration option for the client.
type Option func(*Client)

// WithBaseURL points the client at a different API host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithAPIKey sets the bearer token sent with each request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithValidation selects the validation policy applied to fetched records.
// The default is strict.
func WithValidation(cfg validate.Config) Option {
	return func(c *Client) {
		c.validation = cfg
	}
}

// WithParallelism bounds the validation workers used per response.
func WithParallelism(n int) Option {
	return func(c *Client) {
		c.parallelism = n
	}
}

// NewClient creates a FinBro API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		userAgent:   DefaultUserAgent,
		httpClient:  &http.Client{Timeout: requestTimeout},
		validation:  validate.NewStrictConfig(),
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.runner = pipeline.NewRunner(c.validation)
	c.runner.SetParallelism(c.parallelism)
	return c
}

// GetFinancialMetrics retrieves every reported fiscal year for a ticker and
// returns the validated records in provider order. Any fatally rejected
// record fails the whole call; use GetFinancialMetricsReport when partial
// results and diagnostics are wanted instead.
func (c *Client) GetFinancialMetrics(ctx context.Context, ticker string) ([]models.FinancialMetric, error) {
	res, err := c.GetFinancialMetricsReport(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res.Records, nil
}

// GetFinancialMetricsReport retrieves and validates a ticker's records,
// returning the full batch result: validated records in provider order plus
// per-record failures and lenient-mode diagnostics.
func (c *Client) GetFinancialMetricsReport(ctx context.Context, ticker string) (*pipeline.Result, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" {
		return nil, fmt.Errorf("ticker must not be empty")
	}

	url := fmt.Sprintf("%s/v1/financials/%s", c.baseURL, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("FinBro API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FinBro API returned status %d for %s", resp.StatusCode, symbol)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	raws, err := DecodeMetricsPayload(string(body))
	if err != nil {
		return nil, fmt.Errorf("decoding response for %s: %w", symbol, err)
	}

	return c.runner.ValidateAll(ctx, raws)
}
