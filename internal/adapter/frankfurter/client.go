// Package frankfurter provides the exchange-rate source backed by the
// frankfurter.app API
package frankfurter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
)

const (
	DefaultBaseURL = "https://api.frankfurter.app"
	DefaultTimeout = 10 * time.Second
)

// Client implements domain.RateSource against the frankfurter.app API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new frankfurter.app client
func NewClient(logger *slog.Logger, opts ...ClientOption) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a non-success response from the API
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("frankfurter API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// ratesResponse mirrors the fields read from the API payload
// Rates stay as json.Number so no precision is lost to float64
type ratesResponse struct {
	Base  string                 `json:"base"`
	Date  string                 `json:"date"`
	Rates map[string]json.Number `json:"rates"`
}

// FetchRates retrieves base → target multipliers for each target currency
// Logic:
//   - A zero asOf requests /latest; a dated request uses /YYYY-MM-DD, which
//     the API resolves to the closest prior banking day
//   - The base is never sent as its own target; with no other targets the
//     call is skipped entirely
func (c *Client) FetchRates(ctx context.Context, base domain.CurrencyCode, targets []domain.CurrencyCode, asOf time.Time) (map[domain.CurrencyCode]decimal.Decimal, error) {
	to := make([]string, 0, len(targets))
	for _, target := range targets {
		if target != base {
			to = append(to, string(target))
		}
	}
	if len(to) == 0 {
		return map[domain.CurrencyCode]decimal.Decimal{}, nil
	}

	path := "/latest"
	if !asOf.IsZero() {
		path = "/" + asOf.Format("2006-01-02")
	}

	params := url.Values{}
	params.Set("from", string(base))
	params.Set("to", strings.Join(to, ","))

	var payload ratesResponse
	if err := c.get(ctx, path, params, &payload); err != nil {
		return nil, err
	}

	rates := make(map[domain.CurrencyCode]decimal.Decimal, len(payload.Rates))
	for code, raw := range payload.Rates {
		rate, err := decimal.NewFromString(raw.String())
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate for %s: %w", code, err)
		}
		rates[domain.CurrencyCode(code)] = rate
	}

	return rates, nil
}

// get performs a GET request and decodes the JSON response into result
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug("frankfurter API request", slog.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
