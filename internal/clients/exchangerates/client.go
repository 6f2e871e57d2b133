package exchangerates

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fintrackhq/fintrack/internal/apperrors"
	"github.com/fintrackhq/fintrack/internal/core/domain"
	"github.com/fintrackhq/fintrack/internal/core/ports"
	"github.com/shopspring/decimal"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultMaxAttempts    = 3
	defaultBackoffBase    = 2 * time.Second
)

// Config holds the settings for the external rate provider client.
type Config struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration // per-attempt timeout
	MaxAttempts    int           // hard retry ceiling
	BackoffBase    time.Duration // doubled before each retry (2s, 4s, 8s)
}

// Client calls the external exchange-rate service. It retries transient
// failures internally with exponential backoff and surfaces
// apperrors.ErrProvider once attempts are exhausted; cache fallback is the
// resolver's job, never the client's.
type Client struct {
	baseURL        string
	apiKey         string
	httpClient     *http.Client
	requestTimeout time.Duration
	maxAttempts    int
	backoffBase    time.Duration
	logger         *slog.Logger
}

// NewClient creates a rate provider client. A missing API key is a fatal
// configuration error, not a per-call failure.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: rate provider API key is not set", apperrors.ErrConfig)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: rate provider base URL is not set", apperrors.ErrConfig)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffBase
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:        cfg.BaseURL,
		apiKey:         cfg.APIKey,
		httpClient:     &http.Client{},
		requestTimeout: cfg.RequestTimeout,
		maxAttempts:    cfg.MaxAttempts,
		backoffBase:    cfg.BackoffBase,
		logger:         logger,
	}, nil
}

// Ensure Client implements the RateProvider port
var _ ports.RateProvider = (*Client)(nil)

// providerResponse is the wire shape shared by the latest and historical
// endpoints: a result flag plus a map of target currency to rate.
type providerResponse struct {
	Result          string                 `json:"result"`
	ErrorType       string                 `json:"error_type,omitempty"`
	ConversionRates map[string]json.Number `json:"conversion_rates"`
}

// FetchRate fetches the rate for one currency pair. A nil date or today's
// date routes to the latest endpoint; a past date routes to the historical
// endpoint for that calendar day.
func (c *Client) FetchRate(ctx context.Context, fromCode, toCode string, date *time.Time) (decimal.Decimal, error) {
	url := c.endpointURL(fromCode, date)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			// 2s, 4s, 8s for the default base
			backoff := c.backoffBase << (attempt - 2)
			c.logger.Warn("Rate provider attempt failed, backing off",
				slog.Int("attempt", attempt-1),
				slog.Duration("backoff", backoff),
				slog.String("error", lastErr.Error()))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrProvider, ctx.Err())
			}
		}

		rate, err := c.fetchOnce(ctx, url, toCode)
		if err == nil {
			return rate, nil
		}
		lastErr = err
	}

	return decimal.Zero, fmt.Errorf("%w: %d attempts exhausted: %v", apperrors.ErrProvider, c.maxAttempts, lastErr)
}

func (c *Client) endpointURL(baseCode string, date *time.Time) string {
	if date != nil {
		day := domain.DayOf(*date)
		if day.Before(domain.DayOf(time.Now())) {
			return fmt.Sprintf("%s/v6/%s/history/%s/%d/%d/%d",
				c.baseURL, c.apiKey, baseCode, day.Year(), int(day.Month()), day.Day())
		}
	}
	return fmt.Sprintf("%s/v6/%s/latest/%s", c.baseURL, c.apiKey, baseCode)
}

func (c *Client) fetchOnce(ctx context.Context, url, toCode string) (decimal.Decimal, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decimal.Zero, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	// json.Number keeps the provider's full precision until the decimal
	// conversion; float64 would not.
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var body providerResponse
	if err := dec.Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("malformed provider response: %w", err)
	}

	if body.Result != "success" {
		return decimal.Zero, fmt.Errorf("provider result %q (%s)", body.Result, body.ErrorType)
	}

	raw, ok := body.ConversionRates[toCode]
	if !ok {
		return decimal.Zero, fmt.Errorf("provider response has no rate for %s", toCode)
	}

	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("provider rate for %s is not numeric: %w", toCode, err)
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("provider rate for %s is not positive", toCode)
	}
	return rate, nil
}
