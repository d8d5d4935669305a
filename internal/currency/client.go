package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	redisadapter "github.com/robertarktes/travel-reservations/internal/adapters/redis"
	"github.com/robertarktes/travel-reservations/internal/domain"
	"github.com/robertarktes/travel-reservations/internal/observability"
)

const (
	baseCurrency = "USD"
	cacheTTL     = time.Hour
)

// Client fetches USD conversion rates from the exchange-rate collaborator.
// Rates are cached in redis; the converted price is display-only and never
// persisted.
type Client struct {
	http    *http.Client
	baseURL string
	cache   *redisadapter.Cache
	logger  observability.Logger
}

func NewClient(baseURL string, cache *redisadapter.Cache, logger observability.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		cache:   cache,
		logger:  logger,
	}
}

type ratesResponse struct {
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// Rate returns the multiplier from USD to the given currency code. An
// unknown code is InvalidInput; a collaborator failure is Upstream.
func (c *Client) Rate(ctx context.Context, code string) (float64, error) {
	if code == "" {
		return 0, errors.Wrap(domain.ErrInvalidInput, "currency code is required")
	}

	cacheKey := "fx:" + baseCurrency + ":" + code
	if cached, found, err := c.cache.GetString(ctx, cacheKey); err == nil && found {
		if rate, err := strconv.ParseFloat(cached, 64); err == nil {
			return rate, nil
		}
	}

	rates, err := c.fetch(ctx)
	if err != nil {
		return 0, err
	}
	rate, ok := rates[code]
	if !ok {
		return 0, errors.Wrap(domain.ErrInvalidInput, "invalid currency code")
	}

	if err := c.cache.SetString(ctx, cacheKey, strconv.FormatFloat(rate, 'f', -1, 64), cacheTTL); err != nil {
		c.logger.Debug("failed to cache currency rate", err)
	}
	return rate, nil
}

func (c *Client) fetch(ctx context.Context) (map[string]float64, error) {
	url := fmt.Sprintf("%s/latest/%s", c.baseURL, baseCurrency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Mark(errors.Newf("currency api returned %d", resp.StatusCode), domain.ErrUpstream)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	if body.ConversionRates == nil {
		return nil, errors.Mark(errors.New("currency api response missing conversion_rates"), domain.ErrUpstream)
	}
	return body.ConversionRates, nil
}

// Convert rounds to two decimal places for display.
func Convert(amount, rate float64) float64 {
	return float64(int64(amount*rate*100+0.5)) / 100
}
