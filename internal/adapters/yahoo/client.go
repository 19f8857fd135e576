package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/dcasim/internal/domain"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"

	// Yahoo no publica límites para el chart API sin autenticar;
	// 5 req/s con burst 2 es suficiente para un puñado de símbolos
	// y no llama la atención.
	defaultRatePerSec = 5
	defaultBurst      = 2

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Client es el HTTP client del chart API de Yahoo Finance, con rate
// limiting y retries. Implementa ports.SeriesProvider.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewClient crea un Client contra baseURL. Si baseURL está vacío usa el
// endpoint de producción. Si ratePerSec <= 0 usa el default conservador.
func NewClient(baseURL string, timeout time.Duration, ratePerSec float64) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if ratePerSec <= 0 {
		ratePerSec = defaultRatePerSec
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), defaultBurst),
	}
}

// FetchDailySeries obtiene los cierres diarios del símbolo en [from, to].
// Cualquier fallo del upstream o payload inusable envuelve
// domain.ErrDataUnavailable.
func (c *Client) FetchDailySeries(ctx context.Context, symbol string, from, to time.Time) (domain.PriceSeries, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		c.baseURL, url.PathEscape(symbol), from.Unix(), to.Unix())

	var resp chartResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("yahoo.FetchDailySeries: %s: %w: %w", symbol, domain.ErrDataUnavailable, err)
	}

	series, err := mapChartResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("yahoo.FetchDailySeries: %s: %w: %w", symbol, domain.ErrDataUnavailable, err)
	}

	slog.Debug("fetched daily series", "symbol", symbol, "points", len(series))
	return series, nil
}

// get hace un GET JSON con rate limiting y retries con backoff exponencial.
// 429 y 5xx se reintentan; 4xx es terminal.
func (c *Client) get(ctx context.Context, url string, out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "Mozilla/5.0 (dcasim)")

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			slog.Warn("rate limited by Yahoo Finance", "attempt", attempt+1)
			if attempt == maxRetries {
				return fmt.Errorf("rate limited after %d retries", maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
