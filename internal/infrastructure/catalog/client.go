package catalog

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

	"golang.org/x/time/rate"

	"github.com/labelcheck/backend/internal/domain"
)

const (
	defaultRequestsPerMinute = 120
	defaultBurst             = 10
	defaultTimeout           = 15 * time.Second
	maxAttempts              = 3
)

// ClientConfig configures the remote catalog client
type ClientConfig struct {
	BaseURL           string
	APIKey            string
	RequestsPerMinute int
	Timeout           time.Duration
	Logger            *slog.Logger
}

// Client reads products from a remote catalog service over HTTP
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	backoffBase time.Duration
	debug       bool
	logger      *slog.Logger
}

// productsResponse is the catalog service list envelope
type productsResponse struct {
	Products []domain.Product `json:"products"`
}

// NewClient creates a new catalog API client
func NewClient(config ClientConfig) *Client {
	perMinute := config.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = defaultRequestsPerMinute
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// rate.Limit is requests per second
	limiter := rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), defaultBurst)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:      config.APIKey,
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		rateLimiter: limiter,
		backoffBase: 500 * time.Millisecond,
		logger:      logger.With("component", "catalog-client"),
	}
}

// SetDebug toggles request level logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// FindByBarcode returns the product registered under barcode
func (c *Client) FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	params := url.Values{}
	params.Add("barcode", barcode)

	resp, err := c.getProducts(ctx, params)
	if err != nil {
		return nil, err
	}

	for i := range resp.Products {
		if resp.Products[i].Barcode == barcode {
			product := resp.Products[i]
			return &product, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

// ListWithIngredients returns every product that declares expected ingredients
func (c *Client) ListWithIngredients(ctx context.Context) ([]domain.Product, error) {
	params := url.Values{}
	params.Add("has_ingredients", "true")

	resp, err := c.getProducts(ctx, params)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(resp.Products))
	for _, product := range resp.Products {
		if product.HasIngredients() {
			products = append(products, product)
		}
	}
	return products, nil
}

// ListProducts returns the whole catalog
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	resp, err := c.getProducts(ctx, nil)
	if err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// getProducts queries the products endpoint, retrying transient failures
func (c *Client) getProducts(ctx context.Context, params url.Values) (*productsResponse, error) {
	reqURL := c.baseURL + "/products"
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, status, err := c.doRequest(ctx, reqURL)
		if err != nil {
			c.logger.Warn("catalog request failed", "attempt", attempt, "error", err)
			lastErr = err
		} else {
			switch {
			case status == http.StatusOK:
				var decoded productsResponse
				if err := json.Unmarshal(body, &decoded); err != nil {
					return nil, fmt.Errorf("failed to decode response: %w", err)
				}
				if c.debug {
					c.logger.Debug("catalog response", "url", reqURL, "products", len(decoded.Products))
				}
				return &decoded, nil
			case status == http.StatusNotFound:
				return nil, domain.ErrProductNotFound
			case status == http.StatusTooManyRequests:
				lastErr = domain.ErrRateLimited
			case status >= 500:
				lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogFailure, status)
			default:
				// Other client errors will not succeed on retry
				return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrCatalogFailure, status, string(body))
			}
			c.logger.Warn("catalog API error", "attempt", attempt, "status", status)
		}

		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff(attempt)):
			}
		}
	}

	return nil, lastErr
}

// doRequest executes an HTTP GET request and reads the full body
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "LabelCheck/1.0")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrCatalogFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read body: %v", domain.ErrCatalogFailure, err)
	}
	return body, resp.StatusCode, nil
}

// backoff doubles the wait after each failed attempt
func (c *Client) backoff(attempt int) time.Duration {
	return exponentialBackoff(c.backoffBase, attempt)
}

func exponentialBackoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base * time.Duration(1<<(attempt-1))
}
