package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mmcdole/coinboard/internal/domain"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL  = "https://api.coingecko.com/api/v3"
	defaultTimeout  = 30 * time.Second
	apiKeyHeader    = "x-cg-demo-api-key"
	marketsPath     = "/coins/markets"
	vsCurrency      = "usd"
	orderMarketCap  = "market_cap_desc"
	maxErrorBodyLen = 512
)

// Options configures a Client
type Options struct {
	BaseURL           string
	APIKey            string // optional demo key
	Timeout           time.Duration
	Transport         http.RoundTripper // nil uses http.DefaultTransport
	RequestsPerMinute int               // 0 disables client-side limiting
}

// Client implements domain.MarketRepository for the CoinGecko API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a new CoinGecko API client
func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	return &Client{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		limiter: limiter,
		logger:  logger,
	}
}

// MarketsURL builds the markets request URL for a page
func (c *Client) MarketsURL(page, perPage int) string {
	query := url.Values{}
	query.Set("vs_currency", vsCurrency)
	query.Set("order", orderMarketCap)
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("page", strconv.Itoa(page))
	query.Set("sparkline", "true")
	return fmt.Sprintf("%s%s?%s", c.baseURL, marketsPath, query.Encode())
}

// doRequest performs a GET and returns the body of a 200 response
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	// Waiting on the limiter never touches the network, so its failures
	// surface as context errors rather than ErrNetwork
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, errors.Wrap(ctxErr, "rate limiter")
			}
			return nil, errors.Wrapf(context.DeadlineExceeded, "rate limiter: %v", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", domain.AppManifest.UserAgent())
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	c.logger.Debug("coingecko request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			c.logger.Debug("coingecko request abandoned", "url", reqURL)
			return nil, errors.Wrap(context.Canceled, "request abandoned")
		}
		c.logger.Error("coingecko request failed", "error", err)
		return nil, errors.Wrapf(domain.ErrNetwork, "GET %s: %v", marketsPath, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrNetwork, "failed to read response: %v", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		c.logger.Warn("coingecko rate limit reached", "retryAfter", resp.Header.Get("Retry-After"))
		return nil, errors.Wrap(domain.ErrNetwork, "rate limited (429)")
	}

	if resp.StatusCode != http.StatusOK {
		snippet := body
		if len(snippet) > maxErrorBodyLen {
			snippet = snippet[:maxErrorBodyLen]
		}
		c.logger.Error("coingecko request error", "status", resp.StatusCode, "body", string(snippet))
		return nil, errors.Wrapf(domain.ErrNetwork, "unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}

// GetMarkets returns one page of coins ordered by market cap
func (c *Client) GetMarkets(ctx context.Context, page, perPage int) ([]domain.Coin, error) {
	if page < 1 {
		return nil, domain.ErrInvalidPage
	}

	body, err := c.doRequest(ctx, c.MarketsURL(page, perPage))
	if err != nil {
		return nil, err
	}

	var dtos []MarketDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, errors.Wrapf(domain.ErrParse, "failed to parse response: %v", err)
	}

	coins, err := MapCoins(dtos)
	if err != nil {
		c.logger.Error("schema rejected response", "page", page, "error", err)
		return nil, errors.Wrapf(domain.ErrParse, "%v", err)
	}

	c.logger.Debug("fetched markets", "page", page, "count", len(coins))
	return coins, nil
}
