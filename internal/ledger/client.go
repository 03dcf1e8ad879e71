package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nursyahid/dapur-ledger/internal/common"
	"github.com/nursyahid/dapur-ledger/internal/model"
)

// Config holds ledger service configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("ledger base URL is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid ledger base URL: %w", err)
	}
	if c.APIKey == "" {
		return fmt.Errorf("ledger API key is required")
	}
	return nil
}

// Client implements the Service interface over HTTP.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	retryOpts  common.RetryOptions
	baseURL    string
	apiKey     string
}

// NewClient creates a new ledger client with the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default().With("component", "ledger"),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		retryOpts: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// SearchProducts queries the catalog, optionally scoped to one trading unit.
func (c *Client) SearchProducts(ctx context.Context, query, tradingUnitID string) ([]model.Product, error) {
	q := url.Values{}
	if query != "" {
		q.Set("query", query)
	}
	if tradingUnitID != "" {
		q.Set("trading_unit_id", tradingUnitID)
	}

	var out []model.Product
	if err := c.doJSON(ctx, http.MethodGet, "/v1/products", q, nil, &out); err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return out, nil
}

// CreateProduct adds a new catalog entry under a trading unit.
func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest) (*model.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if req.TradingUnitID == "" {
		return nil, fmt.Errorf("trading unit ID is required")
	}

	var out model.Product
	if err := c.doJSONOnce(ctx, http.MethodPost, "/v1/products", nil, req, &out); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	c.logger.Info("Created product",
		"product_id", out.ID,
		"name", out.Name,
		"trading_unit_id", out.TradingUnitID)
	return &out, nil
}

// CreateTransaction creates a draft transaction with its line items.
func (c *Client) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*model.Transaction, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("transaction needs at least one line")
	}

	var out model.Transaction
	if err := c.doJSONOnce(ctx, http.MethodPost, "/v1/transactions", nil, req, &out); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return &out, nil
}

// CompleteTransaction finalizes a draft transaction.
func (c *Client) CompleteTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if id == "" {
		return nil, fmt.Errorf("transaction ID is required")
	}

	var out model.Transaction
	path := fmt.Sprintf("/v1/transactions/%s/complete", url.PathEscape(id))
	if err := c.doJSON(ctx, http.MethodPost, path, nil, nil, &out); err != nil {
		return nil, fmt.Errorf("complete transaction %s: %w", id, err)
	}
	return &out, nil
}

// ListTransactions fetches transactions matching the filter, lines included.
func (c *Client) ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error) {
	q := url.Values{}
	if filter.PeriodID != "" {
		q.Set("period_id", filter.PeriodID)
	}
	if filter.LocationID != "" {
		q.Set("location_id", filter.LocationID)
	}
	if filter.From != nil {
		q.Set("from", filter.From.Format("2006-01-02"))
	}
	if filter.To != nil {
		q.Set("to", filter.To.Format("2006-01-02"))
	}

	var out []model.Transaction
	if err := c.doJSON(ctx, http.MethodGet, "/v1/transactions", q, nil, &out); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

// GetTransactionByID fetches one transaction with enriched lines.
func (c *Client) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if id == "" {
		return nil, fmt.Errorf("transaction ID is required")
	}

	var out model.Transaction
	path := fmt.Sprintf("/v1/transactions/%s", url.PathEscape(id))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return &out, nil
}

// ListTradingUnits fetches the supplier reference list.
func (c *Client) ListTradingUnits(ctx context.Context) ([]model.TradingUnit, error) {
	var out []model.TradingUnit
	if err := c.doJSON(ctx, http.MethodGet, "/v1/trading-units", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list trading units: %w", err)
	}
	return out, nil
}

// ListPeriods fetches the reporting periods.
func (c *Client) ListPeriods(ctx context.Context) ([]model.Period, error) {
	var out []model.Period
	if err := c.doJSON(ctx, http.MethodGet, "/v1/periods", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	return out, nil
}

// doJSON performs one JSON round trip with retry on transport errors and
// retryable statuses. Only use it for requests that are safe to replay.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.do(ctx, method, path, query, body, out, true)
}

// doJSONOnce is doJSON for non-idempotent creates. A dropped connection or a
// 5xx does not prove the server failed to persist, so the request is never
// replayed; only rate-limit rejections, which the server refuses before
// processing, still retry.
func (c *Client) doJSONOnce(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.do(ctx, method, path, query, body, out, false)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, idempotent bool) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	return common.WithRetry(ctx, func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return &common.RetryableError{Err: err, Retryable: false}
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &common.RetryableError{
				Err:       fmt.Errorf("%w: %v", common.ErrLedgerConnection, err),
				Retryable: idempotent,
			}
		}
		defer func() {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return &common.RetryableError{Err: common.ErrNotFound, Retryable: false}
		case resp.StatusCode == http.StatusTooManyRequests:
			return common.ErrRateLimit
		case resp.StatusCode >= 500:
			return &common.RetryableError{
				Err:       fmt.Errorf("%w: status %d", common.ErrLedgerConnection, resp.StatusCode),
				Retryable: idempotent,
			}
		case resp.StatusCode >= 400:
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return &common.RetryableError{
				Err:       fmt.Errorf("%w: status %d: %s", common.ErrLedgerRejected, resp.StatusCode, strings.TrimSpace(string(msg))),
				Retryable: false,
			}
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &common.RetryableError{Err: fmt.Errorf("decode response: %w", err), Retryable: false}
		}
		return nil
	}, c.retryOpts)
}
