package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/checkout-service/internal"
	paymentgatewaytypes "github.com/frahmantamala/checkout-service/internal/core/datamodel/paymentgateway"
)

const maxResponseBytes = 1 << 20

type Config struct {
	BaseURL string
	KeyID   string
	Secret  string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	keyID      string
	secret     string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = internal.DefaultGatewayTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		keyID:   config.KeyID,
		secret:  config.Secret,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// CreateOrder performs a single POST /v1/orders call. It never retries.
func (c *Client) CreateOrder(ctx context.Context, opts *paymentgatewaytypes.OrderOptions) (*paymentgatewaytypes.Order, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	body, err := json.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + "/v1/orders"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.SetBasicAuth(c.keyID, c.secret)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Info("sending order request",
		"url", url,
		"amount", opts.Amount,
		"currency", opts.Currency,
		"receipt", opts.Receipt)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			c.logger.Error("order request timed out", "error", err, "receipt", opts.Receipt, "timeout", c.timeout)
			return nil, fmt.Errorf("%w: %v", paymentgatewaytypes.ErrGatewayTimeout, err)
		}
		c.logger.Error("order request failed", "error", err, "receipt", opts.Receipt)
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		gatewayErr := decodeError(resp.StatusCode, respBody)
		c.logger.Error("gateway returned error",
			"status", resp.StatusCode,
			"code", gatewayErr.Code,
			"description", gatewayErr.Description,
			"field", gatewayErr.Field,
			"response", string(respBody),
			"receipt", opts.Receipt)
		return nil, gatewayErr
	}

	var order paymentgatewaytypes.Order
	if err := json.Unmarshal(respBody, &order); err != nil {
		c.logger.Error("failed to decode order response", "error", err, "response", string(respBody))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Info("order created by gateway",
		"order_id", order.ID,
		"status", order.Status,
		"duration_ms", time.Since(start).Milliseconds())

	return &order, nil
}

func decodeError(status int, body []byte) *paymentgatewaytypes.GatewayError {
	var payload paymentgatewaytypes.ErrorResponse
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error.Description == "" {
		return &paymentgatewaytypes.GatewayError{
			StatusCode:  status,
			Code:        payload.Error.Code,
			Description: http.StatusText(status),
		}
	}
	payload.Error.StatusCode = status
	return &payload.Error
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
