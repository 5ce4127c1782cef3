package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL = "https://api.razorpay.com"
	DefaultTimeout = 10 * time.Second
)

type ClientConfig struct {
	KeyID  string
	Secret *Credential

	// Defaults to DefaultBaseURL.
	BaseURL string
	Timeout time.Duration

	// Wrapped with otelhttp. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// Client is a minimal Razorpay Orders API client.
type Client struct {
	keyID   string
	secret  *Credential
	timeout time.Duration
	rc      *resty.Client
	logger  *slog.Logger
}

// NewClient constructs a new Razorpay client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.KeyID) == "" || cfg.Secret.Empty() {
		return nil, errors.New("razorpay: key_id/key_secret are required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetTransport(otelhttp.NewTransport(transport)).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	logger.Info("Razorpay client initialized", "baseURL", baseURL, "timeout", timeout)
	return &Client{
		keyID:   cfg.KeyID,
		secret:  cfg.Secret,
		timeout: timeout,
		rc:      rc,
		logger:  logger,
	}, nil
}

// OrderRequest is the body of POST /v1/orders.
type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// CreateOrder creates an order and returns the gateway's order object as is.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	logger := c.logger.With("op", "CreateOrder", "receipt", req.Receipt)
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBasicAuth(c.keyID, string(c.secret.key())).
		SetBody(req).
		Post("/v1/orders")
	if err != nil {
		return nil, fmt.Errorf("razorpay: create order request: %w", err)
	}

	body := resp.Body()
	logger.Debug("create order response", "status", resp.Status(), "bytes", len(body))

	if !resp.IsSuccess() {
		return nil, newGatewayError(resp.StatusCode(), resp.Status(), body)
	}
	if !isJSONObject(body) {
		return nil, fmt.Errorf("razorpay: create order: response is not a JSON object")
	}
	return json.RawMessage(body), nil
}

func isJSONObject(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{' && json.Valid(b)
}
