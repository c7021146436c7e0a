package checkout

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ashendes/crypto-storefront/internal/metrics"
	"github.com/ashendes/crypto-storefront/internal/models"
	"github.com/ashendes/crypto-storefront/internal/patterns"
	"github.com/ashendes/crypto-storefront/internal/telemetry"
)

const (
	// OrdersPath is the dated order-creation endpoint
	OrdersPath = "/api/2022-06-09/orders"

	apiKeyHeader   = "X-API-KEY"
	providerName   = "crossmint"
	defaultFailure = "Failed to create checkout session"
)

// ErrAPIKeyMissing is returned when no provider key is configured
var ErrAPIKeyMissing = errors.New("checkout API key not configured")

var errServerStatus = errors.New("checkout provider server error")

// UpstreamError is a non-success reply from the checkout provider
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("checkout provider returned status %d: %s", e.StatusCode, e.Message)
}

// ClientConfig configures the provider client
type ClientConfig struct {
	BaseURL            string
	APIKey             string
	Timeout            time.Duration
	InsecureSkipVerify bool
	MaxConcurrent      int
	Service            string
}

// Client submits orders to the checkout provider
type Client struct {
	http     *resty.Client
	baseURL  string
	apiKey   string
	circuit  *patterns.CircuitBreakerWrapper
	bulkhead *patterns.Bulkhead
}

// NewClient creates a provider client. Each order is attempted once.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = patterns.DefaultTimeout
	}

	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0)
	if cfg.InsecureSkipVerify {
		log.Warn("TLS certificate verification disabled for checkout provider")
		httpClient.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec // explicit opt-in
	}

	return &Client{
		http:     httpClient,
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		circuit:  patterns.NewCircuitBreaker("Checkout", cfg.Service),
		bulkhead: patterns.NewBulkhead(cfg.MaxConcurrent, "checkout", cfg.Service),
	}
}

// Configured reports whether an API key is set
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Circuit returns the client's circuit breaker
func (c *Client) Circuit() *patterns.CircuitBreakerWrapper {
	return c.circuit
}

// CreateOrder posts payload to the order endpoint. On success the provider
// body is returned unchanged. A non-success status yields *UpstreamError;
// every other failure is returned as a plain error.
func (c *Client) CreateOrder(ctx context.Context, payload models.OrderPayload) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrAPIKeyMissing
	}

	ctx, span := telemetry.StartClientSpan(ctx, "checkout.create_order",
		attribute.String("checkout.locale", payload.Locale),
		attribute.String("checkout.method", payload.Payment.Method),
	)
	defer span.End()

	resp, err := c.post(ctx, payload)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))

	body := resp.Body()
	if !json.Valid(body) {
		err := fmt.Errorf("checkout provider returned non-JSON body (status %d)", resp.StatusCode())
		telemetry.RecordError(span, err)
		return nil, err
	}

	if !resp.IsSuccess() {
		upstream := &UpstreamError{StatusCode: resp.StatusCode(), Message: providerMessage(body)}
		telemetry.RecordError(span, upstream)
		return nil, upstream
	}

	return append(json.RawMessage(nil), body...), nil
}

func (c *Client) post(ctx context.Context, payload models.OrderPayload) (*resty.Response, error) {
	var resp *resty.Response

	err := c.bulkhead.Execute(ctx, func() error {
		result, cbErr := c.circuit.Execute(func() (interface{}, error) {
			start := time.Now()
			r, httpErr := c.http.R().
				SetContext(ctx).
				SetHeader(apiKeyHeader, c.apiKey).
				SetHeader("Content-Type", "application/json").
				SetBody(payload).
				Post(c.baseURL + OrdersPath)

			if httpErr != nil {
				metrics.ObserveUpstream(providerName, 0, start)
				return nil, fmt.Errorf("HTTP error: %w", httpErr)
			}
			metrics.ObserveUpstream(providerName, r.StatusCode(), start)

			log.WithFields(log.Fields{
				"provider": providerName,
				"status":   r.StatusCode(),
			}).Debug("Checkout provider responded")

			// Server errors count against the breaker but are still relayed.
			if r.StatusCode() >= http.StatusInternalServerError {
				return r, errServerStatus
			}
			return r, nil
		})

		if r, ok := result.(*resty.Response); ok && r != nil {
			resp = r
		}
		if errors.Is(cbErr, errServerStatus) {
			return nil
		}
		return cbErr
	})

	if err != nil {
		return nil, err
	}
	return resp, nil
}

// providerMessage pulls the string "message" out of an error body.
func providerMessage(body []byte) string {
	var reply struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &reply); err == nil {
		if msg, ok := reply.Message.(string); ok && msg != "" {
			return msg
		}
	}
	return defaultFailure
}
