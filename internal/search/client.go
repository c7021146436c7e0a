// Package search queries the Amazon product-search provider and turns its
// results into display-ready products.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ashendes/crypto-storefront/internal/metrics"
	"github.com/ashendes/crypto-storefront/internal/models"
	"github.com/ashendes/crypto-storefront/internal/patterns"
	"github.com/ashendes/crypto-storefront/internal/telemetry"
)

const providerName = "search"

// ErrAPIKeyMissing is returned when no provider key is configured
var ErrAPIKeyMissing = errors.New("search API key not configured")

// ClientConfig configures the provider client
type ClientConfig struct {
	URL           string
	APIKey        string
	Engine        string
	Timeout       time.Duration
	MaxConcurrent int
	Service       string
}

// Client calls the search provider
type Client struct {
	http     *resty.Client
	url      string
	apiKey   string
	engine   string
	circuit  *patterns.CircuitBreakerWrapper
	bulkhead *patterns.Bulkhead
}

// NewClient creates a provider client
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = patterns.DefaultTimeout
	}

	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0),
		url:      cfg.URL,
		apiKey:   cfg.APIKey,
		engine:   cfg.Engine,
		circuit:  patterns.NewCircuitBreaker("Search", cfg.Service),
		bulkhead: patterns.NewBulkhead(cfg.MaxConcurrent, "search", cfg.Service),
	}
}

// Circuit returns the client's circuit breaker
func (c *Client) Circuit() *patterns.CircuitBreakerWrapper {
	return c.circuit
}

// Lookup runs one provider query: an ASIN lookup when lookup.ASIN is set,
// a keyword search otherwise.
func (c *Client) Lookup(ctx context.Context, lookup models.ProductLookup) (models.SearchResponse, error) {
	if c.apiKey == "" {
		return models.SearchResponse{}, ErrAPIKeyMissing
	}

	params := map[string]string{
		"engine":        c.engine,
		"amazon_domain": lookup.AmazonDomain,
		"api_key":       c.apiKey,
	}
	mode := models.SearchModeKeyword
	if lookup.ASIN != "" {
		params["asin"] = lookup.ASIN
		mode = models.SearchModeASIN
	} else {
		params["q"] = lookup.Keywords
	}

	ctx, span := telemetry.StartClientSpan(ctx, "search.lookup",
		attribute.String("search.mode", mode),
		attribute.String("search.amazon_domain", lookup.AmazonDomain),
	)
	defer span.End()

	var body []byte
	err := c.bulkhead.Execute(ctx, func() error {
		_, cbErr := c.circuit.Execute(func() (interface{}, error) {
			start := time.Now()
			resp, httpErr := c.http.R().
				SetContext(ctx).
				SetQueryParams(params).
				SetHeader("Accept", "application/json").
				Get(c.url)

			if httpErr != nil {
				metrics.ObserveUpstream(providerName, 0, start)
				return nil, fmt.Errorf("HTTP error: %w", httpErr)
			}
			metrics.ObserveUpstream(providerName, resp.StatusCode(), start)

			if !resp.IsSuccess() {
				return nil, fmt.Errorf("search provider returned status %d", resp.StatusCode())
			}

			body = resp.Body()
			return nil, nil
		})
		return cbErr
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return models.SearchResponse{}, err
	}

	var parsed models.SearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		err = fmt.Errorf("failed to parse search response: %w", err)
		telemetry.RecordError(span, err)
		return models.SearchResponse{}, err
	}

	span.SetAttributes(attribute.Int("search.organic_results", len(parsed.OrganicResults)))
	return parsed, nil
}
