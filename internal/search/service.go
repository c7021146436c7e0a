package search

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/ashendes/crypto-storefront/internal/asin"
	"github.com/ashendes/crypto-storefront/internal/metrics"
	"github.com/ashendes/crypto-storefront/internal/models"
	"github.com/ashendes/crypto-storefront/internal/patterns"
	"github.com/ashendes/crypto-storefront/internal/pricing"
)

// ErrProductNotFound is returned by Product when the provider has no match
var ErrProductNotFound = errors.New("product not found")

// Service runs storefront searches
type Service struct {
	client       *Client
	amazonDomain string
	pricingOpts  pricing.Options
}

// NewService creates a search service. amazonDomain is used when a request
// does not name one.
func NewService(client *Client, amazonDomain string, opts pricing.Options) *Service {
	return &Service{
		client:       client,
		amazonDomain: amazonDomain,
		pricingOpts:  opts,
	}
}

// Circuit exposes the provider circuit breaker for status reporting.
func (s *Service) Circuit() *patterns.CircuitBreakerWrapper {
	return s.client.Circuit()
}

// Search resolves query to an ASIN when it carries one and looks that
// product up; otherwise it runs a keyword search and keeps only the
// eligible results.
func (s *Service) Search(ctx context.Context, query, amazonDomain string) (models.SearchResult, error) {
	if amazonDomain == "" {
		amazonDomain = s.amazonDomain
	}
	result := models.SearchResult{Query: query, Products: []models.ProductSummary{}}

	if id, ok := asin.Resolve(query); ok {
		result.Mode = models.SearchModeASIN
		result.ASIN = id
		metrics.SearchesTotal.WithLabelValues(result.Mode).Inc()

		resp, err := s.client.Lookup(ctx, models.ProductLookup{AmazonDomain: amazonDomain, ASIN: id})
		if err != nil {
			return result, err
		}
		if resp.Product != nil {
			result.Products = appendSummary(result.Products, *resp.Product, 0)
		}
		return result, nil
	}

	result.Mode = models.SearchModeKeyword
	metrics.SearchesTotal.WithLabelValues(result.Mode).Inc()

	resp, err := s.client.Lookup(ctx, models.ProductLookup{AmazonDomain: amazonDomain, Keywords: query})
	if err != nil {
		return result, err
	}

	kept, tally := pricing.Filter(resp.OrganicResults, s.pricingOpts)
	for outcome, count := range tally {
		metrics.SearchCandidatesTotal.WithLabelValues(outcome.String()).Add(float64(count))
	}
	result.Excluded = tally.Excluded()

	// Positions fall back to the index among the eligible results.
	for i, candidate := range kept {
		result.Products = appendSummary(result.Products, candidate, i)
	}

	log.WithFields(log.Fields{
		"mode":     result.Mode,
		"results":  len(resp.OrganicResults),
		"kept":     len(result.Products),
		"excluded": result.Excluded,
	}).Info("Keyword search completed")

	return result, nil
}

// Product looks a single product up by ASIN.
func (s *Service) Product(ctx context.Context, id string) (models.ProductSummary, error) {
	metrics.SearchesTotal.WithLabelValues(models.SearchModeASIN).Inc()

	resp, err := s.client.Lookup(ctx, models.ProductLookup{AmazonDomain: s.amazonDomain, ASIN: id})
	if err != nil {
		return models.ProductSummary{}, err
	}
	if resp.Product == nil {
		return models.ProductSummary{}, ErrProductNotFound
	}

	summary := pricing.Summarize(*resp.Product, 0)
	if summary.ASIN == "" {
		summary.ASIN = id
	}
	return summary, nil
}

// appendSummary drops candidates without an ASIN since they cannot be
// linked or bought.
func appendSummary(list []models.ProductSummary, c models.ProductCandidate, index int) []models.ProductSummary {
	if c.ASIN == "" {
		log.WithFields(log.Fields{"title": c.Title, "index": index}).Warn("Product missing ASIN")
		return list
	}
	return append(list, pricing.Summarize(c, index))
}
