// Package pricing decides which search results can be shown and sold, and
// pulls a single price out of the several places a provider may put it.
package pricing

import (
	"strconv"
	"strings"

	"github.com/ashendes/crypto-storefront/internal/models"
)

// Exclusion names the rule that kept a candidate out of the results.
type Exclusion int

const (
	ExclusionNone Exclusion = iota
	ExclusionAmazonFresh
	ExclusionWholeFoods
	ExclusionUnitPriced
	ExclusionPricePer
	ExclusionNoPrice
)

func (e Exclusion) String() string {
	switch e {
	case ExclusionNone:
		return "eligible"
	case ExclusionAmazonFresh:
		return "amazon_fresh"
	case ExclusionWholeFoods:
		return "whole_foods"
	case ExclusionUnitPriced:
		return "unit_priced"
	case ExclusionPricePer:
		return "price_per"
	case ExclusionNoPrice:
		return "no_price"
	default:
		return "unknown"
	}
}

// Options tune the eligibility rules.
type Options struct {
	// AllowSupplementaryPricePer keeps candidates whose price_per metadata
	// does not name a weight unit. Weight-unit pricing is always excluded.
	AllowSupplementaryPricePer bool
}

var weightUnits = []string{"ounce", "lb", "gram"}

// Classify applies the eligibility rules in order and returns the first one
// that excludes c, or ExclusionNone.
func Classify(c models.ProductCandidate, opts Options) Exclusion {
	if c.Buybox.IsAmazonFresh || c.IsAmazonFresh {
		return ExclusionAmazonFresh
	}
	if c.Buybox.IsWholeFoodsMarket || c.IsWholeFoodsMarket {
		return ExclusionWholeFoods
	}

	unit := strings.ToLower(c.PricePer.Unit)
	for _, w := range weightUnits {
		if strings.Contains(unit, w) {
			return ExclusionUnitPriced
		}
	}
	if c.PricePer.Present && !opts.AllowSupplementaryPricePer {
		return ExclusionPricePer
	}

	if _, ok := ExtractPrice(c); !ok {
		return ExclusionNoPrice
	}
	return ExclusionNone
}

// IsEligible reports whether c may be displayed, using the default rules.
func IsEligible(c models.ProductCandidate) bool {
	return Classify(c, Options{}) == ExclusionNone
}

// ExtractPrice returns the first finite, strictly positive price found in
// c, looking at the buybox value, the direct value, extracted_price, the
// buybox raw string, the direct raw string, then the original price value
// and raw string.
func ExtractPrice(c models.ProductCandidate) (float64, bool) {
	locations := []models.Amount{
		c.Buybox.Price.Value,
		c.Price.Value,
		c.ExtractedPrice,
		rawAmount(c.Buybox.Price),
		rawAmount(c.Price),
		c.OriginalPrice.Value,
		rawAmount(c.OriginalPrice),
	}

	for _, amount := range locations {
		if price, ok := amount.Positive(); ok {
			return price, true
		}
	}
	return 0, false
}

// rawAmount parses a display string such as "$1,299.99" after dropping
// everything but digits and dots.
func rawAmount(block models.PriceBlock) models.Amount {
	if !block.HasRaw {
		return models.Amount{}
	}
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, block.Raw)
	if cleaned == "" {
		return models.Amount{}
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return models.Amount{}
	}
	return models.Amount{Value: f, Valid: true}
}

// Tally counts candidates per classification outcome.
type Tally map[Exclusion]int

// Excluded returns how many candidates were kept out.
func (t Tally) Excluded() int {
	n := 0
	for outcome, count := range t {
		if outcome != ExclusionNone {
			n += count
		}
	}
	return n
}

// Filter keeps the eligible candidates in their original order and tallies
// every classification outcome.
func Filter(candidates []models.ProductCandidate, opts Options) ([]models.ProductCandidate, Tally) {
	kept := make([]models.ProductCandidate, 0, len(candidates))
	tally := Tally{}
	for _, c := range candidates {
		outcome := Classify(c, opts)
		tally[outcome]++
		if outcome == ExclusionNone {
			kept = append(kept, c)
		}
	}
	return kept, tally
}
