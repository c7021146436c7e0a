package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/ashendes/crypto-storefront/internal/models"
)

const (
	untitled        = "No title available"
	placeholderPath = "/placeholder.png"
	priceMissing    = "Price not available"
)

// Summarize builds the display view of c. index is the candidate's place
// among the eligible results and is used when the provider omits a position.
func Summarize(c models.ProductCandidate, index int) models.ProductSummary {
	s := models.ProductSummary{
		ASIN:         c.ASIN,
		Title:        c.Title,
		Image:        c.Thumbnail,
		DisplayPrice: priceMissing,
		Position:     index,
		Link:         c.Link,
	}

	if s.Title == "" {
		s.Title = untitled
	}
	if s.Image == "" {
		s.Image = c.MainImage
	}
	if s.Image == "" {
		s.Image = placeholderPath
	}

	if price, ok := ExtractPrice(c); ok {
		s.Price = &price
		s.DisplayPrice = FormatUSD(price)
	}
	if rating, ok := c.Rating.Positive(); ok {
		s.Rating = &rating
	}
	if reviews, ok := c.Reviews.Positive(); ok {
		s.Reviews = int(reviews)
	}
	if position, ok := c.Position.Positive(); ok {
		s.Position = int(position)
	}

	return s
}

// FormatUSD renders price as dollars with two decimals.
func FormatUSD(price float64) string {
	return "$" + decimal.NewFromFloat(price).StringFixed(2)
}
