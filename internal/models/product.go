package models

import "encoding/json"

// PriceBlock is a provider price object: {"value": 19.99, "raw": "$19.99"}.
type PriceBlock struct {
	Value Amount
	Raw   string
	// HasRaw is false when raw was absent or not a string.
	HasRaw bool
}

// Buybox is the winning offer block of a search result.
type Buybox struct {
	Price              PriceBlock
	IsAmazonFresh      bool
	IsWholeFoodsMarket bool
}

// PricePer describes per-unit pricing metadata attached to a result.
type PricePer struct {
	// Present is true whenever the provider sent a non-empty price_per value.
	Present bool
	Unit    string
}

// ProductCandidate is one product record returned by the search provider.
// The provider payload is loosely typed, so decoding never fails on fields
// that have an unexpected shape; they simply read as absent.
type ProductCandidate struct {
	ASIN      string
	Title     string
	Thumbnail string
	MainImage string
	Link      string
	Position  Amount
	Rating    Amount
	Reviews   Amount

	Buybox         Buybox
	Price          PriceBlock
	ExtractedPrice Amount
	OriginalPrice  PriceBlock

	IsAmazonFresh      bool
	IsWholeFoodsMarket bool
	PricePer           PricePer
}

// UnmarshalJSON reads the provider fields by name.
func (c *ProductCandidate) UnmarshalJSON(data []byte) error {
	*c = ProductCandidate{}

	fields := object(data)
	if fields == nil {
		return nil
	}

	c.ASIN, _ = stringField(fields, "asin")
	c.Title, _ = stringField(fields, "title")
	c.Thumbnail, _ = stringField(fields, "thumbnail")
	c.MainImage, _ = stringField(fields, "main_image")
	c.Link, _ = stringField(fields, "link")
	c.Position = amountField(fields, "position")
	c.Rating = amountField(fields, "rating")
	c.Reviews = amountField(fields, "reviews")

	c.Price = priceBlock(fields["price"])
	c.ExtractedPrice = amountField(fields, "extracted_price")
	c.OriginalPrice = priceBlock(fields["original_price"])

	c.IsAmazonFresh = flagField(fields, "is_amazon_fresh")
	c.IsWholeFoodsMarket = flagField(fields, "is_whole_foods_market")

	if buybox := object(fields["buybox"]); buybox != nil {
		c.Buybox = Buybox{
			Price:              priceBlock(buybox["price"]),
			IsAmazonFresh:      flagField(buybox, "is_amazon_fresh"),
			IsWholeFoodsMarket: flagField(buybox, "is_whole_foods_market"),
		}
	}

	if raw, ok := fields["price_per"]; ok && truthy(raw) {
		c.PricePer.Present = true
		if per := object(raw); per != nil {
			c.PricePer.Unit, _ = stringField(per, "unit")
		}
	}

	return nil
}

func priceBlock(raw json.RawMessage) PriceBlock {
	fields := object(raw)
	if fields == nil {
		return PriceBlock{}
	}
	block := PriceBlock{Value: amountField(fields, "value")}
	block.Raw, block.HasRaw = stringField(fields, "raw")
	return block
}

// SearchResponse is the provider reply: a single product for ASIN lookups
// or organic results for keyword searches.
type SearchResponse struct {
	Product        *ProductCandidate
	OrganicResults []ProductCandidate
}

// UnmarshalJSON tolerates a missing or mistyped product/organic_results.
func (r *SearchResponse) UnmarshalJSON(data []byte) error {
	*r = SearchResponse{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if raw, ok := fields["product"]; ok && object(raw) != nil {
		var product ProductCandidate
		if err := json.Unmarshal(raw, &product); err == nil {
			r.Product = &product
		}
	}

	if raw, ok := fields["organic_results"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			r.OrganicResults = make([]ProductCandidate, 0, len(items))
			for _, item := range items {
				var candidate ProductCandidate
				_ = json.Unmarshal(item, &candidate)
				r.OrganicResults = append(r.OrganicResults, candidate)
			}
		}
	}

	return nil
}

// ProductSummary is the display-ready view of a candidate.
type ProductSummary struct {
	ASIN         string   `json:"asin"`
	Title        string   `json:"title"`
	Image        string   `json:"image"`
	Price        *float64 `json:"price"`
	DisplayPrice string   `json:"display_price"`
	Rating       *float64 `json:"rating,omitempty"`
	Reviews      int      `json:"reviews"`
	Position     int      `json:"position"`
	Link         string   `json:"link,omitempty"`
}
