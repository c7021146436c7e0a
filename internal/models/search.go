package models

// Search modes
const (
	SearchModeASIN    = "asin"
	SearchModeKeyword = "keyword"
)

// SearchRequest represents a storefront search
type SearchRequest struct {
	Query        string `json:"query" binding:"required"`
	AmazonDomain string `json:"amazon_domain"`
}

// SearchResult represents the response to a storefront search
type SearchResult struct {
	Mode     string           `json:"mode"`
	ASIN     string           `json:"asin,omitempty"`
	Query    string           `json:"query"`
	Products []ProductSummary `json:"products"`
	Excluded int              `json:"excluded"`
}

// ProductLookup is the provider query sent for one search.
// Exactly one of ASIN and Keywords is set.
type ProductLookup struct {
	AmazonDomain string
	ASIN         string
	Keywords     string
}
