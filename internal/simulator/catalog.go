package simulator

import "github.com/gin-gonic/gin"

// sampleCatalog mirrors the shape of the search provider's Amazon results,
// including listings the storefront refuses to sell.
var sampleCatalog = []gin.H{
	{
		"position":  1,
		"asin":      "B08N5WRWNW",
		"title":     "Echo Dot (4th Gen) Smart speaker with Alexa",
		"link":      "https://www.amazon.com/dp/B08N5WRWNW",
		"thumbnail": "https://m.media-amazon.com/images/I/echo-dot.jpg",
		"rating":    4.7,
		"reviews":   912345,
		"price":     gin.H{"value": 49.99, "raw": "$49.99"},
	},
	{
		"position":  2,
		"asin":      "B07FZ8S74R",
		"title":     "Echo Show 8 HD smart display",
		"link":      "https://www.amazon.com/dp/B07FZ8S74R",
		"thumbnail": "https://m.media-amazon.com/images/I/echo-show.jpg",
		"rating":    4.6,
		"reviews":   201334,
		"buybox":    gin.H{"price": gin.H{"value": 89.99, "raw": "$89.99"}},
	},
	{
		"position":        3,
		"asin":            "B0BDHWDR12",
		"title":           "Organic Bananas, 2 lb bunch",
		"link":            "https://www.amazon.com/dp/B0BDHWDR12",
		"is_amazon_fresh": true,
		"price":           gin.H{"value": 1.49, "raw": "$1.49"},
	},
	{
		"position":              4,
		"asin":                  "B074H5PPJS",
		"title":                 "Whole Foods Market Organic Kale",
		"link":                  "https://www.amazon.com/dp/B074H5PPJS",
		"is_whole_foods_market": true,
		"price":                 gin.H{"value": 2.99, "raw": "$2.99"},
	},
	{
		"position":  5,
		"asin":      "B00FLYWNYQ",
		"title":     "Medium Roast Ground Coffee, 12 oz",
		"link":      "https://www.amazon.com/dp/B00FLYWNYQ",
		"price":     gin.H{"value": 8.49, "raw": "$8.49"},
		"price_per": gin.H{"value": 0.71, "unit": "Ounce", "raw": "$0.71/Ounce"},
	},
	{
		"position":  6,
		"asin":      "B00MNV8E0C",
		"title":     "AA Alkaline Batteries, 24 Count",
		"link":      "https://www.amazon.com/dp/B00MNV8E0C",
		"price":     gin.H{"value": 15.99, "raw": "$15.99"},
		"price_per": gin.H{"value": 0.67, "unit": "Count", "raw": "$0.67/Count"},
	},
	{
		"position":        7,
		"asin":            "B09B8V1LZ3",
		"title":           "Adjustable LED Desk Lamp",
		"link":            "https://www.amazon.com/dp/B09B8V1LZ3",
		"extracted_price": 27.5,
		"original_price":  gin.H{"value": 34.99, "raw": "$34.99"},
	},
	{
		"position": 8,
		"asin":     "B0CHX1W1XY",
		"title":    "Limited Edition Mug (currently unavailable)",
		"link":     "https://www.amazon.com/dp/B0CHX1W1XY",
	},
}
