package asin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		// Bare identifiers
		{"bare upper", "B08N5WRWNW", "B08N5WRWNW", true},
		{"bare lower", "b08n5wrwnw", "B08N5WRWNW", true},
		{"bare digits", "0123456789", "0123456789", true},
		{"too short", "B08N5WRWN", "", false},
		{"too long", "B08N5WRWNWX", "", false},
		{"punctuation", "B08N5-RWNW", "", false},

		// Product URLs
		{"dp with ref", "https://www.amazon.com/dp/B08N5WRWNW/ref=sr_1_1", "B08N5WRWNW", true},
		{"dp", "https://www.amazon.com/Some-Title/dp/B08N5WRWNW", "B08N5WRWNW", true},
		{"gp product", "https://www.amazon.co.uk/gp/product/B07XJ8C8F5", "B07XJ8C8F5", true},
		{"product", "https://amazon.de/product/B07XJ8C8F5?th=1", "B07XJ8C8F5", true},
		{"ASIN path", "https://www.amazon.com/exec/obidos/ASIN/0131103628", "0131103628", true},
		{"product path with ref", "https://www.amazon.com/gp/product/B07XJ8C8F5/ref=ppx_yo_dt", "B07XJ8C8F5", true},
		{"dp wins over later patterns", "https://www.amazon.com/dp/B000000001/gp/product/B000000002", "B000000001", true},

		// Rejections
		{"non amazon host", "https://www.ebay.com/dp/B08N5WRWNW", "", false},
		{"not a url", "not a url", "", false},
		{"no scheme", "amazon.com/dp/B08N5WRWNW", "", false},
		{"lower case path id", "https://www.amazon.com/dp/b08n5wrwnw", "", false},
		{"amazon without product path", "https://www.amazon.com/gp/cart/view.html", "", false},
		{"title then ref only", "https://www.amazon.com/Echo-Dot/B07XJ8C8F5/ref=sr_1_3", "", false},
		{"id before ref without dp", "https://www.amazon.com/B08N5WRWNW/ref=nosim", "", false},
		{"keywords", "wireless earbuds", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveShapeTakesPriority(t *testing.T) {
	// Ten uppercase alphanumerics are returned as-is even though they could
	// never parse as a URL.
	for _, input := range []string{"HTTPSAMAZO", "DP12345678", "AAAAAAAAAA"} {
		got, ok := Resolve(input)
		assert.True(t, ok, input)
		assert.Equal(t, input, got)
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("b08n5wrwnw"))
	assert.True(t, IsValid("B08N5WRWNW"))
	assert.False(t, IsValid("https://www.amazon.com/dp/B08N5WRWNW"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("B08N5WRWN!"))
}

func TestIsValidAgreesWithResolveOnShapes(t *testing.T) {
	for _, input := range []string{"b08n5wrwnw", "B08N5WRWNW", "12345", "abc def gh"} {
		_, ok := Resolve(input)
		assert.Equal(t, IsValid(input), ok, input)
	}
}
