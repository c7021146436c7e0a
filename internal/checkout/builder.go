// Package checkout turns storefront checkout requests into orders on the
// Crossmint headless checkout API.
package checkout

import (
	"strings"

	"github.com/ashendes/crypto-storefront/internal/asin"
	"github.com/ashendes/crypto-storefront/internal/models"
)

// Locale is sent with every order.
const Locale = "en-US"

const locatorPrefix = "amazon:"

// ValidationError lists the request fields that are missing or unusable.
type ValidationError struct {
	Missing     []string
	InvalidASIN bool
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return "missing required parameters: " + strings.Join(e.Missing, ", ")
	}
	return "invalid asin"
}

// Validate checks that every required field is present and that the ASIN
// resolves. A field counts as missing when it is absent, null, false, zero
// or an empty string.
func Validate(req models.CheckoutRequest) error {
	var missing []string
	check := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}

	check("title", req.Title != "")
	check("price", models.Truthy(req.Price))
	check("asin", req.ASIN != "")
	check("email", req.Email != "")
	check("shippingAddress", req.ShippingAddress != nil)
	check("walletAddress", req.WalletAddress != "")
	check("chain", req.Chain != "")
	check("currency", req.Currency != "")

	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	if _, ok := asin.Resolve(req.ASIN); !ok {
		return &ValidationError{InvalidASIN: true}
	}
	return nil
}

// Build produces the provider order payload for a validated request.
func Build(req models.CheckoutRequest) models.OrderPayload {
	email := strings.ToUpper(req.Email)
	address := UppercaseValues(req.ShippingAddress)

	line2 := address["address2"]
	if !models.Truthy(line2) {
		line2 = ""
	}

	return models.OrderPayload{
		Recipient: models.Recipient{
			Email: email,
			PhysicalAddress: models.PhysicalAddress{
				Name:       address["name"],
				Line1:      address["address1"],
				Line2:      line2,
				City:       address["city"],
				PostalCode: address["postalCode"],
				Country:    address["country"],
				State:      address["province"],
			},
		},
		Locale: Locale,
		Payment: models.Payment{
			ReceiptEmail: email,
			Method:       req.Chain,
			Currency:     req.Currency,
			PayerAddress: req.WalletAddress,
		},
		LineItems: []models.LineItem{
			{ProductLocator: ProductLocator(req.ASIN)},
		},
	}
}

// ProductLocator returns the provider locator for an Amazon product.
func ProductLocator(input string) string {
	id, ok := asin.Resolve(input)
	if !ok {
		id = strings.ToUpper(input)
	}
	return locatorPrefix + id
}
