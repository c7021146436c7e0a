package models

// CheckoutRequest represents the inbound checkout body
type CheckoutRequest struct {
	Title           string         `json:"title"`
	Price           any            `json:"price"`
	Thumbnail       string         `json:"thumbnail"`
	ASIN            string         `json:"asin"`
	Email           string         `json:"email"`
	ShippingAddress map[string]any `json:"shippingAddress"`
	WalletAddress   string         `json:"walletAddress"`
	Chain           string         `json:"chain"`
	Currency        string         `json:"currency"`
}

// OrderPayload is the body of the checkout provider's order-creation call
type OrderPayload struct {
	Recipient Recipient  `json:"recipient"`
	Locale    string     `json:"locale"`
	Payment   Payment    `json:"payment"`
	LineItems []LineItem `json:"lineItems"`
}

// Recipient identifies who receives the order
type Recipient struct {
	Email           string          `json:"email"`
	PhysicalAddress PhysicalAddress `json:"physicalAddress"`
}

// PhysicalAddress holds the shipping address in the provider's shape.
// Values keep whatever JSON type the client sent; nil values are omitted,
// except Line2 which is always present.
type PhysicalAddress struct {
	Name       any `json:"name,omitempty"`
	Line1      any `json:"line1,omitempty"`
	Line2      any `json:"line2"`
	City       any `json:"city,omitempty"`
	PostalCode any `json:"postalCode,omitempty"`
	Country    any `json:"country,omitempty"`
	State      any `json:"state,omitempty"`
}

// Payment describes how the buyer pays
type Payment struct {
	ReceiptEmail string `json:"receiptEmail"`
	Method       string `json:"method"`
	Currency     string `json:"currency"`
	PayerAddress string `json:"payerAddress"`
}

// LineItem references one purchasable product
type LineItem struct {
	ProductLocator string `json:"productLocator"`
}

// Checkout status constants
const (
	CheckoutStatusCreated       = "created"
	CheckoutStatusInvalid       = "validation_failed"
	CheckoutStatusMisconfigured = "misconfigured"
	CheckoutStatusRejected      = "rejected"
	CheckoutStatusFailed        = "failed"
)

// ErrorResponse is the JSON error body returned to clients
type ErrorResponse struct {
	Error string `json:"error"`
}
