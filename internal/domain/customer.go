package domain

// Customer describes the buyer attached to a checkout.
type Customer struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// OrderMetadata is the free-form bag sent along with a checkout.
type OrderMetadata struct {
	Channel       string `json:"channel,omitempty"`
	Currency      string `json:"currency,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

// CheckoutItem is the reduced form of a cart line sent to the backend.
type CheckoutItem struct {
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity" binding:"min=1"`
}

// CheckoutOrder is the one-shot order-creation payload built from a cart.
type CheckoutOrder struct {
	Customer Customer       `json:"customer"`
	Items    []CheckoutItem `json:"items" binding:"required,min=1,dive"`
	Metadata OrderMetadata  `json:"metadata"`
}
