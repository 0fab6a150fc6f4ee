package domain

// CheckoutLineItem is one purchasable line in a checkout-session request.
// PriceCents is the unit price in the smallest currency unit, as the
// payment provider expects.
type CheckoutLineItem struct {
	Name       string `json:"name"`
	Image      string `json:"image,omitempty"`
	PriceCents int64  `json:"price"`
	Quantity   int    `json:"quantity"`
}

// CheckoutSessionRequest is the payload sent to the backend's
// checkout-session endpoint. It is built from a snapshot of the cart at
// the moment checkout is initiated and is not stored after the redirect.
type CheckoutSessionRequest struct {
	UserID     string             `json:"userId"`
	Items      []CheckoutLineItem `json:"items"`
	SuccessURL string             `json:"success_url"`
	CancelURL  string             `json:"cancel_url"`
	Metadata   map[string]string  `json:"metadata,omitempty"`
}

// CheckoutSession is the provider-hosted payment flow handle. Only the
// redirect URL is observable client-side.
type CheckoutSession struct {
	URL string `json:"url"`
}
