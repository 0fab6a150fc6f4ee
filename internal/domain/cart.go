package domain

// CartItem is one product/quantity pair in a user's cart, joined with the
// display fields needed to render it. Quantity is always within
// [1, Stock]; removing an item deletes it rather than writing zero.
type CartItem struct {
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Image      string `json:"image,omitempty"`
	// Stock is the product's available inventory as last fetched; the
	// store clamps Quantity against it on every reconcile.
	Stock int `json:"stock"`
}

// Cart is the server-persisted, per-user collection of cart items.
type Cart struct {
	UserID string     `json:"userId"`
	Items  []CartItem `json:"items"`
}

// TotalCents is the derived subtotal, recomputed on every read.
func (c Cart) TotalCents() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.PriceCents * int64(item.Quantity)
	}
	return total
}

// Count is the number of distinct items in the cart, the figure shown
// next to the cart badge.
func (c Cart) Count() int {
	return len(c.Items)
}
