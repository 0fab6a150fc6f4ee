package domain

// Product is a catalog entry as reported by the backend. Prices are
// integer cents internally; the gateway normalizes the wire unit.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"priceCents"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category,omitempty"`
	Stock       int    `json:"stock"`
	Enabled     bool   `json:"enabled"`
	Featured    bool   `json:"featured,omitempty"`
	// DiscountCents is the discounted unit price when the backend reports
	// one; zero means no discount.
	DiscountCents int64 `json:"discountCents,omitempty"`
}
