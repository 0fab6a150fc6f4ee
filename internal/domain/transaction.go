package domain

import "time"

// PaymentStatus is the backend-owned lifecycle of a payment attempt.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Valid reports whether the status is one the UI knows how to display.
func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentCompleted || s == PaymentFailed
}

// IsTerminal reports whether the payment can no longer change state.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentCompleted || s == PaymentFailed
}

// TransactionLine is one purchased line item on a historical record.
type TransactionLine struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
}

// Transaction is a read-only payment record. The storefront never mutates
// one, only displays and filters them.
type Transaction struct {
	ID         string            `json:"id"`
	UserID     string            `json:"userId"`
	Status     PaymentStatus     `json:"paymentStatus"`
	TotalCents int64             `json:"totalCents"`
	Lines      []TransactionLine `json:"items"`
	CreatedAt  time.Time         `json:"createdAt"`
}
