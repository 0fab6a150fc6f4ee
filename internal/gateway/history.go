package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"storefront/internal/domain"
)

type wireTransaction struct {
	ID          string          `json:"id"`
	AltID       string          `json:"_id"`
	UserID      json.RawMessage `json:"userId"`
	Status      string          `json:"paymentStatus"`
	TotalAmount json.Number     `json:"totalAmount"`
	Items       []wireTxnLine   `json:"items"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type wireTxnLine struct {
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Quantity int         `json:"quantity"`
}

func (w wireTransaction) normalize(c *Client) (domain.Transaction, error) {
	id := firstNonEmpty(w.ID, w.AltID)
	if id == "" {
		return domain.Transaction{}, fmt.Errorf("transaction missing id")
	}

	status := domain.PaymentStatus(w.Status)
	if !status.Valid() {
		return domain.Transaction{}, fmt.Errorf("transaction %s has unknown payment status %q", id, w.Status)
	}

	total, err := c.toCents(w.TotalAmount)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", id, err)
	}

	lines := make([]domain.TransactionLine, 0, len(w.Items))
	for _, item := range w.Items {
		price, err := c.toCents(item.Price)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("transaction %s: %w", id, err)
		}
		lines = append(lines, domain.TransactionLine{
			Name:       item.Name,
			PriceCents: price,
			Quantity:   item.Quantity,
		})
	}

	return domain.Transaction{
		ID:         id,
		UserID:     identityString(w.UserID),
		Status:     status,
		TotalCents: total,
		Lines:      lines,
		CreatedAt:  w.CreatedAt,
	}, nil
}

// identityString accepts userId either as a plain string or as a
// populated user object and always yields the id string.
func identityString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}
	var wire wireUser
	if err := json.Unmarshal(raw, &wire); err == nil {
		return firstNonEmpty(wire.ID, wire.AltID)
	}
	return ""
}

// Transactions lists every payment record, for the admin back-office.
func (c *Client) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	return c.transactionList(ctx, "/transactions")
}

// Orders lists one user's purchase history.
func (c *Client) Orders(ctx context.Context, userID string) ([]domain.Transaction, error) {
	return c.transactionList(ctx, "/orders?userId="+url.QueryEscape(userID))
}

func (c *Client) transactionList(ctx context.Context, path string) ([]domain.Transaction, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	var wires []wireTransaction
	if err := json.Unmarshal(unwrapData(raw), &wires); err != nil {
		return nil, fmt.Errorf("decode transactions from %s: %w", path, err)
	}
	transactions := make([]domain.Transaction, 0, len(wires))
	for _, w := range wires {
		t, err := w.normalize(c)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}

// Users lists registered users, for the admin back-office.
func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/users", nil, &raw); err != nil {
		return nil, err
	}
	var wires []wireUser
	if err := json.Unmarshal(unwrapData(raw), &wires); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	users := make([]domain.User, 0, len(wires))
	for _, w := range wires {
		u, err := w.normalize()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}
