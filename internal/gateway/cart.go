package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"storefront/internal/domain"
)

type wireCartResponse struct {
	Items []wireCartItem `json:"items"`
}

// wireCartItem accepts productId either as a bare id string or as the
// populated product object newer backends return.
type wireCartItem struct {
	ProductID json.RawMessage `json:"productId"`
	Quantity  int             `json:"quantity"`
}

type cartMutation struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity,omitempty"`
}

// FetchCart reads the user's persisted cart and joins each line with its
// product detail. Lines whose product reference cannot be resolved are
// dropped rather than rendered half-shaped.
func (c *Client) FetchCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/cart/"+url.PathEscape(userID), nil, &raw); err != nil {
		return nil, err
	}

	var wire wireCartResponse
	if err := json.Unmarshal(unwrapData(raw), &wire); err != nil {
		return nil, fmt.Errorf("decode cart for %s: %w", userID, err)
	}

	cart := &domain.Cart{UserID: userID, Items: make([]domain.CartItem, 0, len(wire.Items))}
	for _, line := range wire.Items {
		if line.Quantity < 1 {
			continue
		}
		product, err := c.resolveCartProduct(ctx, line.ProductID)
		if err != nil {
			c.logger.Printf("cart %s: drop unresolvable line: %v", userID, err)
			continue
		}
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID:  product.ID,
			Quantity:   line.Quantity,
			Name:       product.Name,
			PriceCents: product.PriceCents,
			Image:      product.Image,
			Stock:      product.Stock,
		})
	}
	return cart, nil
}

func (c *Client) resolveCartProduct(ctx context.Context, ref json.RawMessage) (*domain.Product, error) {
	if len(ref) == 0 {
		return nil, fmt.Errorf("cart line missing product reference")
	}
	var id string
	if err := json.Unmarshal(ref, &id); err == nil {
		return c.Product(ctx, id)
	}
	var wire wireProduct
	if err := json.Unmarshal(ref, &wire); err != nil {
		return nil, fmt.Errorf("decode cart product reference: %w", err)
	}
	product, err := wire.normalize(c)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// AddToCart persists one add-to-cart action.
func (c *Client) AddToCart(ctx context.Context, userID, productID string, quantity int) error {
	return c.do(ctx, http.MethodPost, "/cart/add", cartMutation{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}, nil)
}

// RemoveFromCart deletes one line from the persisted cart.
func (c *Client) RemoveFromCart(ctx context.Context, userID, productID string) error {
	return c.do(ctx, http.MethodPost, "/cart/remove", cartMutation{
		UserID:    userID,
		ProductID: productID,
	}, nil)
}

// UpdateCartQuantity sets the persisted quantity for one line.
func (c *Client) UpdateCartQuantity(ctx context.Context, userID, productID string, quantity int) error {
	return c.do(ctx, http.MethodPost, "/cart/update", cartMutation{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}, nil)
}
