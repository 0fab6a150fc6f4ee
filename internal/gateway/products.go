package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"storefront/internal/domain"
)

// wireProduct accepts both historical identity spellings (`id` and `_id`)
// and both image shapes the backend has used; normalize() resolves them to
// a single canonical Product.
type wireProduct struct {
	ID            string          `json:"id"`
	AltID         string          `json:"_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         json.Number     `json:"price"`
	DiscountPrice json.Number     `json:"discountPrice"`
	Image         string          `json:"image"`
	Images        []wireImage     `json:"images"`
	Category      json.RawMessage `json:"category"`
	Stock         int             `json:"stock"`
	Enabled       *bool           `json:"enabled"`
	Featured      bool            `json:"featured"`
}

type wireImage struct {
	URL string `json:"url"`
}

func (w wireProduct) normalize(c *Client) (domain.Product, error) {
	id := firstNonEmpty(w.ID, w.AltID)
	if id == "" {
		return domain.Product{}, errors.New("product missing id")
	}
	if strings.TrimSpace(w.Name) == "" {
		return domain.Product{}, fmt.Errorf("product %s missing name", id)
	}

	priceCents, err := c.toCents(w.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, err)
	}
	if priceCents < 0 {
		return domain.Product{}, fmt.Errorf("product %s has negative price", id)
	}
	discountCents, err := c.toCents(w.DiscountPrice)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, err)
	}

	image := w.Image
	if image == "" && len(w.Images) > 0 {
		image = w.Images[0].URL
	}

	enabled := true
	if w.Enabled != nil {
		enabled = *w.Enabled
	}

	stock := w.Stock
	if stock < 0 {
		stock = 0
	}

	return domain.Product{
		ID:            id,
		Name:          w.Name,
		Description:   w.Description,
		PriceCents:    priceCents,
		DiscountCents: discountCents,
		Image:         image,
		Category:      categoryName(w.Category),
		Stock:         stock,
		Enabled:       enabled,
		Featured:      w.Featured,
	}, nil
}

// categoryName accepts the category join either as a plain string or as a
// populated {name} object.
func categoryName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Name
	}
	return ""
}

// Products fetches the full catalog listing.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	return c.productList(ctx, "/products")
}

// EnabledProducts fetches only products the backend marks sellable.
func (c *Client) EnabledProducts(ctx context.Context) ([]domain.Product, error) {
	return c.productList(ctx, "/products/enabled")
}

// FeaturedProducts fetches the featured selection.
func (c *Client) FeaturedProducts(ctx context.Context) ([]domain.Product, error) {
	return c.productList(ctx, "/products/features")
}

// DiscountedProducts fetches products with an active discount.
func (c *Client) DiscountedProducts(ctx context.Context) ([]domain.Product, error) {
	return c.productList(ctx, "/products/discounts")
}

// Product fetches one product by id.
func (c *Client) Product(ctx context.Context, productID string) (*domain.Product, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(productID), nil, &raw); err != nil {
		return nil, err
	}
	var wire wireProduct
	if err := json.Unmarshal(unwrapData(raw), &wire); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", productID, err)
	}
	product, err := wire.normalize(c)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) productList(ctx context.Context, path string) ([]domain.Product, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	var wires []wireProduct
	if err := json.Unmarshal(unwrapData(raw), &wires); err != nil {
		return nil, fmt.Errorf("decode product list from %s: %w", path, err)
	}
	products := make([]domain.Product, 0, len(wires))
	for _, w := range wires {
		p, err := w.normalize(c)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}
