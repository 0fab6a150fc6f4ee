package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/gateway"
)

// failJSON converts an operation error into the toast-style {message}
// payload the front end shows. Backend messages pass through verbatim;
// everything else gets a generic, non-crashing notification.
func failJSON(c *gin.Context, err error, generic string) {
	var backendErr *gateway.BackendError
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "please sign in first"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	case errors.Is(err, domain.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"message": domain.ErrInvalidQuantity.Error()})
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"message": domain.ErrEmptyCart.Error()})
	case errors.Is(err, domain.ErrGatewayUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"message": generic})
	case errors.As(err, &backendErr):
		status := backendErr.Status
		if status < http.StatusBadRequest || status >= 600 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"message": backendErr.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"message": generic})
	}
}

// cartView is the JSON shape every cart read returns.
type cartView struct {
	UserID     string            `json:"userId"`
	Items      []domain.CartItem `json:"items"`
	Count      int               `json:"count"`
	TotalCents int64             `json:"totalCents"`
}

func toCartView(cart domain.Cart) cartView {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return cartView{
		UserID:     cart.UserID,
		Items:      items,
		Count:      cart.Count(),
		TotalCents: cart.TotalCents(),
	}
}
