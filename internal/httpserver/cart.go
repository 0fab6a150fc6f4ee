package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
)

// getCartHandler loads and reconciles the session user's cart. Anonymous
// visitors get an empty cart, and a fetch failure still renders an empty
// cart: browsing is never blocked by the cart.
func getCartHandler(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		userID := ""
		if user != nil {
			userID = user.ID
		}
		loaded, err := carts.For(userID).Load(c.Request.Context())
		view := toCartView(loaded)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{
				"userId":     view.UserID,
				"items":      view.Items,
				"count":      view.Count,
				"totalCents": view.TotalCents,
				"message":    "failed to load cart",
			})
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func cartCountHandler(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			c.JSON(http.StatusOK, gin.H{"count": 0})
			return
		}
		count, err := carts.Count(c.Request.Context(), user.ID)
		if err != nil {
			// Badge fetches degrade to zero rather than erroring the nav.
			c.JSON(http.StatusOK, gin.H{"count": 0})
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}

type addItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func addCartItemHandler(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addItemInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "productId required"})
			return
		}
		if in.Quantity == 0 {
			in.Quantity = 1
		}

		store := carts.For(currentUser(c).ID)
		if err := store.AddItem(c.Request.Context(), in.ProductID, in.Quantity); err != nil {
			failJSON(c, err, "failed to add to cart")
			return
		}
		c.JSON(http.StatusOK, toCartView(store.Snapshot()))
	}
}

type setQuantityInput struct {
	Quantity int `json:"quantity" binding:"required"`
}

func setCartQuantityHandler(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in setQuantityInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "quantity required"})
			return
		}

		store := carts.For(currentUser(c).ID)
		if err := store.SetQuantity(c.Request.Context(), c.Param("productId"), in.Quantity); err != nil {
			failJSON(c, err, "failed to update quantity")
			return
		}
		c.JSON(http.StatusOK, toCartView(store.Snapshot()))
	}
}

func removeCartItemHandler(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := carts.For(currentUser(c).ID)
		if err := store.RemoveItem(c.Request.Context(), c.Param("productId")); err != nil {
			failJSON(c, err, "failed to remove item from cart")
			return
		}
		c.JSON(http.StatusOK, toCartView(store.Snapshot()))
	}
}

func clearCartHandler(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := carts.For(currentUser(c).ID)
		store.Clear()
		c.JSON(http.StatusOK, toCartView(store.Snapshot()))
	}
}
