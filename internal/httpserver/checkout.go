package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/checkout"
)

// initiateCheckoutHandler snapshots the cart and asks the orchestrator
// for a hosted payment session. On success the browser performs a full
// navigation to the returned URL; nothing else changes on this page. On
// failure the cart is untouched and the same action can be retried.
func initiateCheckoutHandler(orchestrator *checkout.Orchestrator, carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		snapshot := carts.For(user.ID).Snapshot()

		attempt := orchestrator.NewAttempt(user.ID)
		url, err := attempt.Initiate(c.Request.Context(), snapshot.Items)
		if err != nil {
			failJSON(c, err, "something went wrong during checkout")
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url})
	}
}

// checkoutSuccessHandler is the success landing: arriving here is the
// only client-side signal that payment went through, and it is what
// clears the cart.
func checkoutSuccessHandler(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		carts.For(user.ID).Clear()
		c.JSON(http.StatusOK, gin.H{"message": "payment successful, order confirmed"})
	}
}

// checkoutCancelHandler leaves the cart intact for retry.
func checkoutCancelHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "checkout cancelled"})
	}
}
