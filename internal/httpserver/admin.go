package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func listOrdersHandler(history HistorySource) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		orders, err := history.Orders(c.Request.Context(), user.ID)
		if err != nil {
			failJSON(c, err, "failed to load orders")
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func listTransactionsHandler(history HistorySource) gin.HandlerFunc {
	return func(c *gin.Context) {
		transactions, err := history.Transactions(c.Request.Context())
		if err != nil {
			failJSON(c, err, "failed to load transactions")
			return
		}
		c.JSON(http.StatusOK, transactions)
	}
}

func listUsersHandler(history HistorySource) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := history.Users(c.Request.Context())
		if err != nil {
			failJSON(c, err, "failed to load users")
			return
		}
		c.JSON(http.StatusOK, users)
	}
}
