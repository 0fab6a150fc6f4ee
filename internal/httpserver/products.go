package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

func listProductsHandler(products ProductSource) gin.HandlerFunc {
	return productListHandler(products.Products)
}

func enabledProductsHandler(products ProductSource) gin.HandlerFunc {
	return productListHandler(products.EnabledProducts)
}

func featuredProductsHandler(products ProductSource) gin.HandlerFunc {
	return productListHandler(products.FeaturedProducts)
}

func discountedProductsHandler(products ProductSource) gin.HandlerFunc {
	return productListHandler(products.DiscountedProducts)
}

func productListHandler(list func(ctx context.Context) ([]domain.Product, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := list(c.Request.Context())
		if err != nil {
			failJSON(c, err, "failed to load products")
			return
		}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filtered := make([]domain.Product, 0, len(items))
			for _, p := range items {
				if strings.EqualFold(p.Category, category) {
					filtered = append(filtered, p)
				}
			}
			items = filtered
		}
		c.JSON(http.StatusOK, items)
	}
}

func getProductHandler(products ProductSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := products.Product(c.Request.Context(), c.Param("productId"))
		if err != nil {
			failJSON(c, err, "failed to load product")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
