package httpserver

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/domain"
	"storefront/internal/gateway"
	"storefront/internal/notifier"
	"storefront/internal/ws"
)

// ProductSource serves catalog reads.
type ProductSource interface {
	Products(ctx context.Context) ([]domain.Product, error)
	EnabledProducts(ctx context.Context) ([]domain.Product, error)
	FeaturedProducts(ctx context.Context) ([]domain.Product, error)
	DiscountedProducts(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, productID string) (*domain.Product, error)
}

// AuthGateway proxies credentials to the backend's auth endpoints.
type AuthGateway interface {
	Login(ctx context.Context, in gateway.LoginInput) (*domain.User, error)
	Register(ctx context.Context, in gateway.RegisterInput) (*domain.User, error)
}

// HistorySource serves read-only purchase records.
type HistorySource interface {
	Transactions(ctx context.Context) ([]domain.Transaction, error)
	Orders(ctx context.Context, userID string) ([]domain.Transaction, error)
	Users(ctx context.Context) ([]domain.User, error)
}

// SessionService issues and resolves the storefront's session cookies.
type SessionService interface {
	Issue(ctx context.Context, user domain.User) (string, error)
	Lookup(ctx context.Context, token string) (*domain.User, error)
	Revoke(ctx context.Context, token string) error
	TTLSeconds() int
}

// Deps carries everything the router needs.
type Deps struct {
	Products ProductSource
	Auth     AuthGateway
	History  HistorySource
	Carts    *cart.Registry
	Checkout *checkout.Orchestrator
	Sessions SessionService
	Bus      *notifier.Bus
	Hub      *ws.Hub

	AllowedOrigins    []string
	BadgePollInterval time.Duration
}

// buildRouter wires routes for the storefront.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(deps.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = deps.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowCredentials = !corsCfg.AllowAllOrigins
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.Use(sessionMiddleware(deps.Sessions))

	api := router.Group("/api")
	{
		products := api.Group("/products")
		products.GET("", listProductsHandler(deps.Products))
		products.GET("/enabled", enabledProductsHandler(deps.Products))
		products.GET("/features", featuredProductsHandler(deps.Products))
		products.GET("/discounts", discountedProductsHandler(deps.Products))
		products.GET("/:productId", getProductHandler(deps.Products))

		cartGroup := api.Group("/cart")
		cartGroup.GET("", getCartHandler(deps.Carts))
		cartGroup.GET("/count", cartCountHandler(deps.Carts))
		cartGroup.POST("/items", requireUser(), addCartItemHandler(deps.Carts))
		cartGroup.PUT("/items/:productId", requireUser(), setCartQuantityHandler(deps.Carts))
		cartGroup.DELETE("/items/:productId", requireUser(), removeCartItemHandler(deps.Carts))
		cartGroup.DELETE("", requireUser(), clearCartHandler(deps.Carts))

		api.POST("/checkout", requireUser(), initiateCheckoutHandler(deps.Checkout, deps.Carts))

		auth := api.Group("/auth")
		auth.POST("/login", loginHandler(deps.Auth, deps.Sessions))
		auth.POST("/register", registerHandler(deps.Auth, deps.Sessions))
		auth.POST("/logout", logoutHandler(deps.Sessions, deps.Carts))

		api.GET("/orders", requireUser(), listOrdersHandler(deps.History))

		admin := api.Group("/admin", requireUser(), requireAdmin())
		admin.GET("/transactions", listTransactionsHandler(deps.History))
		admin.GET("/users", listUsersHandler(deps.History))
	}

	router.GET("/checkout/success", requireUser(), checkoutSuccessHandler(deps.Carts))
	router.GET("/checkout/cancel", checkoutCancelHandler())

	router.GET("/ws/cart", requireUser(), cartSocketHandler(deps.Hub, deps.Bus, deps.Carts, deps.BadgePollInterval, logger))

	return router, nil
}
