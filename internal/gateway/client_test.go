package gateway

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/domain"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestClient(t *testing.T, pricesInCents bool, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second, pricesInCents, logDiscard())
}

func TestProductsConvertsWholeUnitPrices(t *testing.T) {
	c := newTestClient(t, false, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `[{"id":"p1","name":"Book","price":45,"stock":3},{"id":"p2","name":"Mug","price":12.5,"stock":1}]`)
	}))

	products, err := c.Products(context.Background())
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if products[0].PriceCents != 4500 {
		t.Fatalf("expected 4500 cents for price 45, got %d", products[0].PriceCents)
	}
	if products[1].PriceCents != 1250 {
		t.Fatalf("expected 1250 cents for price 12.5, got %d", products[1].PriceCents)
	}
}

func TestProductsKeepsIntegerCents(t *testing.T) {
	c := newTestClient(t, true, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `[{"id":"p1","name":"Book","price":4500,"stock":3}]`)
	}))

	products, err := c.Products(context.Background())
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if products[0].PriceCents != 4500 {
		t.Fatalf("expected 4500 cents, got %d", products[0].PriceCents)
	}
}

func TestProductNormalizesLegacyIdentity(t *testing.T) {
	c := newTestClient(t, false, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"data":{"_id":"abc123","name":"Lamp","price":30,"stock":2,"category":{"name":"lighting"},"images":[{"url":"lamp.png"}]}}`)
	}))

	product, err := c.Product(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	if product.ID != "abc123" {
		t.Fatalf("expected _id promoted to ID, got %q", product.ID)
	}
	if product.Category != "lighting" {
		t.Fatalf("expected category object flattened, got %q", product.Category)
	}
	if product.Image != "lamp.png" {
		t.Fatalf("expected first image url, got %q", product.Image)
	}
	if !product.Enabled {
		t.Fatal("expected enabled to default true")
	}
}

func TestProductRejectsMissingName(t *testing.T) {
	c := newTestClient(t, false, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"id":"p1","price":10}`)
	}))

	if _, err := c.Product(context.Background(), "p1"); err == nil {
		t.Fatal("expected validation error for missing name")
	}
}

func TestProductNotFound(t *testing.T) {
	c := newTestClient(t, false, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	if _, err := c.Product(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBackendErrorCarriesMessage(t *testing.T) {
	c := newTestClient(t, false, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"message":"quantity exceeds stock"}`)
	}))

	err := c.AddToCart(context.Background(), "u1", "p1", 99)
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if backendErr.Status != http.StatusBadRequest || backendErr.Message != "quantity exceeds stock" {
		t.Fatalf("unexpected backend error %+v", backendErr)
	}
}

func TestTransportFailureIsGatewayUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	c := New(srv.URL, time.Second, false, logDiscard())

	if _, err := c.Products(context.Background()); !errors.Is(err, domain.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestFetchCartJoinsPopulatedProducts(t *testing.T) {
	c := newTestClient(t, false, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cart/u1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"items":[
			{"productId":{"_id":"p1","name":"Mug","price":12,"stock":5},"quantity":2},
			{"productId":{"_id":"p2","name":"Pen","price":1.5,"stock":9},"quantity":0}
		]}`)
	}))

	cart, err := c.FetchCart(context.Background(), "u1")
	if err != nil {
		t.Fatalf("fetch cart: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected zero-quantity line dropped, got %d items", len(cart.Items))
	}
	item := cart.Items[0]
	if item.ProductID != "p1" || item.Quantity != 2 || item.PriceCents != 1200 || item.Stock != 5 {
		t.Fatalf("unexpected joined item %+v", item)
	}
}

func TestFetchCartResolvesBareProductIDs(t *testing.T) {
	c := newTestClient(t, false, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cart/u1":
			io.WriteString(w, `{"items":[{"productId":"p1","quantity":1}]}`)
		case "/products/p1":
			io.WriteString(w, `{"id":"p1","name":"Mug","price":12,"stock":5}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	cart, err := c.FetchCart(context.Background(), "u1")
	if err != nil {
		t.Fatalf("fetch cart: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Name != "Mug" {
		t.Fatalf("expected bare id joined with product detail, got %+v", cart.Items)
	}
}

func TestFetchCartDropsUnresolvableLines(t *testing.T) {
	c := newTestClient(t, false, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cart/u1":
			io.WriteString(w, `{"items":[{"productId":"ghost","quantity":1},{"productId":"p1","quantity":1}]}`)
		case "/products/ghost":
			w.WriteHeader(http.StatusNotFound)
		case "/products/p1":
			io.WriteString(w, `{"id":"p1","name":"Mug","price":12,"stock":5}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	cart, err := c.FetchCart(context.Background(), "u1")
	if err != nil {
		t.Fatalf("fetch cart: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != "p1" {
		t.Fatalf("expected ghost line dropped, got %+v", cart.Items)
	}
}

func TestCreateCheckoutSessionReturnsURL(t *testing.T) {
	c := newTestClient(t, false, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transactions/create-checkout-session" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"url":"https://pay.example.com/cs_123"}`)
	}))

	session, err := c.CreateCheckoutSession(context.Background(), domain.CheckoutSessionRequest{UserID: "u1"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if session.URL != "https://pay.example.com/cs_123" {
		t.Fatalf("unexpected url %q", session.URL)
	}
}

func TestCreateCheckoutSessionMissingURL(t *testing.T) {
	c := newTestClient(t, false, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{}`)
	}))

	if _, err := c.CreateCheckoutSession(context.Background(), domain.CheckoutSessionRequest{UserID: "u1"}); !errors.Is(err, ErrNoRedirectURL) {
		t.Fatalf("expected ErrNoRedirectURL, got %v", err)
	}
}

func TestLoginUnwrapsNestedUser(t *testing.T) {
	c := newTestClient(t, false, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"user":{"_id":"u1","username":"ada","email":"ada@example.com","role":"admin"}}`)
	}))

	user, err := c.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != "u1" || user.Name != "ada" || !user.Admin {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestOrdersNormalizesPopulatedUserIDs(t *testing.T) {
	c := newTestClient(t, false, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders" || r.URL.Query().Get("userId") != "u1" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		io.WriteString(w, `{"data":[{"_id":"t1","userId":{"_id":"u1","name":"Ada"},"paymentStatus":"completed","totalAmount":57,"items":[{"name":"Book","price":45,"quantity":1}]}]}`)
	}))

	orders, err := c.Orders(context.Background(), "u1")
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	order := orders[0]
	if order.ID != "t1" || order.UserID != "u1" {
		t.Fatalf("unexpected identity %+v", order)
	}
	if order.Status != domain.PaymentCompleted || order.TotalCents != 5700 {
		t.Fatalf("unexpected order %+v", order)
	}
	if order.Lines[0].PriceCents != 4500 {
		t.Fatalf("expected line price 4500, got %d", order.Lines[0].PriceCents)
	}
}

func TestTransactionsRejectUnknownStatus(t *testing.T) {
	c := newTestClient(t, false, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `[{"id":"t1","userId":"u1","paymentStatus":"mystery","totalAmount":10}]`)
	}))

	if _, err := c.Transactions(context.Background()); err == nil {
		t.Fatal("expected error for unknown payment status")
	}
}
