package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"storefront-service/controllers"
	"storefront-service/database"
	"storefront-service/models"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.data[key]
	if !ok {
		return "", database.ErrKeyNotFound
	}
	return val, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

type fakeCatalogRepo struct {
	mu       sync.Mutex
	products []models.Product
}

func (f *fakeCatalogRepo) GetAll(_ context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *fakeCatalogRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogRepo) GetByCategory(_ context.Context, category string) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, p := range f.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) ReplaceAll(_ context.Context, products []models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = make([]models.Product, len(products))
	copy(f.products, products)
	return nil
}

func (f *fakeCatalogRepo) EnsureIndexes(_ context.Context) error { return nil }

func setupRouter(t *testing.T) (*gin.Engine, *services.CartService, *services.OrderService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	kv := newFakeKV()
	store := database.NewChunkedListStore[models.Order](kv, 500000, 20)
	orders := services.NewOrderService(store, log)
	cart := services.NewCartService(kv, orders, nil, log)

	repo := &fakeCatalogRepo{products: []models.Product{
		{ID: "p1", Name: "Cute Dress", Price: 500, Category: "Dresses", Available: true},
		{ID: "p2", Name: "Cotton Shirt", Price: 300, Category: "Shirts", Available: true},
	}}
	catalog := services.NewCatalogService(repo, nil, log)

	cartController := controllers.NewCartController(cart, catalog)
	orderController := controllers.NewOrderController(orders)

	r := gin.New()
	r.GET("/cart", cartController.GetCart)
	r.POST("/cart/items", cartController.AddItem)
	r.PATCH("/cart/items/:product_id", cartController.UpdateQuantity)
	r.DELETE("/cart/items/:product_id", cartController.RemoveItem)
	r.DELETE("/cart", cartController.ClearCart)
	r.POST("/cart/checkout", cartController.Checkout)
	r.GET("/orders", orderController.GetOrders)
	r.GET("/orders/:order_id", orderController.GetOrderByID)
	r.POST("/orders/:order_id/read", orderController.MarkRead)

	return r, cart, orders
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddItemAndGetCart(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/cart/items", `{"product_id":"p1","quantity":2,"color":"red"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, w.Code)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.TotalItems)
	assert.Equal(t, 1000.0, cart.TotalPrice)
}

func TestAddUnknownProduct(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/cart/items", `{"product_id":"missing","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutFlow(t *testing.T) {
	r, _, orders := setupRouter(t)

	doJSON(r, http.MethodPost, "/cart/items", `{"product_id":"p1","quantity":2}`)
	doJSON(r, http.MethodPost, "/cart/items", `{"product_id":"p2","quantity":1}`)

	w := doJSON(r, http.MethodPost, "/cart/checkout",
		`{"customer_name":"Sara","customer_phone":"0100000000","customer_address":"12 Main St"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	orderID := resp["order_id"]
	require.NotEmpty(t, orderID)

	order, ok := orders.GetByID(orderID)
	require.True(t, ok)
	assert.Equal(t, 1300.0, order.TotalPrice)

	// The cart is empty afterward.
	w = doJSON(r, http.MethodGet, "/cart", "")
	var cart models.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	assert.Empty(t, cart.Items)
}

func TestCheckoutEmptyCart(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/cart/checkout",
		`{"customer_name":"Sara","customer_phone":"0100000000","customer_address":"12 Main St"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderNotFound(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/orders/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkOrderRead(t *testing.T) {
	r, _, orders := setupRouter(t)

	doJSON(r, http.MethodPost, "/cart/items", `{"product_id":"p1","quantity":1}`)
	w := doJSON(r, http.MethodPost, "/cart/checkout",
		`{"customer_name":"Sara","customer_phone":"0100000000","customer_address":"12 Main St"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Equal(t, 1, orders.UnreadCount())

	w = doJSON(r, http.MethodPost, "/orders/"+resp["order_id"]+"/read", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, orders.UnreadCount())
}
