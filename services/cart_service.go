package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"storefront-service/database"
	"storefront-service/models"

	"go.uber.org/zap"
)

// CartKey is the single unchunked key-value entry holding the cart lines.
const CartKey = "cart"

// OrderEventPublisher emits an event when an order is placed. Implementations
// must be best-effort; a failed publish never fails the checkout.
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order models.Order) error
}

// CartService persists the active cart lines under a plain key-value entry
// and recomputes totals from the lines on every read, so they can never
// drift from the items.
type CartService struct {
	kv        database.KV
	orders    *OrderService
	publisher OrderEventPublisher
	log       *zap.Logger

	mu    sync.Mutex
	items []models.CartItem
}

func NewCartService(kv database.KV, orders *OrderService, publisher OrderEventPublisher, log *zap.Logger) *CartService {
	return &CartService{
		kv:        kv,
		orders:    orders,
		publisher: publisher,
		log:       log,
		items:     []models.CartItem{},
	}
}

// Load reads the persisted cart. A corrupt entry is discarded and the cart
// resets to empty; parse failures never propagate.
func (s *CartService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.kv.Get(ctx, CartKey)
	if errors.Is(err, database.ErrKeyNotFound) {
		s.items = []models.CartItem{}
		return
	}
	if err != nil {
		s.log.Error("failed to load cart, starting empty", zap.Error(err))
		s.items = []models.CartItem{}
		return
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Error("corrupt cart entry, discarding", zap.Error(err))
		if delErr := s.kv.Del(ctx, CartKey); delErr != nil {
			s.log.Warn("failed to delete corrupt cart entry", zap.Error(delErr))
		}
		s.items = []models.CartItem{}
		return
	}
	if items == nil {
		items = []models.CartItem{}
	}
	s.items = items
}

// Add merges the product into the cart. A line already holding the same
// (product id, color, size) grows by quantity; otherwise a new line is
// appended.
func (s *CartService) Add(ctx context.Context, product models.Product, quantity int, color, size string) error {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneItems(s.items)
	merged := false
	for i := range next {
		if next[i].Product.ID == product.ID && next[i].Color == color && next[i].Size == size {
			next[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		next = append(next, models.CartItem{
			Product:  product,
			Quantity: quantity,
			Color:    color,
			Size:     size,
		})
	}
	return s.persist(ctx, next)
}

// Remove drops every line for the product, across all color and size
// variants.
func (s *CartService) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.CartItem, 0, len(s.items))
	for _, item := range s.items {
		if item.Product.ID != productID {
			next = append(next, item)
		}
	}
	return s.persist(ctx, next)
}

// UpdateQuantity sets the matching lines to max(1, quantity). Dropping a
// line is a distinct explicit action, never a side effect of a decrement.
func (s *CartService) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneItems(s.items)
	for i := range next {
		if next[i].Product.ID == productID {
			next[i].Quantity = quantity
		}
	}
	return s.persist(ctx, next)
}

// Clear empties the cart and erases the storage entry.
func (s *CartService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked(ctx)
}

// Cart returns the current lines with derived totals.
func (s *CartService) Cart() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Cart{
		Items:      cloneItems(s.items),
		TotalItems: totalItems(s.items),
		TotalPrice: totalPrice(s.items),
	}
}

// TotalItems returns the summed quantity across all lines.
func (s *CartService) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.items)
}

// TotalPrice returns the summed price*quantity across all lines.
func (s *CartService) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.items)
}

// PlaceOrder freezes the cart into a new pending order, appends it to the
// ledger and empties the cart. The returned id is empty when the cart has no
// lines. Prices in the order are a snapshot; later catalog changes never
// touch them.
func (s *CartService) PlaceOrder(ctx context.Context, customerName, customerPhone, customerAddress string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return "", nil
	}

	now := time.Now()
	order := models.Order{
		ID:              strconv.FormatInt(now.UnixMilli(), 10),
		Items:           cloneItems(s.items),
		TotalPrice:      totalPrice(s.items),
		CustomerName:    customerName,
		CustomerPhone:   customerPhone,
		CustomerAddress: customerAddress,
		Status:          models.OrderStatusPending,
		Date:            now.UTC().Format(time.RFC3339),
		IsRead:          false,
	}

	if err := s.orders.Append(ctx, order); err != nil {
		// Cart state is untouched; the caller can retry checkout.
		return "", err
	}

	if err := s.clearLocked(ctx); err != nil {
		s.log.Warn("order placed but cart not cleared", zap.Error(err), zap.String("order_id", order.ID))
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
			s.log.Warn("failed to publish order placed event", zap.Error(err), zap.String("order_id", order.ID))
		}
	}

	return order.ID, nil
}

func (s *CartService) clearLocked(ctx context.Context) error {
	if err := s.kv.Del(ctx, CartKey); err != nil {
		s.log.Error("failed to clear cart entry", zap.Error(err))
		return err
	}
	s.items = []models.CartItem{}
	return nil
}

// persist writes the full line array, including when it is empty, so stale
// state from a previous save never survives. On failure the in-memory cart
// keeps its prior lines.
func (s *CartService) persist(ctx context.Context, next []models.CartItem) error {
	payload, err := json.Marshal(next)
	if err != nil {
		s.log.Error("failed to serialize cart", zap.Error(err))
		return err
	}
	if err := s.kv.Set(ctx, CartKey, string(payload)); err != nil {
		s.log.Error("failed to persist cart", zap.Error(err))
		return err
	}
	s.items = next
	return nil
}

func cloneItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}

func totalItems(items []models.CartItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

func totalPrice(items []models.CartItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}
