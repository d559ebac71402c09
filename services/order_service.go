package services

import (
	"context"
	"fmt"
	"sync"

	"storefront-service/database"
	"storefront-service/models"

	"go.uber.org/zap"
)

// OrdersKey is the key-value entry the order sequence persists under.
const OrdersKey = "orders"

// OrderService keeps the order sequence newest-first, persists the full
// sequence through the chunked store on every mutation, and maintains the
// unread count as a value derived from the items, never stored on its own.
type OrderService struct {
	store *database.ChunkedListStore[models.Order]
	log   *zap.Logger

	mu     sync.RWMutex
	orders []models.Order
	unread int
}

func NewOrderService(store *database.ChunkedListStore[models.Order], log *zap.Logger) *OrderService {
	return &OrderService{
		store:  store,
		log:    log,
		orders: []models.Order{},
	}
}

// Load reads the persisted order sequence. Storage failures, including a
// missing chunk, are logged and leave the service with an empty sequence;
// they never propagate to callers.
func (s *OrderService) Load(ctx context.Context) {
	orders, err := s.store.Load(ctx, OrdersKey)
	if err != nil {
		s.log.Error("failed to load orders, starting empty", zap.Error(err))
		orders = []models.Order{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = orders
	s.unread = countUnread(orders)
}

// Orders returns the order sequence, newest first.
func (s *OrderService) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// UnreadCount returns the number of orders not yet marked read.
func (s *OrderService) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// Append inserts the order at the head of the sequence and persists the full
// sequence. On a persistence failure the in-memory sequence is restored so
// callers never observe a false success.
func (s *OrderService) Append(ctx context.Context, order models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Order, 0, len(s.orders)+1)
	next = append(next, order)
	next = append(next, s.orders...)

	if err := s.store.Save(ctx, OrdersKey, next); err != nil {
		s.log.Error("failed to persist orders", zap.Error(err), zap.String("order_id", order.ID))
		return err
	}

	s.orders = next
	s.unread = countUnread(next)
	return nil
}

// MarkRead flags the order as read and persists the full sequence.
func (s *OrderService) MarkRead(ctx context.Context, orderID string) error {
	return s.mutate(ctx, orderID, func(o *models.Order) {
		o.IsRead = true
	})
}

// UpdateStatus moves the order to the given status and persists the full
// sequence.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	if !models.ValidStatus(status) {
		return fmt.Errorf("invalid order status %q", status)
	}
	return s.mutate(ctx, orderID, func(o *models.Order) {
		o.Status = status
	})
}

// GetByID scans the in-memory sequence. The second return is false when no
// order has the id; callers render a not-found state rather than assume
// presence.
func (s *OrderService) GetByID(orderID string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return models.Order{}, false
}

func (s *OrderService) mutate(ctx context.Context, orderID string, apply func(*models.Order)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Order, len(s.orders))
	copy(next, s.orders)

	found := false
	for i := range next {
		if next[i].ID == orderID {
			apply(&next[i])
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("order %q not found", orderID)
	}

	if err := s.store.Save(ctx, OrdersKey, next); err != nil {
		s.log.Error("failed to persist orders", zap.Error(err), zap.String("order_id", orderID))
		return err
	}

	s.orders = next
	s.unread = countUnread(next)
	return nil
}

func countUnread(orders []models.Order) int {
	n := 0
	for _, o := range orders {
		if !o.IsRead {
			n++
		}
	}
	return n
}
