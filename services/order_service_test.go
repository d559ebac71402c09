package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"storefront-service/database"
	"storefront-service/models"
	"storefront-service/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestOrders(kv database.KV) *services.OrderService {
	store := database.NewChunkedListStore[models.Order](kv, 500000, 20)
	return services.NewOrderService(store, zap.NewNop())
}

func testOrder(id string) models.Order {
	return models.Order{
		ID:     id,
		Items:  []models.CartItem{{Product: product("p1", "Cute Dress", 500), Quantity: 1}},
		Status: models.OrderStatusPending,
	}
}

func TestUnreadAccounting(t *testing.T) {
	orders := newTestOrders(newFakeKV())
	ctx := context.Background()

	for _, id := range []string{"o1", "o2", "o3"} {
		require.NoError(t, orders.Append(ctx, testOrder(id)))
	}
	assert.Equal(t, 3, orders.UnreadCount())

	require.NoError(t, orders.MarkRead(ctx, "o2"))
	assert.Equal(t, 2, orders.UnreadCount())

	// Marking the same order again must not change the count.
	require.NoError(t, orders.MarkRead(ctx, "o2"))
	assert.Equal(t, 2, orders.UnreadCount())
}

func TestOrdersNewestFirst(t *testing.T) {
	orders := newTestOrders(newFakeKV())
	ctx := context.Background()

	require.NoError(t, orders.Append(ctx, testOrder("o1")))
	require.NoError(t, orders.Append(ctx, testOrder("o2")))
	require.NoError(t, orders.Append(ctx, testOrder("o3")))

	got := orders.Orders()
	require.Len(t, got, 3)
	assert.Equal(t, "o3", got[0].ID)
	assert.Equal(t, "o1", got[2].ID)
}

func TestGetByIDNotFound(t *testing.T) {
	orders := newTestOrders(newFakeKV())

	_, ok := orders.GetByID("missing")
	assert.False(t, ok)
}

func TestOrdersPersistAcrossInstances(t *testing.T) {
	kv := newFakeKV()
	ctx := context.Background()

	first := newTestOrders(kv)
	require.NoError(t, first.Append(ctx, testOrder("o1")))
	require.NoError(t, first.Append(ctx, testOrder("o2")))
	require.NoError(t, first.MarkRead(ctx, "o1"))

	second := newTestOrders(kv)
	second.Load(ctx)

	got := second.Orders()
	require.Len(t, got, 2)
	assert.Equal(t, "o2", got[0].ID)
	assert.Equal(t, 1, second.UnreadCount())
}

func TestUpdateStatus(t *testing.T) {
	orders := newTestOrders(newFakeKV())
	ctx := context.Background()

	require.NoError(t, orders.Append(ctx, testOrder("o1")))
	require.NoError(t, orders.UpdateStatus(ctx, "o1", models.OrderStatusShipped))

	got, ok := orders.GetByID("o1")
	require.True(t, ok)
	assert.Equal(t, models.OrderStatusShipped, got.Status)

	assert.Error(t, orders.UpdateStatus(ctx, "o1", models.OrderStatus("lost")))
	assert.Error(t, orders.UpdateStatus(ctx, "missing", models.OrderStatusShipped))
}

func TestAppendFailureRetainsState(t *testing.T) {
	kv := newFakeKV()
	orders := newTestOrders(kv)
	ctx := context.Background()

	require.NoError(t, orders.Append(ctx, testOrder("o1")))

	kv.failWrites(errors.New("quota exceeded"))
	err := orders.Append(ctx, testOrder("o2"))
	require.Error(t, err)

	got := orders.Orders()
	require.Len(t, got, 1)
	assert.Equal(t, "o1", got[0].ID)
	assert.Equal(t, 1, orders.UnreadCount())
}

func TestLoadMissingChunkYieldsEmpty(t *testing.T) {
	kv := newFakeKV()
	ctx := context.Background()

	// Force the sequence across several chunks, then lose one.
	store := database.NewChunkedListStore[models.Order](kv, 256, 20)
	big := services.NewOrderService(store, zap.NewNop())
	for i := 0; i < 10; i++ {
		order := testOrder(fmt.Sprintf("o%d", i))
		order.CustomerAddress = strings.Repeat("a", 100)
		require.NoError(t, big.Append(ctx, order))
	}
	require.NotEmpty(t, kv.chunkKeys(services.OrdersKey))
	require.NoError(t, kv.Del(ctx, services.OrdersKey+":chunk:1"))

	reloaded := services.NewOrderService(store, zap.NewNop())
	reloaded.Load(ctx)

	// Missing chunk surfaces as "no data", never a crash.
	assert.Empty(t, reloaded.Orders())
	assert.Equal(t, 0, reloaded.UnreadCount())
}

func TestLargeOrderHistoryRoundTrip(t *testing.T) {
	kv := newFakeKV()
	ctx := context.Background()

	store := database.NewChunkedListStore[models.Order](kv, 512, 20)
	orders := services.NewOrderService(store, zap.NewNop())
	for i := 0; i < 20; i++ {
		order := testOrder(fmt.Sprintf("o%d", i))
		order.CustomerName = strings.Repeat("n", 50)
		require.NoError(t, orders.Append(ctx, order))
	}

	reloaded := services.NewOrderService(store, zap.NewNop())
	reloaded.Load(ctx)

	got := reloaded.Orders()
	require.Len(t, got, 20)
	assert.Equal(t, "o19", got[0].ID)
}
