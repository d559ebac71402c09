package events

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CatalogChannel is the pub/sub channel carrying catalog-changed timestamps.
const CatalogChannel = "catalog:updated"

// RedisCatalogNotifier fans catalog-changed signals out to every running
// instance so their caches refresh. The message is the mutation timestamp in
// milliseconds, nothing more.
type RedisCatalogNotifier struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisCatalogNotifier(client *redis.Client, log *zap.Logger) *RedisCatalogNotifier {
	return &RedisCatalogNotifier{client: client, log: log}
}

func (n *RedisCatalogNotifier) PublishCatalogUpdated(ctx context.Context, timestamp int64) error {
	return n.client.Publish(ctx, CatalogChannel, strconv.FormatInt(timestamp, 10)).Err()
}

// Listen subscribes to the catalog channel and invokes fn for every message
// until ctx is cancelled. Run it in its own goroutine.
func (n *RedisCatalogNotifier) Listen(ctx context.Context, fn func(timestamp int64)) {
	pubsub := n.client.Subscribe(ctx, CatalogChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			ts, err := strconv.ParseInt(msg.Payload, 10, 64)
			if err != nil {
				n.log.Warn("ignoring malformed catalog update", zap.String("payload", msg.Payload))
				continue
			}
			fn(ts)
		}
	}
}
