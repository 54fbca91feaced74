package engine

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

const DefaultReloadChannel = "skills:engines:reload"

// RedisNotifier distributes engine-config invalidation across worker
// processes: the API publishes on settings change, every worker's
// subscription drops its resolver cache.
type RedisNotifier struct {
	rdb     *redis.Client
	channel string
}

func NewRedisNotifier(rdb *redis.Client, channel string) *RedisNotifier {
	if channel == "" {
		channel = DefaultReloadChannel
	}
	return &RedisNotifier{rdb: rdb, channel: channel}
}

// NotifyReload publishes an invalidation message.
func (n *RedisNotifier) NotifyReload(ctx context.Context) error {
	return n.rdb.Publish(ctx, n.channel, "reload").Err()
}

// Subscribe blocks until ctx is done, calling invalidate for every message
// on the reload channel. Run it in its own goroutine.
func (n *RedisNotifier) Subscribe(ctx context.Context, invalidate func()) {
	sub := n.rdb.Subscribe(ctx, n.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			log.Printf("[engine] reload notification received")
			invalidate()
		}
	}
}
