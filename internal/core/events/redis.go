package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DataChangedChannel is the Redis pub/sub channel shared by every API instance.
const DataChangedChannel = "church:data-changed"

// RedisBus publishes notifications through Redis so that every API instance
// invalidates its sessions, including the one that made the change.
type RedisBus struct {
	rdb    *redis.Client
	local  *LocalBus
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRedisClient creates a Redis client from the given URL.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

// NewRedisBus subscribes to DataChangedChannel and starts relaying messages
// to local subscribers until Close.
func NewRedisBus(ctx context.Context, rdb *redis.Client) (*RedisBus, error) {
	pubsub := rdb.Subscribe(ctx, DataChangedChannel)
	// Wait for the subscription confirmation so no publish is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribing %s: %w", DataChangedChannel, err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	b := &RedisBus{rdb: rdb, local: NewLocalBus(), cancel: cancel, done: make(chan struct{})}
	go b.run(runCtx, pubsub)

	log.Info().Str("channel", DataChangedChannel).Msg("📡 Data-changed bus subscribed to Redis")
	return b, nil
}

func (b *RedisBus) run(ctx context.Context, pubsub *redis.PubSub) {
	defer close(b.done)
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
			var ev DataChanged
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Warn().Err(err).Str("payload", msg.Payload).Msg("⚠️ Ignoring malformed data-changed event")
				continue
			}
			b.local.dispatch(ev)
		}
	}
}

func (b *RedisBus) Publish(ctx context.Context, ev DataChanged) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal data-changed event: %w", err)
	}
	if err := b.rdb.Publish(ctx, DataChangedChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish data-changed event: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(h Handler) func() {
	return b.local.Subscribe(h)
}

func (b *RedisBus) Close() error {
	b.cancel()
	<-b.done
	return b.local.Close()
}
