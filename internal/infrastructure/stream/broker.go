package stream

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// TopicStoreEvents is the stream all store lifecycle events are published to.
const TopicStoreEvents = "store:events"

// Broker publishes event payloads to a redis stream. The partition key travels
// with each message so consumers can shard while keeping per-store order.
// Sends go through a circuit breaker: a dead broker fails fast instead of
// stalling the outbox dispatcher.
type Broker struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewBroker(client *redis.Client, logger *zap.Logger) *Broker {
	if logger == nil {
		logger = zap.NewNop()
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "event-broker",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("broker circuit state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &Broker{
		client:  client,
		breaker: breaker,
		logger:  logger,
	}
}

// Send appends the payload to the topic stream keyed by the partition key.
func (b *Broker) Send(ctx context.Context, topic, key string, payload []byte) error {
	_, err := b.breaker.Execute(func() (any, error) {
		return b.client.XAdd(ctx, &redis.XAddArgs{
			Stream: topic,
			Values: map[string]any{
				"key":  key,
				"data": payload,
			},
		}).Result()
	})
	return err
}
