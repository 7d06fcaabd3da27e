package events

import (
	"context"
	"encoding/json"

	"pet-custody-go/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher fans events out over a Redis pub/sub channel for the
// notification dispatcher to pick up.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	log     logger.Logger
}

func NewRedisPublisher(client *redis.Client, channel string, log logger.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, log: log}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.log.InternalError("events: marshal failed", err, "event", event.Name)
		return
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.log.InternalError("events: redis publish failed", err, "event", event.Name, "channel", p.channel)
	}
}
