package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dlsms/dlsms-backend/internal/config"
	ws "github.com/dlsms/dlsms-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
)

// EventPublisher fans classroom events out to connected members.
type EventPublisher interface {
	Publish(ctx context.Context, event ws.ClassroomEvent) error
}

// RedisEventPublisher publishes classroom events on per-classroom Redis
// channels, so every server instance can relay them.
type RedisEventPublisher struct {
	rdb *redis.Client
}

// NewRedisEventPublisher creates a new RedisEventPublisher.
func NewRedisEventPublisher(rdb *redis.Client) *RedisEventPublisher {
	return &RedisEventPublisher{rdb: rdb}
}

func (p *RedisEventPublisher) Publish(ctx context.Context, event ws.ClassroomEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	channel := config.CacheKey.ClassroomEventsChannel(event.ClassroomID.String())
	return p.rdb.Publish(ctx, channel, payload).Err()
}
