package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher hands a registration event to delivery.
type Publisher interface {
	Publish(ctx context.Context, ev UserCreatedEvent) error
}

// StreamPublisher appends events to a Redis stream read by Consumer.
type StreamPublisher struct {
	rdb    *redis.Client
	stream string
}

func NewStreamPublisher(rdb *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{rdb: rdb, stream: stream}
}

func (p *StreamPublisher) Publish(ctx context.Context, ev UserCreatedEvent) error {
	values, err := streamValues(ev)
	if err != nil {
		return err
	}
	if err := p.rdb.XAdd(ctx, &redis.XAddArgs{Stream: p.stream, Values: values}).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

// DirectPublisher delivers in-process when no Redis is configured.
type DirectPublisher struct {
	handler *Handler
}

func NewDirectPublisher(h *Handler) *DirectPublisher {
	return &DirectPublisher{handler: h}
}

func (p *DirectPublisher) Publish(ctx context.Context, ev UserCreatedEvent) error {
	return p.handler.HandleUserCreated(ctx, ev)
}
