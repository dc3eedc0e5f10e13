package notify

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	readBlock       = time.Second
	errorRetryDelay = time.Second

	// Pending entries idle this long belonged to a consumer that died or
	// failed to handle them, and are claimed by this one.
	reclaimMinIdle  = time.Minute
	reclaimInterval = 30 * time.Second
	reclaimBatch    = 10
)

// reclaimSchedule pages through the group's pending entries with XAUTOCLAIM.
// A full pass starts every interval and continues one page per loop turn
// until the server returns cursor 0-0.
type reclaimSchedule struct {
	every  time.Duration
	next   time.Time
	cursor string
}

func newReclaimSchedule(every time.Duration) *reclaimSchedule {
	return &reclaimSchedule{every: every, cursor: "0-0"}
}

func (r *reclaimSchedule) due(now time.Time) bool {
	return r.cursor != "0-0" || !now.Before(r.next)
}

func (r *reclaimSchedule) advance(now time.Time, cursor string) {
	r.cursor = cursor
	if cursor == "0-0" {
		r.next = now.Add(r.every)
	}
}

// Consumer reads registration events from a Redis stream through a consumer
// group and acknowledges each one after it was handled.
type Consumer struct {
	rdb     *redis.Client
	handler *Handler
	stream  string
	group   string
	name    string
	reclaim *reclaimSchedule
}

func NewConsumer(rdb *redis.Client, h *Handler, stream, group, name string) *Consumer {
	return &Consumer{
		rdb:     rdb,
		handler: h,
		stream:  stream,
		group:   group,
		name:    name,
		reclaim: newReclaimSchedule(reclaimInterval),
	}
}

// EnsureGroup creates the consumer group (and the stream) when missing.
func (c *Consumer) EnsureGroup(ctx context.Context) error {
	err := c.rdb.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// Run consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	slog.Info("starting message consumer",
		slog.String("stream", c.stream),
		slog.String("group", c.group),
		slog.String("consumer", c.name),
	)
	for {
		select {
		case <-ctx.Done():
			slog.Info("consumer stopped")
			return nil
		default:
		}
		if c.reclaim.due(time.Now()) {
			if err := c.reclaimPending(ctx); err != nil && ctx.Err() == nil {
				slog.Error("error reclaiming pending messages", slog.String("error", err.Error()))
			}
		}
		if err := c.consume(ctx); err != nil && ctx.Err() == nil {
			slog.Error("error consuming messages", slog.String("error", err.Error()))
			time.Sleep(errorRetryDelay)
		}
	}
}

func (c *Consumer) consume(ctx context.Context) error {
	streams, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.name,
		Streams:  []string{c.stream, ">"},
		Count:    1,
		Block:    readBlock,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, s := range streams {
		c.handle(ctx, s.Messages)
	}
	return nil
}

// reclaimPending claims one page of entries left unacknowledged by any
// consumer for longer than reclaimMinIdle and handles them again.
func (c *Consumer) reclaimPending(ctx context.Context) error {
	msgs, cursor, err := c.rdb.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   c.stream,
		Group:    c.group,
		Consumer: c.name,
		MinIdle:  reclaimMinIdle,
		Start:    c.reclaim.cursor,
		Count:    reclaimBatch,
	}).Result()
	if err != nil {
		c.reclaim.advance(time.Now(), "0-0")
		return err
	}
	if len(msgs) > 0 {
		slog.Info("reclaimed pending messages", slog.Int("count", len(msgs)))
	}
	c.handle(ctx, msgs)
	c.reclaim.advance(time.Now(), cursor)
	return nil
}

func (c *Consumer) handle(ctx context.Context, msgs []redis.XMessage) {
	for _, msg := range msgs {
		if err := c.process(ctx, msg); err != nil {
			slog.Error("failed to process message",
				slog.String("message_id", msg.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if err := c.rdb.XAck(ctx, c.stream, c.group, msg.ID).Err(); err != nil {
			slog.Error("failed to ACK message",
				slog.String("message_id", msg.ID),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) error {
	ev, err := decodeValues(msg.Values)
	if errors.Is(err, errUnknownEvent) {
		slog.Warn("skipping message", slog.String("message_id", msg.ID), slog.String("error", err.Error()))
		return nil
	}
	if err != nil {
		return err
	}
	return c.handler.HandleUserCreated(ctx, ev)
}
