package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	dom "github.com/nicolaskelepuris/refactor-rails-app/internal/domain"
)

const publishTimeout = 10 * time.Second

// Queue buffers welcome notifications and publishes them from one goroutine.
// Enqueueing never blocks: when the buffer is full the event is dropped and logged.
type Queue struct {
	pub Publisher
	ch  chan UserCreatedEvent

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewQueue starts the publishing goroutine. Call Close to drain and stop it.
func NewQueue(pub Publisher, size int) *Queue {
	if size <= 0 {
		size = 1
	}
	q := &Queue{
		pub:  pub,
		ch:   make(chan UserCreatedEvent, size),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

// SendWelcome enqueues the welcome notification for u.
func (q *Queue) SendWelcome(_ context.Context, u dom.User) {
	ev := UserCreatedEvent{UserID: u.ID, Name: u.Name, Email: u.Email}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		slog.Warn("notification queue closed, dropping welcome", slog.Int64("user_id", u.ID))
		return
	}
	select {
	case q.ch <- ev:
	default:
		slog.Warn("notification queue full, dropping welcome", slog.Int64("user_id", u.ID))
	}
}

// Close stops accepting events and waits until the buffered ones are published
// or ctx ends.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) run() {
	defer close(q.done)
	for ev := range q.ch {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := q.pub.Publish(ctx, ev); err != nil {
			slog.Error("publish welcome failed",
				slog.Int64("user_id", ev.UserID),
				slog.String("error", err.Error()),
			)
		}
		cancel()
	}
}
