package notifier

import (
	"context"
	"log/slog"
	"sync"

	"vibetracker/internal/domain"
)

// LogSink writes each notification as a structured log record.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With("sink", "log")}
}

func (s *LogSink) Deliver(ctx context.Context, n domain.Notification) error {
	level := slog.LevelInfo
	if n.Variant == domain.VariantDestructive {
		level = slog.LevelWarn
	}

	s.logger.Log(ctx, level, n.Title,
		"kind", n.Kind,
		"message", n.Message,
		"influencer_id", n.InfluencerID,
	)
	return nil
}

// Inbox keeps the most recent notifications in memory, newest last.
type Inbox struct {
	mu    sync.Mutex
	items []domain.Notification
	size  int
}

func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = 50
	}
	return &Inbox{size: size}
}

func (i *Inbox) Deliver(_ context.Context, n domain.Notification) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.items = append(i.items, n)
	if over := len(i.items) - i.size; over > 0 {
		i.items = append(i.items[:0:0], i.items[over:]...)
	}
	return nil
}

func (i *Inbox) Recent() []domain.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make([]domain.Notification, len(i.items))
	copy(out, i.items)
	return out
}

// Kinds returns the kinds of the buffered notifications in delivery order.
func (i *Inbox) Kinds() []domain.NotificationKind {
	i.mu.Lock()
	defer i.mu.Unlock()

	kinds := make([]domain.NotificationKind, len(i.items))
	for idx, n := range i.items {
		kinds[idx] = n.Kind
	}
	return kinds
}
