package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"vibetracker/internal/domain"
)

type ContentStore interface {
	Upsert(ctx context.Context, summary *domain.ContentSummary) (int64, error)
	GetExistingBySourceAndExternalIDs(ctx context.Context, sourceID string, ids []int64) (map[int64]time.Time, error)
	List(ctx context.Context, limit int) ([]domain.ContentSummary, error)
}

type FeedStateStore interface {
	Get(ctx context.Context, sourceID string) (*domain.FeedState, error)
	Update(ctx context.Context, state *domain.FeedState) error
}

type FeedSource interface {
	ID() string
	Name() string
	FetchSummaries(ctx context.Context, maxPages int) ([]domain.ContentSummary, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Announcer delivers an immediate notification.
type Announcer interface {
	Notify(ctx context.Context, n domain.Notification) error
}
