package service

import (
	"context"

	"github.com/jonboulle/clockwork"

	"vibetracker/internal/domain"
	"vibetracker/internal/feed"
)

type sourceFeed struct {
	source   FeedSource
	maxPages int
}

// NewSourceFeed reads the feed straight from source on every call.
func NewSourceFeed(source FeedSource, maxPages int) FeedReader {
	return &sourceFeed{source: source, maxPages: maxPages}
}

func (f *sourceFeed) Summaries(ctx context.Context) ([]domain.ContentSummary, error) {
	return f.source.FetchSummaries(ctx, f.maxPages)
}

type storeFeed struct {
	store ContentStore
	limit int
	clock clockwork.Clock
}

// NewStoreFeed reads the newest limit summaries from the content store and
// labels each one relative to the clock at read time.
func NewStoreFeed(store ContentStore, limit int, clock clockwork.Clock) FeedReader {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &storeFeed{store: store, limit: limit, clock: clock}
}

func (f *storeFeed) Summaries(ctx context.Context) ([]domain.ContentSummary, error) {
	summaries, err := f.store.List(ctx, f.limit)
	if err != nil {
		return nil, err
	}

	now := f.clock.Now()
	for i := range summaries {
		summaries[i].Timestamp = feed.RelativeLabel(now, summaries[i].PublishedAt)
	}
	return summaries, nil
}
