package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"vibetracker/internal/config"
	"vibetracker/internal/domain"
	"vibetracker/internal/metrics"
)

// FeedSyncService copies content summaries from a source into the content
// store, skipping items that are stale or already up to date.
type FeedSyncService struct {
	source    FeedSource
	contents  ContentStore
	feedState FeedStateStore
	txManager TransactionManager
	announcer Announcer
	metrics   *metrics.Metrics
	logger    *slog.Logger
	config    config.SyncConfig
	clock     clockwork.Clock
}

func NewFeedSyncService(
	source FeedSource,
	contents ContentStore,
	feedState FeedStateStore,
	txManager TransactionManager,
	announcer Announcer,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg config.SyncConfig,
	clock clockwork.Clock,
) *FeedSyncService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &FeedSyncService{
		source:    source,
		contents:  contents,
		feedState: feedState,
		txManager: txManager,
		announcer: announcer,
		metrics:   m,
		logger:    logger.With("source", source.ID()),
		config:    cfg,
		clock:     clock,
	}
}

func (s *FeedSyncService) Sync(ctx context.Context) (*domain.FeedSyncStats, error) {
	stats, err := s.sync(ctx)
	if err != nil {
		s.metrics.IncFeedSync("error")
		return stats, err
	}
	s.metrics.IncFeedSync("ok")
	return stats, nil
}

func (s *FeedSyncService) sync(ctx context.Context) (*domain.FeedSyncStats, error) {
	startTime := s.clock.Now()
	s.logger.Info("starting feed sync",
		"source_name", s.source.Name(),
		"max_pages", s.config.MaxPagesPerSync,
		"max_historical_days", s.config.MaxHistoricalDays,
	)

	summaries, err := s.source.FetchSummaries(ctx, s.config.MaxPagesPerSync)
	if err != nil {
		return nil, fmt.Errorf("fetch summaries: %w", err)
	}

	s.logger.Info("fetched summaries from source", "count", len(summaries))

	cutoff := s.clock.Now().AddDate(0, 0, -s.config.MaxHistoricalDays)
	summaries = filterByDate(summaries, cutoff)
	s.logger.Debug("filtered by date", "remaining", len(summaries))

	toSync, existing, err := s.filterForSync(ctx, summaries)
	if err != nil {
		return nil, fmt.Errorf("filter for sync: %w", err)
	}

	s.logger.Info("summaries to sync", "count", len(toSync))

	stats := &domain.FeedSyncStats{
		SourceID: s.source.ID(),
		Fetched:  len(summaries),
		Skipped:  len(summaries) - len(toSync),
	}

	for i := range toSync {
		summary := &toSync[i]
		_, isUpdate := existing[summary.ExternalID]

		if err := s.save(ctx, summary); err != nil {
			s.logger.Warn("failed to save summary",
				"external_id", summary.ExternalID,
				"error", err,
			)
			stats.Errors++
			continue
		}

		if isUpdate {
			stats.Updated++
		} else {
			stats.New++
		}
	}

	if err := s.updateFeedState(ctx, stats); err != nil {
		return stats, fmt.Errorf("update feed state: %w", err)
	}

	stats.Duration = s.clock.Since(startTime)

	s.logger.Info("feed sync completed",
		"new", stats.New,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)

	s.announce(ctx, stats)

	return stats, nil
}

func filterByDate(summaries []domain.ContentSummary, cutoff time.Time) []domain.ContentSummary {
	var filtered []domain.ContentSummary
	for _, c := range summaries {
		if c.PublishedAt.After(cutoff) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// filterForSync keeps summaries that are new or modified since the stored
// copy. It also returns the stored modification times it looked up.
func (s *FeedSyncService) filterForSync(ctx context.Context, summaries []domain.ContentSummary) ([]domain.ContentSummary, map[int64]time.Time, error) {
	if len(summaries) == 0 {
		return nil, nil, nil
	}

	externalIDs := make([]int64, len(summaries))
	for i, c := range summaries {
		externalIDs[i] = c.ExternalID
	}

	existing, err := s.contents.GetExistingBySourceAndExternalIDs(ctx, s.source.ID(), externalIDs)
	if err != nil {
		return nil, nil, err
	}

	var toSync []domain.ContentSummary
	for _, c := range summaries {
		lastMod, exists := existing[c.ExternalID]
		if !exists || c.LastModified.After(lastMod) {
			toSync = append(toSync, c)
		}
	}

	return toSync, existing, nil
}

func (s *FeedSyncService) save(ctx context.Context, summary *domain.ContentSummary) error {
	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.contents.Upsert(txCtx, summary); err != nil {
			return fmt.Errorf("upsert summary: %w", err)
		}
		return nil
	})
}

func (s *FeedSyncService) updateFeedState(ctx context.Context, stats *domain.FeedSyncStats) error {
	state, err := s.feedState.Get(ctx, s.source.ID())
	if err != nil {
		return err
	}

	state.SourceID = s.source.ID()
	state.LastSyncedAt = s.clock.Now()
	state.TotalSynced += int64(stats.New + stats.Updated)

	return s.feedState.Update(ctx, state)
}

func (s *FeedSyncService) announce(ctx context.Context, stats *domain.FeedSyncStats) {
	if s.announcer == nil || stats.New+stats.Updated == 0 {
		return
	}

	err := s.announcer.Notify(ctx, domain.Notification{
		Kind:    domain.KindFeedUpdated,
		Title:   "Feed Updated",
		Message: fmt.Sprintf("%d new and %d updated content summaries from %s.", stats.New, stats.Updated, s.source.Name()),
	})
	if err != nil {
		s.logger.Warn("failed to announce feed update", "error", err)
	}
}
