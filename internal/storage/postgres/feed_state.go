package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"vibetracker/internal/domain"
)

type FeedStateStore struct {
	db *sqlx.DB
}

func NewFeedStateStore(db *sqlx.DB) *FeedStateStore {
	return &FeedStateStore{db: db}
}

func (s *FeedStateStore) Get(ctx context.Context, sourceID string) (*domain.FeedState, error) {
	var state domain.FeedState
	query := `
		SELECT id, source_id, last_synced_at, total_synced
		FROM feed_state
		WHERE source_id = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &state, query, sourceID)
	if errors.Is(err, sql.ErrNoRows) {
		// Never synced
		return &domain.FeedState{SourceID: sourceID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *FeedStateStore) Update(ctx context.Context, state *domain.FeedState) error {
	query := `
		INSERT INTO feed_state (source_id, last_synced_at, total_synced)
		VALUES ($1, $2, $3)
		ON CONFLICT (source_id) DO UPDATE SET
			last_synced_at = EXCLUDED.last_synced_at,
			total_synced = EXCLUDED.total_synced`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		state.SourceID,
		state.LastSyncedAt,
		state.TotalSynced,
	)
	return err
}
