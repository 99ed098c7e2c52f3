package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"vibetracker/internal/domain"
)

type ContentStore struct {
	db *sqlx.DB
}

func NewContentStore(db *sqlx.DB) *ContentStore {
	return &ContentStore{db: db}
}

// Upsert inserts the summary or refreshes it when the incoming copy is newer.
// It returns the row id either way.
func (s *ContentStore) Upsert(ctx context.Context, c *domain.ContentSummary) (int64, error) {
	query := `
		INSERT INTO content_summaries (
			source_id, external_id, influencer, platform, summary, sentiment,
			link, published_at, last_modified
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		ON CONFLICT (source_id, external_id) DO UPDATE SET
			influencer = EXCLUDED.influencer,
			platform = EXCLUDED.platform,
			summary = EXCLUDED.summary,
			sentiment = EXCLUDED.sentiment,
			link = EXCLUDED.link,
			last_modified = EXCLUDED.last_modified
		WHERE content_summaries.last_modified < EXCLUDED.last_modified
		RETURNING id`

	exec := GetExecutor(ctx, s.db)

	var id int64
	err := exec.QueryRowxContext(ctx, query,
		c.SourceID,
		c.ExternalID,
		c.Influencer,
		c.Platform,
		c.Summary,
		c.Sentiment,
		c.Link,
		c.PublishedAt,
		c.LastModified,
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		err = exec.QueryRowxContext(ctx,
			"SELECT id FROM content_summaries WHERE source_id = $1 AND external_id = $2",
			c.SourceID, c.ExternalID,
		).Scan(&id)
	}

	if err != nil {
		return 0, err
	}

	return id, nil
}

// GetExistingBySourceAndExternalIDs maps external ids already stored for the
// source to their last_modified time.
func (s *ContentStore) GetExistingBySourceAndExternalIDs(ctx context.Context, sourceID string, ids []int64) (map[int64]time.Time, error) {
	if len(ids) == 0 {
		return make(map[int64]time.Time), nil
	}

	query := `SELECT external_id, last_modified FROM content_summaries WHERE source_id = $1 AND external_id = ANY($2)`

	rows, err := GetExecutor(ctx, s.db).QueryxContext(ctx, query, sourceID, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]time.Time)
	for rows.Next() {
		var extID int64
		var lastMod time.Time
		if err := rows.Scan(&extID, &lastMod); err != nil {
			return nil, err
		}
		result[extID] = lastMod
	}

	return result, rows.Err()
}

// List returns the newest summaries first. Timestamp is left empty for the
// reader to derive.
func (s *ContentStore) List(ctx context.Context, limit int) ([]domain.ContentSummary, error) {
	query := `
		SELECT id, source_id, external_id, influencer, platform, summary, sentiment,
			link, published_at, last_modified
		FROM content_summaries
		ORDER BY published_at DESC
		LIMIT $1`

	var summaries []domain.ContentSummary
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &summaries, query, limit); err != nil {
		return nil, err
	}
	return summaries, nil
}
