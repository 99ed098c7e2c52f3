package domain

import "time"

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ContentSummary is a feed item describing one piece of influencer content.
// It is linked to an Influencer by display name only. Timestamp is a relative
// label derived from PublishedAt when the feed is read and is never stored.
type ContentSummary struct {
	ID           int64     `json:"id" db:"id"`
	SourceID     string    `json:"source_id" db:"source_id"`
	ExternalID   int64     `json:"external_id" db:"external_id"`
	Influencer   string    `json:"influencer" db:"influencer"`
	Platform     Platform  `json:"platform" db:"platform"`
	Summary      string    `json:"summary" db:"summary"`
	Sentiment    Sentiment `json:"sentiment" db:"sentiment"`
	Timestamp    string    `json:"timestamp" db:"-"`
	Link         string    `json:"link" db:"link"`
	PublishedAt  time.Time `json:"published_at" db:"published_at"`
	LastModified time.Time `json:"last_modified" db:"last_modified"`
}

type FeedState struct {
	ID           int64     `db:"id"`
	SourceID     string    `db:"source_id"`
	LastSyncedAt time.Time `db:"last_synced_at"`
	TotalSynced  int64     `db:"total_synced"`
}

// FeedSyncStats holds statistics about a feed sync run.
type FeedSyncStats struct {
	SourceID string
	Fetched  int
	New      int
	Updated  int
	Skipped  int
	Errors   int
	Duration time.Duration
}
