package feed

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"vibetracker/internal/domain"
)

const (
	StaticSourceID   = "demo"
	StaticSourceName = "Demo Feed"
)

// StaticSource serves a fixed set of summaries. It backs the dashboard when
// no remote feed is configured.
type StaticSource struct {
	clock clockwork.Clock
}

func NewStaticSource(clock clockwork.Clock) *StaticSource {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &StaticSource{clock: clock}
}

func (s *StaticSource) ID() string {
	return StaticSourceID
}

func (s *StaticSource) Name() string {
	return StaticSourceName
}

// FetchSummaries ignores maxPages; the demo feed is a single page.
func (s *StaticSource) FetchSummaries(_ context.Context, _ int) ([]domain.ContentSummary, error) {
	now := s.clock.Now()

	items := []struct {
		externalID int64
		influencer string
		platform   domain.Platform
		summary    string
		sentiment  domain.Sentiment
		age        time.Duration
	}{
		{
			externalID: 1,
			influencer: "Sarah Chen",
			platform:   domain.PlatformLinkedIn,
			summary:    "Discussed the latest AI marketing trends and their impact on brand strategy. Emphasized the importance of authentic storytelling in the digital age.",
			sentiment:  domain.SentimentPositive,
			age:        2 * time.Hour,
		},
		{
			externalID: 2,
			influencer: "Tech Insider",
			platform:   domain.PlatformInstagram,
			summary:    "Shared insights about emerging social commerce features. Highlighted how brands are leveraging new Instagram shopping tools.",
			sentiment:  domain.SentimentNeutral,
			age:        5 * time.Hour,
		},
		{
			externalID: 3,
			influencer: "Digital Trends",
			platform:   domain.PlatformYouTube,
			summary:    "Reviewed the latest brand collaborations in the tech space. Provided analysis on successful influencer partnership strategies.",
			sentiment:  domain.SentimentPositive,
			age:        24 * time.Hour,
		},
	}

	summaries := make([]domain.ContentSummary, 0, len(items))
	for _, it := range items {
		published := now.Add(-it.age)
		summaries = append(summaries, domain.ContentSummary{
			SourceID:     StaticSourceID,
			ExternalID:   it.externalID,
			Influencer:   it.influencer,
			Platform:     it.platform,
			Summary:      it.summary,
			Sentiment:    it.sentiment,
			Timestamp:    RelativeLabel(now, published),
			Link:         "#",
			PublishedAt:  published,
			LastModified: published,
		})
	}

	return summaries, nil
}
