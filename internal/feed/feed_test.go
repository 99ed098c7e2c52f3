package feed

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibetracker/internal/domain"
)

func TestRelativeLabel(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{45 * time.Minute, "45 minutes ago"},
		{2 * time.Hour, "2 hours ago"},
		{5*time.Hour + 59*time.Minute, "5 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{72 * time.Hour, "3 days ago"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RelativeLabel(now, now.Add(-tt.ago)))
	}
}

func TestStaticSource(t *testing.T) {
	clock := clockwork.NewFakeClock()
	src := NewStaticSource(clock)

	summaries, err := src.FetchSummaries(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, "Sarah Chen", summaries[0].Influencer)
	assert.Equal(t, "2 hours ago", summaries[0].Timestamp)
	assert.Equal(t, domain.SentimentNeutral, summaries[1].Sentiment)
	assert.Equal(t, "1 day ago", summaries[2].Timestamp)
	for _, s := range summaries {
		assert.Equal(t, StaticSourceID, s.SourceID)
	}
}
