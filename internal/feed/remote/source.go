package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"vibetracker/internal/domain"
	"vibetracker/internal/feed"
	"vibetracker/internal/validation"
)

const (
	SourceID   = "remote"
	SourceName = "Remote Summaries"
)

type Config struct {
	BaseURL        string
	PageSize       int
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Source fetches content summaries from a paginated JSON endpoint.
type Source struct {
	httpClient     *http.Client
	baseURL        string
	pageSize       int
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	now            func() time.Time
	logger         *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        cfg.BaseURL,
		pageSize:       cfg.PageSize,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		now:            time.Now,
		logger:         logger.With("source", SourceID),
	}
}

func (s *Source) ID() string {
	return SourceID
}

func (s *Source) Name() string {
	return SourceName
}

// FetchSummaries walks pages until the last one or maxPages. On a page error
// it returns what it collected so far together with the error.
func (s *Source) FetchSummaries(ctx context.Context, maxPages int) ([]domain.ContentSummary, error) {
	var allContent []Content

	for page := 0; page < maxPages; page++ {
		resp, err := s.fetchPage(ctx, page)
		if err != nil {
			return s.transform(allContent), fmt.Errorf("fetch page %d: %w", page, err)
		}

		allContent = append(allContent, resp.Content...)

		s.logger.Debug("fetched page",
			"page", page,
			"summaries", len(resp.Content),
			"total", len(allContent),
		)

		if page >= resp.PageInfo.NumPages-1 {
			break
		}
	}

	return s.transform(allContent), nil
}

func (s *Source) fetchPage(ctx context.Context, page int) (*APIResponse, error) {
	url := fmt.Sprintf("%s?pageSize=%d&page=%d", s.baseURL, s.pageSize, page)

	var resp *APIResponse
	var err error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		resp, err = s.doRequest(ctx, url)
		if err == nil {
			return resp, nil
		}

		if attempt == s.maxAttempts {
			break
		}

		backoff := s.calculateBackoff(attempt)
		s.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", s.maxAttempts, err)
}

func (s *Source) doRequest(ctx context.Context, url string) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "VibeTracker/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &apiResp, nil
}

func (s *Source) calculateBackoff(attempt int) time.Duration {
	backoff := s.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > s.maxBackoff {
		backoff = s.maxBackoff
	}
	return backoff
}

func (s *Source) transform(contents []Content) []domain.ContentSummary {
	now := s.now()
	summaries := make([]domain.ContentSummary, 0, len(contents))

	for _, c := range contents {
		publishedAt, err := time.Parse(time.RFC3339, c.PublishedAt)
		if err != nil {
			s.logger.Warn("failed to parse date",
				"external_id", c.ID,
				"date", c.PublishedAt,
			)
			continue
		}

		platform, ok := validation.ParsePlatform(c.Platform)
		if !ok {
			s.logger.Warn("skipping unsupported platform",
				"external_id", c.ID,
				"platform", c.Platform,
			)
			continue
		}

		summaries = append(summaries, domain.ContentSummary{
			SourceID:     SourceID,
			ExternalID:   c.ID,
			Influencer:   c.Influencer,
			Platform:     platform,
			Summary:      c.Summary,
			Sentiment:    parseSentiment(c.Sentiment),
			Timestamp:    feed.RelativeLabel(now, publishedAt),
			Link:         c.Link,
			PublishedAt:  publishedAt,
			LastModified: time.UnixMilli(c.LastModified),
		})
	}

	return summaries
}

// parseSentiment maps unknown labels to neutral.
func parseSentiment(raw string) domain.Sentiment {
	switch domain.Sentiment(raw) {
	case domain.SentimentPositive, domain.SentimentNegative:
		return domain.Sentiment(raw)
	default:
		return domain.SentimentNeutral
	}
}
