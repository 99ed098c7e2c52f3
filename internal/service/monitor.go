package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"vibetracker/internal/domain"
	"vibetracker/internal/metrics"
	"vibetracker/internal/notifier"
	"vibetracker/internal/validation"
)

var ErrAnalysisInProgress = errors.New("analysis already in progress")

const analysisJobKey = "analysis"

// Roster is the session's influencer list.
type Roster interface {
	Add(in domain.ValidatedInfluencer) domain.Influencer
	Update(id string, in domain.ValidatedInfluencer) (domain.Influencer, error)
	Remove(id string) (domain.Influencer, error)
	Get(id string) (domain.Influencer, error)
	List() []domain.Influencer
	Len() int
	InitialLen() int
}

// Notifier delivers notifications now or later.
type Notifier interface {
	Announcer
	NotifyAfter(delay time.Duration, key string, n domain.Notification) (*notifier.Job, error)
	Schedule(delay time.Duration, key string, n domain.Notification, onDone func()) (*notifier.Job, error)
	CancelKey(key string) int
	Pending() int
}

// FeedReader returns the current content feed.
type FeedReader interface {
	Summaries(ctx context.Context) ([]domain.ContentSummary, error)
}

type MonitorConfig struct {
	AddAnalysisDelay time.Duration
	AnalysisDelay    time.Duration
	CancelOnRemove   bool
}

// MonitorService runs the dashboard workflows: validated roster mutations
// followed by immediate and simulated deferred notifications.
type MonitorService struct {
	roster    Roster
	notifier  Notifier
	feed      FeedReader
	metrics   *metrics.Metrics
	logger    *slog.Logger
	config    MonitorConfig
	analyzing atomic.Bool
}

func NewMonitorService(
	roster Roster,
	n Notifier,
	feed FeedReader,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg MonitorConfig,
) *MonitorService {
	return &MonitorService{
		roster:   roster,
		notifier: n,
		feed:     feed,
		metrics:  m,
		logger:   logger.With("component", "monitor"),
		config:   cfg,
	}
}

func (s *MonitorService) AddInfluencer(ctx context.Context, raw domain.InfluencerInput) (domain.Influencer, error) {
	in, err := validation.Influencer(raw, validation.ModeAdd)
	if err != nil {
		s.rejected(ctx, "add", err)
		return domain.Influencer{}, err
	}

	inf := s.roster.Add(in)
	s.metrics.IncRosterMutation("add", "ok")
	s.logger.Info("influencer added",
		"influencer_id", inf.ID,
		"handle", inf.Handle,
		"platform", inf.Platform,
	)

	s.notify(ctx, domain.Notification{
		Kind:         domain.KindInfluencerAdded,
		Title:        "Influencer Added",
		Message:      fmt.Sprintf("%s is now being monitored by our AI agent.", inf.Name),
		InfluencerID: inf.ID,
	})

	_, err = s.notifier.NotifyAfter(s.config.AddAnalysisDelay, inf.ID, domain.Notification{
		Kind:         domain.KindAnalysisComplete,
		Title:        "AI Analysis Complete",
		Message:      fmt.Sprintf("Started monitoring %s across %s.", inf.Handle, inf.Platform),
		InfluencerID: inf.ID,
	})
	if err != nil {
		s.logger.Warn("analysis notification not scheduled", "influencer_id", inf.ID, "error", err)
	}

	return inf, nil
}

func (s *MonitorService) UpdateInfluencer(ctx context.Context, id string, raw domain.InfluencerInput) (domain.Influencer, error) {
	in, err := validation.Influencer(raw, validation.ModeEdit)
	if err != nil {
		s.rejected(ctx, "update", err)
		return domain.Influencer{}, err
	}

	inf, err := s.roster.Update(id, in)
	if err != nil {
		s.metrics.IncRosterMutation("update", "not_found")
		return domain.Influencer{}, fmt.Errorf("update influencer %s: %w", id, err)
	}
	s.metrics.IncRosterMutation("update", "ok")
	s.logger.Info("influencer updated", "influencer_id", id)

	s.notify(ctx, domain.Notification{
		Kind:         domain.KindInfluencerUpdated,
		Title:        "Influencer Updated",
		Message:      fmt.Sprintf("%s profile has been updated.", inf.Name),
		InfluencerID: inf.ID,
	})

	return inf, nil
}

// RemoveInfluencer deletes the influencer. With CancelOnRemove set, its
// pending analysis notification is dropped as well.
func (s *MonitorService) RemoveInfluencer(ctx context.Context, id string) (domain.Influencer, error) {
	inf, err := s.roster.Remove(id)
	if err != nil {
		s.metrics.IncRosterMutation("remove", "not_found")
		return domain.Influencer{}, fmt.Errorf("remove influencer %s: %w", id, err)
	}
	s.metrics.IncRosterMutation("remove", "ok")

	cancelled := 0
	if s.config.CancelOnRemove {
		cancelled = s.notifier.CancelKey(id)
	}
	s.logger.Info("influencer removed",
		"influencer_id", id,
		"cancelled_jobs", cancelled,
	)

	s.notify(ctx, domain.Notification{
		Kind:         domain.KindInfluencerRemoved,
		Title:        "Influencer Removed",
		Message:      fmt.Sprintf("%s is no longer being monitored.", inf.Name),
		InfluencerID: inf.ID,
	})

	return inf, nil
}

// RunAnalysis starts a simulated analysis of the whole roster. Only one run
// may be in flight; the flag clears when the completion job fires or is
// cancelled.
func (s *MonitorService) RunAnalysis(ctx context.Context) error {
	if !s.analyzing.CompareAndSwap(false, true) {
		return ErrAnalysisInProgress
	}

	_, err := s.notifier.Schedule(s.config.AnalysisDelay, analysisJobKey, domain.Notification{
		Kind:    domain.KindAnalysisFinished,
		Title:   "Analysis Complete",
		Message: "New trend insights have been generated. Check your content feed!",
	}, func() {
		s.analyzing.Store(false)
	})
	if err != nil {
		s.analyzing.Store(false)
		return fmt.Errorf("schedule analysis: %w", err)
	}

	s.logger.Info("analysis started", "influencers", s.roster.Len())

	s.notify(ctx, domain.Notification{
		Kind:    domain.KindAnalysisStarted,
		Title:   "AI Agent Working",
		Message: "Analyzing all influencer content for trends and insights...",
	})

	return nil
}

func (s *MonitorService) Analyzing() bool {
	return s.analyzing.Load()
}

func (s *MonitorService) Influencers() []domain.Influencer {
	return s.roster.List()
}

func (s *MonitorService) Influencer(id string) (domain.Influencer, error) {
	return s.roster.Get(id)
}

func (s *MonitorService) Feed(ctx context.Context) ([]domain.ContentSummary, error) {
	summaries, err := s.feed.Summaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return summaries, nil
}

func (s *MonitorService) Stats(ctx context.Context) (domain.DashboardStats, error) {
	summaries, err := s.Feed(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}

	sentiment := map[domain.Sentiment]int{
		domain.SentimentPositive: 0,
		domain.SentimentNeutral:  0,
		domain.SentimentNegative: 0,
	}
	for _, c := range summaries {
		sentiment[c.Sentiment]++
	}

	total := s.roster.Len()
	return domain.DashboardStats{
		TotalInfluencers:     total,
		AddedSinceStart:      total - s.roster.InitialLen(),
		ContentSummaries:     len(summaries),
		Sentiment:            sentiment,
		PendingNotifications: s.notifier.Pending(),
		Analyzing:            s.Analyzing(),
	}, nil
}

// rejected reports a failed validation to the user; the roster is untouched.
func (s *MonitorService) rejected(ctx context.Context, operation string, err error) {
	s.metrics.IncRosterMutation(operation, "invalid")

	n := domain.Notification{
		Kind:    domain.KindValidationFailed,
		Title:   "Missing Information",
		Message: "Please fill in name, handle, and platform.",
		Variant: domain.VariantDestructive,
	}
	if domain.IsValidationCode(err, domain.CodeUnsupportedPlatform) {
		n.Title = "Unsupported Platform"
		n.Message = "Choose one of LinkedIn, Instagram, YouTube, Twitter or TikTok."
	}

	s.logger.Debug("influencer rejected", "operation", operation, "error", err)
	s.notify(ctx, n)
}

func (s *MonitorService) notify(ctx context.Context, n domain.Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn("notification delivery failed", "kind", n.Kind, "error", err)
	}
}
