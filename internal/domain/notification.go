package domain

import "time"

type NotificationKind string

const (
	KindInfluencerAdded   NotificationKind = "influencer_added"
	KindAnalysisComplete  NotificationKind = "analysis_complete"
	KindInfluencerUpdated NotificationKind = "influencer_updated"
	KindInfluencerRemoved NotificationKind = "influencer_removed"
	KindValidationFailed  NotificationKind = "validation_failed"
	KindAnalysisStarted   NotificationKind = "analysis_started"
	KindAnalysisFinished  NotificationKind = "analysis_finished"
	KindFeedUpdated       NotificationKind = "feed_updated"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a user-facing message. Fields are captured when the
// notification is built, so a deferred one keeps describing an influencer
// even after it is removed.
type Notification struct {
	Kind         NotificationKind `json:"kind"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	Variant      Variant          `json:"variant"`
	InfluencerID string           `json:"influencer_id,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// DashboardStats summarizes the session for the dashboard header cards.
type DashboardStats struct {
	TotalInfluencers     int               `json:"total_influencers"`
	AddedSinceStart      int               `json:"added_since_start"`
	ContentSummaries     int               `json:"content_summaries"`
	Sentiment            map[Sentiment]int `json:"sentiment"`
	PendingNotifications int               `json:"pending_notifications"`
	Analyzing            bool              `json:"analyzing"`
}
