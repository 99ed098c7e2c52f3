package domain

import "time"

const (
	// LastActivityJustAdded labels an influencer that has not been observed yet.
	LastActivityJustAdded = "Just added"
	PlaceholderAvatar     = "/placeholder.svg"
)

type Platform string

const (
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformInstagram Platform = "Instagram"
	PlatformYouTube   Platform = "YouTube"
	PlatformTwitter   Platform = "Twitter"
	PlatformTikTok    Platform = "TikTok"
)

// Platforms lists every supported platform in display order.
var Platforms = []Platform{
	PlatformLinkedIn,
	PlatformInstagram,
	PlatformYouTube,
	PlatformTwitter,
	PlatformTikTok,
}

type Influencer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Handle       string    `json:"handle"`
	Platform     Platform  `json:"platform"`
	Followers    string    `json:"followers"`
	Engagement   string    `json:"engagement"`
	Avatar       string    `json:"avatar"`
	LastActivity string    `json:"last_activity"`
	CreatedAt    time.Time `json:"created_at"`
}

// InfluencerInput is the raw form a user submits before validation.
type InfluencerInput struct {
	Name       string `json:"name"`
	Handle     string `json:"handle"`
	Platform   string `json:"platform"`
	Followers  string `json:"followers"`
	Engagement string `json:"engagement"`
}

// ValidatedInfluencer is an input that passed validation: required fields are
// present, the handle carries its @ prefix and the platform is canonical.
type ValidatedInfluencer struct {
	Name       string
	Handle     string
	Platform   Platform
	Followers  string
	Engagement string
}
