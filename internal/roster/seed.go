package roster

import "vibetracker/internal/domain"

// DefaultInfluencers is the demo roster shown on a fresh dashboard.
func DefaultInfluencers() []domain.Influencer {
	return []domain.Influencer{
		{
			Name:         "Sarah Chen",
			Handle:       "@sarahchen",
			Platform:     domain.PlatformLinkedIn,
			Followers:    "125K",
			Engagement:   "4.2%",
			Avatar:       domain.PlaceholderAvatar,
			LastActivity: "2 hours ago",
		},
		{
			Name:         "Tech Insider",
			Handle:       "@techinsider",
			Platform:     domain.PlatformInstagram,
			Followers:    "2.1M",
			Engagement:   "6.8%",
			Avatar:       domain.PlaceholderAvatar,
			LastActivity: "5 hours ago",
		},
		{
			Name:         "Digital Trends",
			Handle:       "@digitaltrends",
			Platform:     domain.PlatformYouTube,
			Followers:    "890K",
			Engagement:   "3.1%",
			Avatar:       domain.PlaceholderAvatar,
			LastActivity: "1 day ago",
		},
	}
}
