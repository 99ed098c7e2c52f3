package remote

// APIResponse is one page of the summaries endpoint.
type APIResponse struct {
	PageInfo PageInfo  `json:"pageInfo"`
	Content  []Content `json:"content"`
}

type PageInfo struct {
	Page       int `json:"page"`
	NumPages   int `json:"numPages"`
	PageSize   int `json:"pageSize"`
	NumEntries int `json:"numEntries"`
}

type Content struct {
	ID           int64  `json:"id"`
	Influencer   string `json:"influencer"`
	Platform     string `json:"platform"`
	Summary      string `json:"summary"`
	Sentiment    string `json:"sentiment"`
	Link         string `json:"link"`
	PublishedAt  string `json:"publishedAt"`
	LastModified int64  `json:"lastModified"`
}
