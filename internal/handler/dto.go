package handler

type GuideSummaryResponse struct {
	ID              int64             `json:"id"`
	Slug            string            `json:"slug"`
	Title           map[string]string `json:"title"`
	MetaDescription map[string]string `json:"meta_description"`
	CoverImageURL   string            `json:"cover_image_url"`
	PublishedAt     string            `json:"published_at"`
	UpdatedAt       string            `json:"updated_at"`
}

type GuideFeedResponse struct {
	Guides []GuideSummaryResponse `json:"guides"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

type GuideResponse struct {
	ID              int64             `json:"id"`
	Slug            string            `json:"slug"`
	Title           map[string]string `json:"title"`
	MetaDescription map[string]string `json:"meta_description"`
	Content         map[string]string `json:"content"`
	CoverImageURL   string            `json:"cover_image_url"`
	ModelUsed       string            `json:"model_used"`
	PublishedAt     string            `json:"published_at"`
	UpdatedAt       string            `json:"updated_at"`
}

type RegenerateRequest struct {
	Topic string `json:"topic"`
}
