package model

// QueryRequest holds a free-text question plus retrieval filters.
// Request-scoped; never persisted.
type QueryRequest struct {
	Question       string `json:"question"`
	LangFilter     string `json:"lang_filter"`
	ExcludePaidAds bool   `json:"exclude_paid_ads"`
	MinViews       int64  `json:"min_views"`
	MinSubs        int64  `json:"min_subs"`
	TopK           int    `json:"top_k"`
}

// ReviewCandidate is one scored retrieval row from the warehouse
type ReviewCandidate struct {
	HotelNorm     string  `db:"hotel_norm"`
	Aspect        string  `db:"aspect"`
	Sentiment     string  `db:"sentiment"`
	ReviewSummary string  `db:"review_summary"`
	Link          string  `db:"yt_link"`
	VideoTitle    string  `db:"video_title"`
	ChannelTitle  string  `db:"channel_title"`
	EvidenceSec   int     `db:"evidence_sec"`
	Score         float64 `db:"score"`
}

// Citation is one retrieved review snippet with its video evidence
type Citation struct {
	Review       string `json:"review"`
	Link         string `json:"link"`
	VideoTitle   string `json:"video_title"`
	ChannelTitle string `json:"channel_title"`
	EvidenceSec  int    `json:"evidence_sec"`
}

// AnswerResult is the response of the query service
type AnswerResult struct {
	Summary   string     `json:"summary"`
	Citations []Citation `json:"citations"`
}
