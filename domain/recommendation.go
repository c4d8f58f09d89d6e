package domain

type RecallSource string

const (
	RecallContent RecallSource = "content"
	RecallPopular RecallSource = "popular"
	RecallRecent  RecallSource = "recent"
)

type RecommendedRecord struct {
	Record
	Score float64 `json:"recommendScore"`
}

// RecommendationPage is one page of the ranked candidate pool.
type RecommendationPage struct {
	Recommendations []RecommendedRecord `json:"recommendations"`
	TotalRecords    int                 `json:"totalRecords"`
	CurrentPage     int                 `json:"currentPage"`
	TotalPages      int                 `json:"totalPages"`
	PageSize        int                 `json:"pageSize"`
	HasMore         bool                `json:"hasMore"`
}

type DebugRecommendation struct {
	RecordID         string         `json:"record_id"`
	Sources          []RecallSource `json:"sources"`
	InteractionScore float64        `json:"interaction_score"`
	TagMatchScore    float64        `json:"tag_match_score"` // |tags ∩ recent| / |recent|
	TimeDecay        float64        `json:"time_decay"`      // exp(-age/window)
	FinalScore       float64        `json:"final_score"`
}
