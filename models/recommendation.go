package models

// Reasons attached to an empty recommendation result so callers can tell an
// ungeocodable job location apart from a genuinely empty candidate pool.
const (
	ReasonLocationUnresolved = "location_unresolved"
	ReasonNoCandidates       = "no_candidates"
)

// ScoreBreakdown records each weighted term of a recommendation score so the
// ranking is explainable to dispatchers.
type ScoreBreakdown struct {
	Availability float64 `json:"availability"`
	Distance     float64 `json:"distance"`
	Rating       float64 `json:"rating"`
}

// ContractorRecommendation is a request-scoped ranking entry. It is computed
// fresh on every recommendation call and never persisted.
type ContractorRecommendation struct {
	Contractor          Contractor         `json:"contractor"`
	Score               float64            `json:"score"`
	DistanceMiles       *float64           `json:"distanceMiles"`
	Rating              float64            `json:"rating"`
	AvailabilityStatus  AvailabilityStatus `json:"availabilityStatus"`
	WithinServiceRadius bool               `json:"withinServiceRadius"`
	Breakdown           ScoreBreakdown     `json:"breakdown"`
}

// RecommendationFilters narrows the candidate pool before scoring.
type RecommendationFilters struct {
	Trades           []Trade  `json:"trades,omitempty"`
	OnlyAvailable    bool     `json:"onlyAvailable,omitempty"`
	MaxDistanceMiles *float64 `json:"maxDistanceMiles,omitempty"`
	MinRating        *float64 `json:"minRating,omitempty"`
	Limit            int      `json:"limit,omitempty"`
}

// RecommendationRequest describes the job to staff: when, which block, and
// where. Location may be pre-resolved; otherwise Address is geocoded.
type RecommendationRequest struct {
	Date      string                `json:"date"`
	TimeBlock TimeBlock             `json:"timeBlock,omitempty"`
	Address   string                `json:"address,omitempty"`
	Location  *GeoPoint             `json:"location,omitempty"`
	Filters   RecommendationFilters `json:"filters,omitempty"`
}

// RecommendationResult is the ranked list plus a reason when it is empty.
type RecommendationResult struct {
	Recommendations []ContractorRecommendation `json:"recommendations"`
	Reason          string                     `json:"reason,omitempty"`
}
