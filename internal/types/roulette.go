package types

import "github.com/google/uuid"

// EmptyReason tags why a search produced no winner.
type EmptyReason string

const (
	EmptyReasonNone              EmptyReason = ""
	EmptyReasonNoNearbyResults   EmptyReason = "no_nearby_results"
	EmptyReasonFilteredTooStrict EmptyReason = "filtered_too_strict"
)

// FilterStats records how many candidates survived each pipeline stage.
type FilterStats struct {
	Raw          int  `json:"raw"`
	AfterOpen    int  `json:"after_open"`
	AfterDist    int  `json:"after_distance"`
	AfterPrefs   int  `json:"after_preferences"`
	DistFallback bool `json:"distance_fallback"`
}

// MatchResult is what a search, reroll or share-link restore hands back.
type MatchResult struct {
	SessionID   uuid.UUID    `json:"session_id"`
	Winner      *Restaurant  `json:"winner,omitempty"`
	Candidates  []Restaurant `json:"candidates,omitempty"`
	Empty       bool         `json:"empty"`
	EmptyReason EmptyReason  `json:"reason,omitempty"`
	Stats       FilterStats  `json:"stats"`
	ShareLink   string       `json:"share_link,omitempty"`
}

// SearchRequest is the body of POST /roulette/search.
type SearchRequest struct {
	Location LocationReport `json:"location"`
	// Config overrides the stored settings for this search only.
	Config *SearchConfig `json:"config,omitempty"`
}

// LocationReport is the position (or failure) the client's geolocation produced.
type LocationReport struct {
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
	AccuracyM float64  `json:"accuracy_m,omitempty"`
	// Error carries PERMISSION_DENIED, POSITION_UNAVAILABLE, TIMEOUT or UNSUPPORTED.
	Error string `json:"error,omitempty"`
	// AgeMs is how old the fix is, in milliseconds.
	AgeMs int64 `json:"age_ms,omitempty"`
}
