package types

// RankBy orders nearby search results.
type RankBy string

const (
	RankByPopularity RankBy = "POPULARITY"
	RankByDistance   RankBy = "DISTANCE"
)

// NearbyRequest is one call to the provider's nearby search.
type NearbyRequest struct {
	Center        LatLng
	RadiusMeters  float64
	IncludedTypes []string
	MaxResults    int
	RankBy        RankBy
	Language      string
}
