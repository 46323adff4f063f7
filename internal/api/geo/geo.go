package geo

import (
	"math"

	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

const (
	earthRadiusMeters = 6371000.0
	// metersPerDegreeLat is the length of one degree of latitude.
	metersPerDegreeLat = 111320.0
)

// DistanceMeters calculates the great-circle distance between two coordinates
// using the Haversine formula.
func DistanceMeters(a, b types.LatLng) float64 {
	lat1Rad := a.Lat * math.Pi / 180
	lat2Rad := b.Lat * math.Pi / 180
	dlat := (b.Lat - a.Lat) * math.Pi / 180
	dlon := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// Offset moves p by the given metres north and east. The longitude step is
// widened by 1/cos(latitude) so the offset stays metric away from the equator.
func Offset(p types.LatLng, northMeters, eastMeters float64) types.LatLng {
	dLat := northMeters / metersPerDegreeLat
	cosLat := math.Cos(p.Lat * math.Pi / 180)
	if math.Abs(cosLat) < 1e-9 {
		cosLat = 1e-9
	}
	dLng := eastMeters / (metersPerDegreeLat * cosLat)
	return types.LatLng{Lat: p.Lat + dLat, Lng: p.Lng + dLng}
}

// Valid reports whether p is a real coordinate.
func Valid(p types.LatLng) bool {
	return !math.IsNaN(p.Lat) && !math.IsNaN(p.Lng) &&
		p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}
