package search

const (
	DefaultWalkSpeedMetersPerMinute = 80.0
	DefaultMinRadius                = 200.0
	DefaultMaxRadius                = 5000.0
)

// RadiusConfig converts a walking budget into a search radius.
type RadiusConfig struct {
	WalkSpeedMetersPerMinute float64
	MinRadius                float64
	MaxRadius                float64
}

// RadiusFor is minutes × walking speed, clamped to [MinRadius, MaxRadius].
func (c RadiusConfig) RadiusFor(walkMinutes int) float64 {
	speed := c.WalkSpeedMetersPerMinute
	if speed <= 0 {
		speed = DefaultWalkSpeedMetersPerMinute
	}
	lo, hi := c.MinRadius, c.MaxRadius
	if lo <= 0 {
		lo = DefaultMinRadius
	}
	if hi <= 0 {
		hi = DefaultMaxRadius
	}
	return min(max(float64(walkMinutes)*speed, lo), hi)
}
