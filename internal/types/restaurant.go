package types

import "time"

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PriceLevel is the ordinal price tier reported by the places provider.
type PriceLevel int

const (
	PriceLevelFree PriceLevel = iota
	PriceLevelInexpensive
	PriceLevelModerate
	PriceLevelExpensive
	PriceLevelVeryExpensive
)

// AllPriceLevels lists every tier in ascending order.
var AllPriceLevels = []PriceLevel{
	PriceLevelFree,
	PriceLevelInexpensive,
	PriceLevelModerate,
	PriceLevelExpensive,
	PriceLevelVeryExpensive,
}

func (p PriceLevel) Valid() bool {
	return p >= PriceLevelFree && p <= PriceLevelVeryExpensive
}

func (p PriceLevel) String() string {
	switch p {
	case PriceLevelFree:
		return "free"
	case PriceLevelInexpensive:
		return "inexpensive"
	case PriceLevelModerate:
		return "moderate"
	case PriceLevelExpensive:
		return "expensive"
	case PriceLevelVeryExpensive:
		return "very_expensive"
	default:
		return "unknown"
	}
}

type BusinessStatus string

const (
	BusinessStatusOperational       BusinessStatus = "OPERATIONAL"
	BusinessStatusClosedTemporarily BusinessStatus = "CLOSED_TEMPORARILY"
	BusinessStatusClosedPermanently BusinessStatus = "CLOSED_PERMANENTLY"
)

// IsOperational treats a missing status as operational.
func (s BusinessStatus) IsOperational() bool {
	return s == "" || s == BusinessStatusOperational
}

// OpenStatus is the tri-state result of an open/closed evaluation.
type OpenStatus int

const (
	OpenUnknown OpenStatus = iota
	OpenNow
	ClosedNow
)

func (s OpenStatus) String() string {
	switch s {
	case OpenNow:
		return "open"
	case ClosedNow:
		return "closed"
	default:
		return "unknown"
	}
}

func (s OpenStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *OpenStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "open":
		*s = OpenNow
	case "closed":
		*s = ClosedNow
	default:
		*s = OpenUnknown
	}
	return nil
}

// DayTime is a weekday (0 = Sunday) plus wall clock time.
type DayTime struct {
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// OpeningPeriod is one open/close pair of a weekly schedule. Close is nil for
// venues that never close.
type OpeningPeriod struct {
	Open  *DayTime `json:"open,omitempty"`
	Close *DayTime `json:"close,omitempty"`
}

type Photo struct {
	Name         string   `json:"name"`
	WidthPx      int      `json:"width_px,omitempty"`
	HeightPx     int      `json:"height_px,omitempty"`
	Attributions []string `json:"attributions,omitempty"`
}

type Review struct {
	Author       string    `json:"author"`
	Rating       float64   `json:"rating"`
	Text         string    `json:"text"`
	RelativeTime string    `json:"relative_time,omitempty"`
	PublishedAt  time.Time `json:"published_at,omitempty"`
}

// Restaurant is the canonical record every stage of the pipeline works on.
// Category membership is intentionally absent: it is computed by the matcher.
type Restaurant struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Rating           *float64        `json:"rating,omitempty"`
	RatingCount      int             `json:"rating_count"`
	Address          string          `json:"address"`
	Types            []string        `json:"types"`
	PriceLevel       *PriceLevel     `json:"price_level,omitempty"`
	Phone            string          `json:"phone,omitempty"`
	BusinessStatus   BusinessStatus  `json:"business_status,omitempty"`
	Location         *LatLng         `json:"location,omitempty"`
	OpeningPeriods   []OpeningPeriod `json:"opening_periods,omitempty"`
	UTCOffsetMinutes *int            `json:"utc_offset_minutes,omitempty"`
	OpenNowHint      *bool           `json:"open_now_hint,omitempty"`
	WebsiteURL       string          `json:"website_url,omitempty"`
	MapsURL          string          `json:"maps_url,omitempty"`

	// Derived per session.
	IsOpen          OpenStatus `json:"is_open"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
	DurationText    string     `json:"duration_text,omitempty"`
	DistanceMeters  *float64   `json:"distance_meters,omitempty"`

	// Populated for the winner only.
	Photos  []Photo  `json:"photos,omitempty"`
	Reviews []Review `json:"reviews,omitempty"`
}

// HasRating reports whether the record carries a usable rating; zero counts as none.
func (r Restaurant) HasRating() bool {
	return r.Rating != nil && *r.Rating > 0
}

// Details is the subset of a record produced by the expensive per-place fetch.
type Details struct {
	Phone      string   `json:"phone,omitempty"`
	WebsiteURL string   `json:"website_url,omitempty"`
	MapsURL    string   `json:"maps_url,omitempty"`
	Photos     []Photo  `json:"photos,omitempty"`
	Reviews    []Review `json:"reviews,omitempty"`
}

// DetailFields extracts the detail subset of the record.
func (r Restaurant) DetailFields() Details {
	return Details{
		Phone:      r.Phone,
		WebsiteURL: r.WebsiteURL,
		MapsURL:    r.MapsURL,
		Photos:     r.Photos,
		Reviews:    r.Reviews,
	}
}

// ApplyDetails copies the detail fields onto the record, keeping derived fields intact.
func (r *Restaurant) ApplyDetails(d Details) {
	if d.Phone != "" {
		r.Phone = d.Phone
	}
	if d.WebsiteURL != "" {
		r.WebsiteURL = d.WebsiteURL
	}
	if d.MapsURL != "" {
		r.MapsURL = d.MapsURL
	}
	if len(d.Photos) > 0 {
		r.Photos = d.Photos
	}
	if len(d.Reviews) > 0 {
		r.Reviews = d.Reviews
	}
}

// Duration is a single travel-time lookup result; Known is false on a per-item failure.
type Duration struct {
	Known   bool
	Seconds int
	Text    string
}
