package places

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

// rawPlace accepts both the Places (New) field names and the legacy ones.
// Fields whose shape varies are kept raw and resolved in normalize.
type rawPlace struct {
	ID      string `json:"id"`
	PlaceID string `json:"place_id"`
	// Resource name ("places/ID") in the new API, display name in the legacy one.
	Name        string          `json:"name"`
	DisplayName json.RawMessage `json:"displayName"`

	FormattedAddress       string `json:"formattedAddress"`
	FormattedAddressLegacy string `json:"formatted_address"`
	ShortFormattedAddress  string `json:"shortFormattedAddress"`
	Vicinity               string `json:"vicinity"`

	Rating               *float64        `json:"rating"`
	UserRatingCount      *int            `json:"userRatingCount"`
	UserRatingsTotal     *int            `json:"user_ratings_total"`
	Types                []string        `json:"types"`
	PriceLevel           json.RawMessage `json:"priceLevel"`
	PriceLevelLegacy     json.RawMessage `json:"price_level"`
	NationalPhoneNumber  string          `json:"nationalPhoneNumber"`
	InternationalPhone   string          `json:"internationalPhoneNumber"`
	FormattedPhoneLegacy string          `json:"formatted_phone_number"`
	BusinessStatus       string          `json:"businessStatus"`
	BusinessStatusLegacy string          `json:"business_status"`
	UTCOffsetMinutes     *int            `json:"utcOffsetMinutes"`
	UTCOffsetLegacy      *int            `json:"utc_offset"`
	GoogleMapsURI        string          `json:"googleMapsUri"`
	URLLegacy            string          `json:"url"`
	WebsiteURI           string          `json:"websiteUri"`
	WebsiteLegacy        string          `json:"website"`

	Location *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Geometry *struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`

	RegularOpeningHours *rawHours `json:"regularOpeningHours"`
	CurrentOpeningHours *rawHours `json:"currentOpeningHours"`
	OpeningHoursLegacy  *rawHours `json:"opening_hours"`

	Photos  []rawPhoto  `json:"photos"`
	Reviews []rawReview `json:"reviews"`
}

type rawHours struct {
	OpenNow       *bool       `json:"openNow"`
	OpenNowLegacy *bool       `json:"open_now"`
	Periods       []rawPeriod `json:"periods"`
}

type rawPeriod struct {
	Open  *rawPoint `json:"open"`
	Close *rawPoint `json:"close"`
}

// rawPoint is {day, hour, minute} in the new API and {day, time:"HHMM"} in the legacy one.
type rawPoint struct {
	Day    *int   `json:"day"`
	Hour   *int   `json:"hour"`
	Minute *int   `json:"minute"`
	Time   string `json:"time"`
}

type rawPhoto struct {
	Name               string `json:"name"`
	PhotoReference     string `json:"photo_reference"`
	WidthPx            int    `json:"widthPx"`
	HeightPx           int    `json:"heightPx"`
	Width              int    `json:"width"`
	Height             int    `json:"height"`
	AuthorAttributions []struct {
		DisplayName string `json:"displayName"`
	} `json:"authorAttributions"`
	HTMLAttributions []string `json:"html_attributions"`
}

type rawReview struct {
	AuthorAttribution *struct {
		DisplayName string `json:"displayName"`
	} `json:"authorAttribution"`
	AuthorName                     string          `json:"author_name"`
	Rating                         float64         `json:"rating"`
	Text                           json.RawMessage `json:"text"`
	RelativePublishTimeDescription string          `json:"relativePublishTimeDescription"`
	RelativeTimeDescription        string          `json:"relative_time_description"`
	PublishTime                    string          `json:"publishTime"`
	Time                           int64           `json:"time"`
}

var priceLevelNames = map[string]types.PriceLevel{
	"PRICE_LEVEL_FREE":           types.PriceLevelFree,
	"PRICE_LEVEL_INEXPENSIVE":    types.PriceLevelInexpensive,
	"PRICE_LEVEL_MODERATE":       types.PriceLevelModerate,
	"PRICE_LEVEL_EXPENSIVE":      types.PriceLevelExpensive,
	"PRICE_LEVEL_VERY_EXPENSIVE": types.PriceLevelVeryExpensive,
}

// Decode parses a single provider record in either API shape.
func Decode(data []byte, placeholders Placeholders) (types.Restaurant, error) {
	var raw rawPlace
	if err := json.Unmarshal(data, &raw); err != nil {
		return types.Restaurant{}, fmt.Errorf("decode place: %w", err)
	}
	return normalize(raw, placeholders), nil
}

// normalize maps one provider record onto the canonical Restaurant. Missing
// name and address fall back to the given placeholders.
func normalize(raw rawPlace, placeholders Placeholders) types.Restaurant {
	r := types.Restaurant{
		ID:          firstNonEmpty(raw.ID, raw.PlaceID, strings.TrimPrefix(resourceName(raw.Name), "places/")),
		Rating:      raw.Rating,
		Types:       raw.Types,
		Phone:       firstNonEmpty(raw.NationalPhoneNumber, raw.FormattedPhoneLegacy, raw.InternationalPhone),
		WebsiteURL:  firstNonEmpty(raw.WebsiteURI, raw.WebsiteLegacy),
		MapsURL:     firstNonEmpty(raw.GoogleMapsURI, raw.URLLegacy),
		Address:     firstNonEmpty(raw.FormattedAddress, raw.FormattedAddressLegacy, raw.ShortFormattedAddress, raw.Vicinity),
		IsOpen:      types.OpenUnknown,
		PriceLevel:  parsePriceLevel(raw.PriceLevel, raw.PriceLevelLegacy),
		Photos:      normalizePhotos(raw.Photos),
		Reviews:     normalizeReviews(raw.Reviews),
		OpenNowHint: openNowHint(raw),
	}
	if r.Types == nil {
		r.Types = []string{}
	}

	r.Name = displayName(raw)
	if r.Name == "" {
		r.Name = placeholders.Name
	}
	if r.Address == "" {
		r.Address = placeholders.Address
	}

	switch {
	case raw.UserRatingCount != nil:
		r.RatingCount = *raw.UserRatingCount
	case raw.UserRatingsTotal != nil:
		r.RatingCount = *raw.UserRatingsTotal
	}

	r.BusinessStatus = types.BusinessStatus(firstNonEmpty(raw.BusinessStatus, raw.BusinessStatusLegacy))

	switch {
	case raw.UTCOffsetMinutes != nil:
		r.UTCOffsetMinutes = raw.UTCOffsetMinutes
	case raw.UTCOffsetLegacy != nil:
		r.UTCOffsetMinutes = raw.UTCOffsetLegacy
	}

	switch {
	case raw.Location != nil:
		r.Location = &types.LatLng{Lat: raw.Location.Latitude, Lng: raw.Location.Longitude}
	case raw.Geometry != nil:
		r.Location = &types.LatLng{Lat: raw.Geometry.Location.Lat, Lng: raw.Geometry.Location.Lng}
	}

	for _, h := range []*rawHours{raw.RegularOpeningHours, raw.OpeningHoursLegacy, raw.CurrentOpeningHours} {
		if h != nil && len(h.Periods) > 0 {
			r.OpeningPeriods = normalizePeriods(h.Periods)
			break
		}
	}
	return r
}

// Placeholders are shown for records missing a name or an address.
type Placeholders struct {
	Name    string
	Address string
}

func displayName(raw rawPlace) string {
	if len(raw.DisplayName) > 0 {
		var s string
		if err := json.Unmarshal(raw.DisplayName, &s); err == nil {
			return strings.TrimSpace(s)
		}
		var obj struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(raw.DisplayName, &obj); err == nil {
			return strings.TrimSpace(obj.Text)
		}
	}
	if raw.Name != "" && !strings.HasPrefix(raw.Name, "places/") {
		return strings.TrimSpace(raw.Name)
	}
	return ""
}

func resourceName(name string) string {
	if strings.HasPrefix(name, "places/") {
		return name
	}
	return ""
}

func openNowHint(raw rawPlace) *bool {
	for _, h := range []*rawHours{raw.CurrentOpeningHours, raw.RegularOpeningHours, raw.OpeningHoursLegacy} {
		if h == nil {
			continue
		}
		if h.OpenNow != nil {
			return h.OpenNow
		}
		if h.OpenNowLegacy != nil {
			return h.OpenNowLegacy
		}
	}
	return nil
}

func parsePriceLevel(candidates ...json.RawMessage) *types.PriceLevel {
	for _, msg := range candidates {
		if len(msg) == 0 || string(msg) == "null" {
			continue
		}
		var name string
		if err := json.Unmarshal(msg, &name); err == nil {
			if p, ok := priceLevelNames[name]; ok {
				return &p
			}
			if n, err := strconv.Atoi(name); err == nil && types.PriceLevel(n).Valid() {
				p := types.PriceLevel(n)
				return &p
			}
			continue
		}
		var n int
		if err := json.Unmarshal(msg, &n); err == nil && types.PriceLevel(n).Valid() {
			p := types.PriceLevel(n)
			return &p
		}
	}
	return nil
}

func normalizePeriods(in []rawPeriod) []types.OpeningPeriod {
	out := make([]types.OpeningPeriod, 0, len(in))
	for _, p := range in {
		out = append(out, types.OpeningPeriod{
			Open:  normalizePoint(p.Open),
			Close: normalizePoint(p.Close),
		})
	}
	return out
}

func normalizePoint(p *rawPoint) *types.DayTime {
	if p == nil || p.Day == nil {
		return nil
	}
	dt := &types.DayTime{Day: *p.Day}
	switch {
	case p.Hour != nil:
		dt.Hour = *p.Hour
		if p.Minute != nil {
			dt.Minute = *p.Minute
		}
	case len(p.Time) == 4:
		h, errH := strconv.Atoi(p.Time[:2])
		m, errM := strconv.Atoi(p.Time[2:])
		if errH != nil || errM != nil {
			return nil
		}
		dt.Hour, dt.Minute = h, m
	}
	return dt
}

func normalizePhotos(in []rawPhoto) []types.Photo {
	if len(in) == 0 {
		return nil
	}
	out := make([]types.Photo, 0, len(in))
	for _, p := range in {
		photo := types.Photo{
			Name:         firstNonEmpty(p.Name, p.PhotoReference),
			WidthPx:      max(p.WidthPx, p.Width),
			HeightPx:     max(p.HeightPx, p.Height),
			Attributions: p.HTMLAttributions,
		}
		for _, a := range p.AuthorAttributions {
			photo.Attributions = append(photo.Attributions, a.DisplayName)
		}
		if photo.Name != "" {
			out = append(out, photo)
		}
	}
	return out
}

func normalizeReviews(in []rawReview) []types.Review {
	if len(in) == 0 {
		return nil
	}
	out := make([]types.Review, 0, len(in))
	for _, rv := range in {
		review := types.Review{
			Author:       rv.AuthorName,
			Rating:       rv.Rating,
			Text:         reviewText(rv.Text),
			RelativeTime: firstNonEmpty(rv.RelativePublishTimeDescription, rv.RelativeTimeDescription),
		}
		if rv.AuthorAttribution != nil && rv.AuthorAttribution.DisplayName != "" {
			review.Author = rv.AuthorAttribution.DisplayName
		}
		switch {
		case rv.PublishTime != "":
			if t, err := time.Parse(time.RFC3339, rv.PublishTime); err == nil {
				review.PublishedAt = t
			}
		case rv.Time > 0:
			review.PublishedAt = time.Unix(rv.Time, 0).UTC()
		}
		out = append(out, review)
	}
	return out
}

func reviewText(msg json.RawMessage) string {
	if len(msg) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(msg, &obj); err == nil {
		return obj.Text
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
