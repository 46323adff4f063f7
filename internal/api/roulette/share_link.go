package roulette

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-lunch-roulette/internal/api/geo"
	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

const (
	paramResID = "resId"
	paramLat   = "lat"
	paramLng   = "lng"
)

// ShareTarget is what a share link points at.
type ShareTarget struct {
	ResID    string
	Location *types.LatLng
}

// BuildShareLink appends resId and, when known, lat/lng with 6 decimals to base.
func BuildShareLink(base, resID string, origin *types.LatLng) string {
	q := url.Values{}
	q.Set(paramResID, resID)
	if origin != nil {
		q.Set(paramLat, strconv.FormatFloat(origin.Lat, 'f', 6, 64))
		q.Set(paramLng, strconv.FormatFloat(origin.Lng, 'f', 6, 64))
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode()
}

// ParseShareLink accepts a full link or its bare query string. lat and lng
// are used only when both parse.
func ParseShareLink(raw string) (ShareTarget, error) {
	query := raw
	if i := strings.Index(raw, "?"); i >= 0 {
		query = raw[i+1:]
	}
	if i := strings.Index(query, "#"); i >= 0 {
		query = query[:i]
	}
	q, err := url.ParseQuery(query)
	if err != nil {
		return ShareTarget{}, fmt.Errorf("%w: %v", types.ErrInvalidShareLink, err)
	}
	return ShareTargetFromValues(q)
}

func ShareTargetFromValues(q url.Values) (ShareTarget, error) {
	id := strings.TrimSpace(q.Get(paramResID))
	if id == "" {
		return ShareTarget{}, fmt.Errorf("%w: missing %s", types.ErrInvalidShareLink, paramResID)
	}
	t := ShareTarget{ResID: id}

	lat, errLat := strconv.ParseFloat(q.Get(paramLat), 64)
	lng, errLng := strconv.ParseFloat(q.Get(paramLng), 64)
	if errLat == nil && errLng == nil {
		if p := (types.LatLng{Lat: lat, Lng: lng}); geo.Valid(p) {
			t.Location = &p
		}
	}
	return t, nil
}
