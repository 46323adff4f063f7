package types

import "slices"

type FilterMode string

const (
	FilterModeBlacklist FilterMode = "blacklist"
	FilterModeWhitelist FilterMode = "whitelist"
)

func (m FilterMode) Valid() bool {
	return m == FilterModeBlacklist || m == FilterModeWhitelist
}

const (
	DefaultWalkMinutes = 10
	MinWalkMinutes     = 1
	MaxWalkMinutes     = 120
)

// SearchConfig is the user's persisted search preferences. The pipeline only reads it.
type SearchConfig struct {
	WalkMinutes   int          `json:"walk_minutes"`
	FilterMode    FilterMode   `json:"filter_mode"`
	Categories    []string     `json:"categories"`
	PriceLevels   []PriceLevel `json:"price_levels"`
	IncludeClosed bool         `json:"include_closed"`
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		WalkMinutes: DefaultWalkMinutes,
		FilterMode:  FilterModeBlacklist,
		Categories:  []string{},
		PriceLevels: []PriceLevel{},
	}
}

// PriceRestricted is true when the accepted tiers exclude at least one tier.
func (c SearchConfig) PriceRestricted() bool {
	if len(c.PriceLevels) == 0 {
		return false
	}
	for _, p := range AllPriceLevels {
		if !slices.Contains(c.PriceLevels, p) {
			return true
		}
	}
	return false
}

func (c SearchConfig) AcceptsPrice(p PriceLevel) bool {
	if !c.PriceRestricted() {
		return true
	}
	return slices.Contains(c.PriceLevels, p)
}

// UpdateSearchConfigParams is the partial update accepted by the settings endpoint.
type UpdateSearchConfigParams struct {
	WalkMinutes   *int          `json:"walk_minutes,omitempty"`
	FilterMode    *FilterMode   `json:"filter_mode,omitempty"`
	Categories    *[]string     `json:"categories,omitempty"`
	PriceLevels   *[]PriceLevel `json:"price_levels,omitempty"`
	IncludeClosed *bool         `json:"include_closed,omitempty"`
}

func (p UpdateSearchConfigParams) Empty() bool {
	return p.WalkMinutes == nil && p.FilterMode == nil && p.Categories == nil &&
		p.PriceLevels == nil && p.IncludeClosed == nil
}

// Apply returns a copy of cfg with the non-nil fields of p applied.
func (p UpdateSearchConfigParams) Apply(cfg SearchConfig) SearchConfig {
	if p.WalkMinutes != nil {
		cfg.WalkMinutes = *p.WalkMinutes
	}
	if p.FilterMode != nil {
		cfg.FilterMode = *p.FilterMode
	}
	if p.Categories != nil {
		cfg.Categories = slices.Clone(*p.Categories)
	}
	if p.PriceLevels != nil {
		cfg.PriceLevels = slices.Clone(*p.PriceLevels)
	}
	if p.IncludeClosed != nil {
		cfg.IncludeClosed = *p.IncludeClosed
	}
	return cfg
}
