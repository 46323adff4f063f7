package search

import (
	"slices"

	"github.com/FACorreiaa/go-lunch-roulette/internal/api/category"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/geo"
	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

const (
	DefaultCornerOffsetFactor = 0.6
	DefaultMaxTypesPerCall    = 50
)

// Grid holds the five search origins around a centre point.
type Grid struct {
	Center    types.LatLng
	NorthEast types.LatLng
	SouthWest types.LatLng
	NorthWest types.LatLng
	SouthEast types.LatLng
}

// Diagonal is queried first when the centre page comes back full.
func (g Grid) Diagonal() []types.LatLng {
	return []types.LatLng{g.NorthEast, g.SouthWest}
}

// AntiDiagonal is queried only if the diagonal still found new places.
func (g Grid) AntiDiagonal() []types.LatLng {
	return []types.LatLng{g.NorthWest, g.SouthEast}
}

func (g Grid) Points() []types.LatLng {
	return []types.LatLng{g.Center, g.NorthEast, g.SouthWest, g.NorthWest, g.SouthEast}
}

// ComputeGrid places the corners factor×radius metres north/south and east/west of centre.
func ComputeGrid(center types.LatLng, radiusMeters, factor float64) Grid {
	d := radiusMeters * factor
	return Grid{
		Center:    center,
		NorthEast: geo.Offset(center, d, d),
		SouthWest: geo.Offset(center, -d, -d),
		NorthWest: geo.Offset(center, d, -d),
		SouthEast: geo.Offset(center, -d, d),
	}
}

// Stage says under which condition a planned query runs.
type Stage int

const (
	StageCenter Stage = iota
	StageDiagonal
	StageAntiDiagonal
)

// Step is one (point, type batch) query of a plan.
type Step struct {
	Point types.LatLng
	Batch int
	Types []string
	Stage Stage
}

// Plan is the full query schedule of one search.
type Plan struct {
	Grid         Grid
	RadiusMeters float64
	Batches      [][]string
	// CornersEligible is false when the radius is too small to expand.
	CornersEligible bool
}

// Steps lists every query the plan may issue, in issue order. Diagonal and
// anti-diagonal steps are conditional on the results of the earlier steps.
func (p Plan) Steps() []Step {
	var steps []Step
	for i, batch := range p.Batches {
		steps = append(steps, Step{Point: p.Grid.Center, Batch: i, Types: batch, Stage: StageCenter})
		if i != 0 || !p.CornersEligible {
			continue
		}
		for _, pt := range p.Grid.Diagonal() {
			steps = append(steps, Step{Point: pt, Batch: i, Types: batch, Stage: StageDiagonal})
		}
		for _, pt := range p.Grid.AntiDiagonal() {
			steps = append(steps, Step{Point: pt, Batch: i, Types: batch, Stage: StageAntiDiagonal})
		}
	}
	return steps
}

type PlannerConfig struct {
	CornerOffsetFactor float64
	CornerMinRadius    float64
	MaxTypesPerCall    int
	Universe           []string
	AlwaysKeep         []string
}

// Planner turns a centre, radius and search config into a Plan.
type Planner struct {
	cfg     PlannerConfig
	matcher *category.Matcher
}

func NewPlanner(cfg PlannerConfig, matcher *category.Matcher) *Planner {
	if cfg.CornerOffsetFactor <= 0 {
		cfg.CornerOffsetFactor = DefaultCornerOffsetFactor
	}
	if cfg.CornerMinRadius <= 0 {
		cfg.CornerMinRadius = DefaultCornerMinRadius
	}
	if cfg.MaxTypesPerCall <= 0 {
		cfg.MaxTypesPerCall = DefaultMaxTypesPerCall
	}
	if len(cfg.Universe) == 0 {
		cfg.Universe = category.TypeUniverse
	}
	if cfg.AlwaysKeep == nil {
		cfg.AlwaysKeep = category.AlwaysKeepTypes
	}
	return &Planner{cfg: cfg, matcher: matcher}
}

// Plan lays out the grid points and type batches for one search.
func (p *Planner) Plan(center types.LatLng, radiusMeters float64, sc types.SearchConfig) Plan {
	return Plan{
		Grid:            ComputeGrid(center, radiusMeters, p.cfg.CornerOffsetFactor),
		RadiusMeters:    radiusMeters,
		Batches:         p.TypeBatches(sc),
		CornersEligible: radiusMeters >= p.cfg.CornerMinRadius,
	}
}

// TypeBatches selects the provider types to search for and splits them into
// groups no larger than the per-call limit.
func (p *Planner) TypeBatches(sc types.SearchConfig) [][]string {
	var selected []string
	if len(sc.Categories) > 0 {
		switch sc.FilterMode {
		case types.FilterModeWhitelist:
			selected = p.whitelistTypes(sc.Categories)
		default:
			selected = p.blacklistTypes(sc.Categories)
		}
	}
	if len(selected) == 0 {
		selected = p.cfg.Universe
	}
	return chunk(selected, p.cfg.MaxTypesPerCall)
}

func (p *Planner) whitelistTypes(categoryIDs []string) []string {
	var out []string
	needsGeneric := false
	for _, id := range categoryIDs {
		def, ok := p.matcher.Definition(id)
		if !ok {
			continue
		}
		if def.KeywordOnly() {
			needsGeneric = true
			continue
		}
		for _, t := range def.Types {
			if !slices.Contains(out, t) {
				out = append(out, t)
			}
		}
	}
	// Keyword-only categories are only found through generically typed places.
	if needsGeneric {
		for _, t := range p.cfg.AlwaysKeep {
			if !slices.Contains(out, t) {
				out = append(out, t)
			}
		}
	}
	return out
}

func (p *Planner) blacklistTypes(excludedIDs []string) []string {
	excludedTypes := map[string]struct{}{}
	activeTypes := map[string]struct{}{}
	for _, def := range p.matcher.Definitions() {
		target := activeTypes
		if slices.Contains(excludedIDs, def.ID) {
			target = excludedTypes
		}
		for _, t := range def.Types {
			target[t] = struct{}{}
		}
	}

	out := make([]string, 0, len(p.cfg.Universe))
	for _, t := range p.cfg.Universe {
		_, excluded := excludedTypes[t]
		_, active := activeTypes[t]
		if excluded && !active && !slices.Contains(p.cfg.AlwaysKeep, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func chunk(in []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(in); start += size {
		end := min(start+size, len(in))
		out = append(out, slices.Clone(in[start:end]))
	}
	return out
}
