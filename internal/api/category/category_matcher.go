package category

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

// Matcher classifies restaurants into cuisine categories. It is immutable and
// safe for concurrent use.
type Matcher struct {
	defs  map[string]types.CategoryDefinition
	order []string
	broad map[string]struct{}
	langs []string
}

// NewMatcher indexes the given definitions. Keywords are folded once here so
// matching only folds the record name.
func NewMatcher(defs []types.CategoryDefinition, broadTypes []string, langs []string) *Matcher {
	m := &Matcher{
		defs:  make(map[string]types.CategoryDefinition, len(defs)),
		order: make([]string, 0, len(defs)),
		broad: make(map[string]struct{}, len(broadTypes)),
		langs: slices.Clone(langs),
	}
	for _, t := range broadTypes {
		m.broad[t] = struct{}{}
	}
	for _, d := range defs {
		folded := d
		folded.NegativeKeywords = foldAll(d.NegativeKeywords)
		folded.Keywords = make(map[string][]string, len(d.Keywords))
		for lang, kws := range d.Keywords {
			folded.Keywords[lang] = foldAll(kws)
		}
		if _, dup := m.defs[d.ID]; !dup {
			m.order = append(m.order, d.ID)
		}
		m.defs[d.ID] = folded
	}
	return m
}

// NewDefaultMatcher builds the matcher over the built-in category table.
func NewDefaultMatcher() *Matcher {
	return NewMatcher(defaultDefinitions(), BroadTypes, Languages)
}

// Matches reports whether r belongs to categoryID. Authoritative type tags
// win outright; the keyword tier only runs for untyped or generically typed
// records, or for keyword-only categories.
func (m *Matcher) Matches(r types.Restaurant, categoryID string) bool {
	def, ok := m.defs[categoryID]
	if !ok {
		return false
	}

	if len(def.Types) > 0 && intersects(r.Types, def.Types) {
		return true
	}

	if !m.keywordTierAllowed(r, def) {
		return false
	}

	name := fold(r.Name)
	if name == "" {
		return false
	}
	for _, neg := range def.NegativeKeywords {
		if neg != "" && strings.Contains(name, neg) {
			return false
		}
	}
	for _, lang := range m.langs {
		for _, kw := range def.Keywords[lang] {
			if kw != "" && strings.Contains(name, kw) {
				return true
			}
		}
	}
	return false
}

// MatchesAny reports whether r matches at least one of the category ids.
func (m *Matcher) MatchesAny(r types.Restaurant, categoryIDs []string) bool {
	for _, id := range categoryIDs {
		if m.Matches(r, id) {
			return true
		}
	}
	return false
}

// Categories returns every category r matches, in definition order.
func (m *Matcher) Categories(r types.Restaurant) []string {
	var out []string
	for _, id := range m.order {
		if m.Matches(r, id) {
			out = append(out, id)
		}
	}
	return out
}

// Definition looks up a category by id.
func (m *Matcher) Definition(id string) (types.CategoryDefinition, bool) {
	d, ok := m.defs[id]
	return d, ok
}

// Definitions returns the definitions in declaration order.
func (m *Matcher) Definitions() []types.CategoryDefinition {
	out := make([]types.CategoryDefinition, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.defs[id])
	}
	return out
}

// Known reports whether id names a category.
func (m *Matcher) Known(id string) bool {
	_, ok := m.defs[id]
	return ok
}

// IsBroadType reports whether t carries no cuisine signal.
func (m *Matcher) IsBroadType(t string) bool {
	_, ok := m.broad[t]
	return ok
}

func (m *Matcher) keywordTierAllowed(r types.Restaurant, def types.CategoryDefinition) bool {
	if def.KeywordOnly() || len(r.Types) == 0 {
		return true
	}
	for _, t := range r.Types {
		if m.IsBroadType(t) {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if slices.Contains(b, x) {
			return true
		}
	}
	return false
}

// fold lower-cases with full Unicode case folding. A Caser is stateful, so
// one is created per call.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func foldAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, fold(s))
	}
	return out
}
