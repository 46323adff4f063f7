package category

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

func testMatcher() *Matcher {
	defs := []types.CategoryDefinition{
		{
			ID:               "japanese",
			Types:            []string{"japanese_restaurant", "sushi_restaurant"},
			NegativeKeywords: []string{"korean"},
			Keywords: map[string][]string{
				"en": {"Sushi", "ramen"},
				"ja": {"寿司"},
			},
		},
		{
			ID:    "korean",
			Types: []string{"korean_restaurant"},
			Keywords: map[string][]string{
				"en": {"korean", "bibimbap"},
			},
		},
		{
			ID: "hot_pot",
			Keywords: map[string][]string{
				"en": {"hot pot"},
				"zh": {"火鍋"},
			},
		},
	}
	return NewMatcher(defs, []string{"restaurant", "food"}, []string{"en", "zh", "ja"})
}

func TestMatcher_Matches(t *testing.T) {
	m := testMatcher()

	tests := []struct {
		name     string
		record   types.Restaurant
		category string
		want     bool
	}{
		{
			name:     "authoritative type wins over another category's keyword",
			record:   types.Restaurant{Name: "Seoul Bibimbap House", Types: []string{"japanese_restaurant"}},
			category: "japanese",
			want:     true,
		},
		{
			name:     "authoritative type skips negative keywords",
			record:   types.Restaurant{Name: "Korean Sushi Bar", Types: []string{"sushi_restaurant"}},
			category: "japanese",
			want:     true,
		},
		{
			name:     "specific foreign type blocks keyword tier",
			record:   types.Restaurant{Name: "Sushi Express", Types: []string{"chinese_restaurant"}},
			category: "japanese",
			want:     false,
		},
		{
			name:     "broad type allows keyword tier",
			record:   types.Restaurant{Name: "Sushi Express", Types: []string{"restaurant", "chinese_restaurant"}},
			category: "japanese",
			want:     true,
		},
		{
			name:     "no types allows keyword tier",
			record:   types.Restaurant{Name: "Tokyo Ramen"},
			category: "japanese",
			want:     true,
		},
		{
			name:     "negative keyword beats positive keyword",
			record:   types.Restaurant{Name: "Korean Sushi Place", Types: []string{"restaurant"}},
			category: "japanese",
			want:     false,
		},
		{
			name:     "keyword match is case insensitive",
			record:   types.Restaurant{Name: "SUSHI ZANMAI", Types: []string{"food"}},
			category: "japanese",
			want:     true,
		},
		{
			name:     "keywords of every language are consulted",
			record:   types.Restaurant{Name: "すし 寿司処", Types: []string{"restaurant"}},
			category: "japanese",
			want:     true,
		},
		{
			name:     "keyword-only category ignores specific types",
			record:   types.Restaurant{Name: "老四川火鍋", Types: []string{"chinese_restaurant"}},
			category: "hot_pot",
			want:     true,
		},
		{
			name:     "no keyword hit",
			record:   types.Restaurant{Name: "Golden Dragon", Types: []string{"restaurant"}},
			category: "japanese",
			want:     false,
		},
		{
			name:     "unknown category never matches",
			record:   types.Restaurant{Name: "Sushi", Types: []string{"sushi_restaurant"}},
			category: "does_not_exist",
			want:     false,
		},
		{
			name:     "empty name with broad type",
			record:   types.Restaurant{Types: []string{"restaurant"}},
			category: "japanese",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Matches(tt.record, tt.category))
		})
	}
}

func TestMatcher_MultipleCategories(t *testing.T) {
	m := testMatcher()
	r := types.Restaurant{Name: "Korean BBQ & Hot Pot", Types: []string{"korean_restaurant", "restaurant"}}

	assert.Equal(t, []string{"korean", "hot_pot"}, m.Categories(r))
	assert.True(t, m.MatchesAny(r, []string{"japanese", "hot_pot"}))
	assert.False(t, m.MatchesAny(r, []string{"japanese"}))
	assert.False(t, m.MatchesAny(r, nil))
}

func TestDefaultMatcher_Table(t *testing.T) {
	m := NewDefaultMatcher()

	defs := m.Definitions()
	require.NotEmpty(t, defs)

	seen := map[string]bool{}
	for _, d := range defs {
		assert.False(t, seen[d.ID], "duplicate category %s", d.ID)
		seen[d.ID] = true
		assert.NotEmpty(t, d.Labels["en"], "category %s has no english label", d.ID)
		for _, typ := range d.Types {
			assert.Contains(t, TypeUniverse, typ, "category %s references unknown type", d.ID)
		}
	}

	for _, typ := range AlwaysKeepTypes {
		assert.Contains(t, TypeUniverse, typ)
	}

	assert.True(t, m.Matches(types.Restaurant{Name: "阿宗牛肉麵", Types: []string{"restaurant"}}, "noodles"))
	assert.False(t, m.Matches(types.Restaurant{Name: "吳寶春麵包店", Types: []string{"restaurant"}}, "noodles"))
	assert.False(t, m.Matches(types.Restaurant{Name: "Star Internet Cafe", Types: []string{"establishment"}}, "cafe"))
}

func TestHandler_ListCategories(t *testing.T) {
	h := NewHandler(NewDefaultMatcher(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		name     string
		target   string
		header   string
		wantLang string
	}{
		{name: "default english", target: "/categories", wantLang: "en"},
		{name: "query parameter", target: "/categories?lang=ja", wantLang: "ja"},
		{name: "accept language", target: "/categories", header: "zh,en;q=0.5", wantLang: "zh"},
		{name: "unsupported falls back", target: "/categories?lang=fr", wantLang: "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ListCategories(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)

			var entries []CatalogueEntry
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
			require.NotEmpty(t, entries)
			assert.Equal(t, "chinese", entries[0].ID)
			assert.Equal(t, entries[0].Labels[tt.wantLang], entries[0].Label)
		})
	}
}
