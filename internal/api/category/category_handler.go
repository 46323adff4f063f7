package category

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"github.com/FACorreiaa/go-lunch-roulette/internal/api"
)

// CatalogueEntry is one selectable category as shown in the settings screen.
type CatalogueEntry struct {
	ID     string            `json:"id"`
	Label  string            `json:"label"`
	Labels map[string]string `json:"labels"`
}

type Handler struct {
	matcher  *Matcher
	language language.Matcher
	tags     []language.Tag
	logger   *slog.Logger
}

func NewHandler(matcher *Matcher, logger *slog.Logger) *Handler {
	tags := make([]language.Tag, 0, len(Languages))
	for _, l := range Languages {
		tags = append(tags, language.Make(l))
	}
	return &Handler{
		matcher:  matcher,
		language: language.NewMatcher(tags),
		tags:     tags,
		logger:   logger,
	}
}

// ListCategories godoc
// @Summary      List cuisine categories
// @Description  Returns every category with its localized labels. The label language follows ?lang= or Accept-Language.
// @Tags         Categories
// @Produce      json
// @Param        lang query string false "Label language (en, zh, ja)"
// @Success      200 {array} category.CatalogueEntry
// @Router       /categories [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CategoryHandler").Start(r.Context(), "ListCategories", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/categories"),
	))
	defer span.End()

	lang := h.pickLanguage(r)
	span.SetAttributes(attribute.String("categories.lang", lang))

	defs := h.matcher.Definitions()
	out := make([]CatalogueEntry, 0, len(defs))
	for _, d := range defs {
		label, ok := d.Labels[lang]
		if !ok {
			label = d.Labels["en"]
		}
		out = append(out, CatalogueEntry{ID: d.ID, Label: label, Labels: d.Labels})
	}

	h.logger.DebugContext(ctx, "Listing categories", slog.String("lang", lang), slog.Int("count", len(out)))
	span.SetStatus(codes.Ok, "Categories listed")
	api.WriteJSONResponse(w, r, http.StatusOK, out)
}

func (h *Handler) pickLanguage(r *http.Request) string {
	var prefs []language.Tag
	if q := r.URL.Query().Get("lang"); q != "" {
		if t, err := language.Parse(q); err == nil {
			prefs = append(prefs, t)
		}
	}
	if accept, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language")); err == nil {
		prefs = append(prefs, accept...)
	}
	_, idx, _ := h.language.Match(prefs...)
	base, _ := h.tags[idx].Base()
	return base.String()
}
