package types

// CategoryDefinition describes one cuisine category. Definitions are built once
// at start-up and never mutated.
type CategoryDefinition struct {
	ID string `json:"id"`
	// Labels holds the display name per language code.
	Labels map[string]string `json:"labels"`
	// Types are the provider type tags that classify a place with high confidence.
	Types []string `json:"types"`
	// NegativeKeywords reject the category when found in the name.
	NegativeKeywords []string `json:"negative_keywords,omitempty"`
	// Keywords maps a language code to name keywords for that language.
	Keywords map[string][]string `json:"keywords"`
}

// KeywordOnly reports whether the category can only be recognised by name.
func (d CategoryDefinition) KeywordOnly() bool {
	return len(d.Types) == 0
}
