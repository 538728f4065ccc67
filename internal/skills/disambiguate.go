package skills

import "strings"

// DefaultWindow is the number of characters on each side of a match inspected when
// resolving an ambiguous term.
const DefaultWindow = 20

// Disambiguator decides whether a dictionary hit for a term that doubles as an ordinary
// word is a genuine skill mention.
type Disambiguator interface {
	// IsAmbiguous reports whether the canonical term needs context to be accepted.
	IsAmbiguous(term string) bool
	// Resolve reports whether match (the literal text found) is a skill mention given the
	// surrounding window.
	Resolve(term, match, window string) bool
}

// ContextRules is the default Disambiguator. A hit on an ambiguous term is accepted when it
// is written exactly in its canonical case and no negative phrase appears in the window,
// or when any technical cue appears in the window.
type ContextRules struct {
	negatives map[string][]string // canonical -> lower-cased negative phrases
	cues      []string
}

// NewContextRules builds rules from per-term negative phrases and shared technical cues.
// Phrases and cues are matched case-insensitively.
func NewContextRules(negatives map[string][]string, cues []string) *ContextRules {
	r := &ContextRules{
		negatives: make(map[string][]string, len(negatives)),
		cues:      lowerAll(cues),
	}
	for term, phrases := range negatives {
		r.negatives[term] = lowerAll(phrases)
	}
	return r
}

// DefaultContextRules returns the built-in rules.
func DefaultContextRules() *ContextRules {
	return defaultContextRules
}

var defaultContextRules = NewContextRules(DefaultNegativePhrases(), DefaultTechnicalCues())

// DefaultNegativePhrases returns the built-in non-technical usages per ambiguous term.
func DefaultNegativePhrases() map[string][]string {
	return map[string][]string{
		"Go":      {"go to", "go for", "go with", "go from", "go into", "go back", "go through", "go over", "go ahead"},
		"Rust":    {"rust proof", "rust prevention", "rust removal"},
		"Swift":   {"swift action", "swift response", "swift transition"},
		"R":       {"r&d", "r & d"},
		"Less":    {"less than", "more or less", "or less", "less of"},
		"Spring":  {"spring break", "in the spring", "this spring", "next spring"},
		"Express": {"express interest", "express your", "express yourself", "express ideas"},
		"REST":    {"the rest", "rest of", "rest assured"},
		"Shell":   {"shell out", "hard shell"},
	}
}

// DefaultTechnicalCues returns the built-in words that signal a technical context.
func DefaultTechnicalCues() []string {
	return []string{
		"programming", "language", "developer", "development", "code", "coding",
		"golang", "rustlang", "experience with", "knowledge of", "proficiency in",
		"skilled in", "expertise in", "framework", "library",
	}
}

// IsAmbiguous implements Disambiguator.
func (r *ContextRules) IsAmbiguous(term string) bool {
	_, ok := r.negatives[term]
	return ok
}

// Resolve implements Disambiguator.
func (r *ContextRules) Resolve(term, match, window string) bool {
	lower := strings.ToLower(window)

	for _, cue := range r.cues {
		if strings.Contains(lower, cue) {
			return true
		}
	}

	if match != term {
		return false
	}
	for _, phrase := range r.negatives[term] {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return true
}

// contextWindow returns text[start-size : end+size] clamped to the text bounds.
func contextWindow(text string, start, end, size int) string {
	from := max(0, start-size)
	to := min(len(text), end+size)
	return text[from:to]
}

func lowerAll(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != "" {
			out = append(out, strings.ToLower(s))
		}
	}
	return out
}
