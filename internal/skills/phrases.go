package skills

import (
	"regexp"
	"strings"
)

var (
	leadInPattern = regexp.MustCompile(`(?i)(experience (?:with|in|using)|knowledge of|proficiency in|familiar with|expertise in|skilled in|working with)\s+([^,.;:\n]+)`)

	leadingFiller  = regexp.MustCompile(`(?i)^(?:(?:strong|solid|good|excellent|proven|deep|hands-on)\s+)+`)
	leadingJoin    = regexp.MustCompile(`(?i)^(?:and|or)\s+`)
	trailingFiller = regexp.MustCompile(`(?i)\s+(?:skills?|experience|knowledge)$`)
)

// ExtractPhrases finds objects of lead-in phrases ("experience with X", "knowledge of X")
// and returns the known skills they name. A phrase that is neither a known skill nor
// contains one contributes nothing, so prose such as "a team player" is never captured.
func (e *Extractor) ExtractPhrases(text string) []string {
	if e.checkLength(text) != nil || len(strings.TrimSpace(text)) < e.minLength {
		return []string{}
	}

	out := []string{}
	for _, m := range leadInPattern.FindAllStringSubmatch(text, -1) {
		leadIn := strings.ToLower(m[1])
		phrase := CleanPhrase(m[2])
		if phrase == "" {
			continue
		}

		if canonical, ok := e.dict.Lookup(phrase); ok {
			if !e.disambiguator.IsAmbiguous(canonical) ||
				e.disambiguator.Resolve(canonical, phrase, leadIn+" "+phrase) {
				out = appendUnique(out, canonical)
			}
			continue
		}

		// The lead-in is context for every term in the phrase, however far away.
		out = appendUnique(out, acceptedCanonicals(e.scan(phrase, leadIn))...)
	}
	return out
}

// CleanPhrase collapses whitespace and strips filler words around a candidate phrase.
func CleanPhrase(phrase string) string {
	p := strings.Join(strings.Fields(phrase), " ")
	p = leadingFiller.ReplaceAllString(p, "")
	p = leadingJoin.ReplaceAllString(p, "")
	p = trailingFiller.ReplaceAllString(p, "")
	return strings.TrimSpace(p)
}
