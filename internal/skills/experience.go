package skills

import (
	"regexp"
	"strings"
)

var experiencePattern = regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|yrs?)\s+(?:of\s+)?(?:experience|exp)`)

// ExtractExperience returns experience-duration requirements such as "5+ years experience",
// deduplicated in order of appearance. It does not depend on the dictionary.
func ExtractExperience(text string) []string {
	matches := experiencePattern.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = appendUnique(out, formatExperience(m[1]))
	}
	return out
}

// ExtractExperience applies the package-level experience pattern after the length guard.
func (e *Extractor) ExtractExperience(text string) []string {
	if e.checkLength(text) != nil {
		return []string{}
	}
	return ExtractExperience(text)
}

// IsExperienceRequirement reports whether s is in the form produced by ExtractExperience.
func IsExperienceRequirement(s string) bool {
	return strings.HasSuffix(strings.ToLower(s), "+ years experience")
}

func formatExperience(years string) string {
	years = strings.TrimLeft(years, "0")
	if years == "" {
		years = "0"
	}
	return years + "+ years experience"
}
