package skills

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize returns the canonical display form of a skill name.
// Known forms map to their canonical name; unknown single lower-case words get their
// first letter capitalized; anything else is returned trimmed with whitespace collapsed.
// Normalize is idempotent.
func (d *Dictionary) Normalize(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	if canonical, ok := d.Lookup(normalized); ok {
		return canonical
	}

	// Mixed case or all caps is treated as intentional (e.g. "gRPC", "AWS")
	if normalized != strings.ToLower(normalized) {
		return normalized
	}

	return capitalizeFirst(normalized)
}

// NormalizeSkillName normalizes a skill name against the default dictionary.
func NormalizeSkillName(skillName string) string {
	return defaultDictionary.Normalize(skillName)
}

// NormalizeList normalizes each name and drops empties and case-insensitive duplicates,
// keeping the first occurrence.
func (d *Dictionary) NormalizeList(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		normalized := d.Normalize(name)
		if normalized == "" {
			continue
		}
		key := strings.ToLower(normalized)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, normalized)
	}
	return out
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Merge concatenates lists, dropping empties and case-insensitive duplicates while keeping
// the first occurrence.
func Merge(lists ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, s := range list {
			key := strings.ToLower(s)
			if s == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, s)
		}
	}
	if out == nil {
		return []string{}
	}
	return out
}
