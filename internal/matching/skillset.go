// Package matching scores a candidate's skills against a job's requirements and ranks
// missing skills by how often they are requested across a corpus of postings.
package matching

import "strings"

// SkillSet is an ordered list of lower-cased, trimmed, non-empty skill strings.
type SkillSet []string

// ParseSkillSet splits a comma-separated list into a SkillSet. Internal whitespace is
// collapsed to single spaces.
func ParseSkillSet(csv string) SkillSet {
	return NewSkillSet(ParseSkills(csv))
}

// NewSkillSet normalizes an existing list, dropping empty entries.
func NewSkillSet(skills []string) SkillSet {
	set := make(SkillSet, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.Join(strings.Fields(s), " "))
		if s != "" {
			set = append(set, s)
		}
	}
	return set
}

// ParseSkills splits a comma-separated list, trimming entries and dropping empty ones.
// Case is preserved.
func ParseSkills(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FormatSkills joins skills with ", ".
func FormatSkills(skills []string) string {
	return strings.Join(skills, ", ")
}

// Matches reports whether two normalized skills are equivalent: either is a substring of
// the other. The relation is symmetric.
func Matches(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// matchesAny reports whether skill matches any entry of set.
func matchesAny(skill string, set SkillSet) bool {
	for _, other := range set {
		if Matches(skill, other) {
			return true
		}
	}
	return false
}
