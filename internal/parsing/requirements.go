package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/job-matcher/internal/ingestion"
)

const maxHeadingLength = 60

// requirementHeadings open a requirements section. They are checked before majorHeadings
// so that "Responsibilities & Requirements" opens a section.
var requirementHeadings = []string{
	"requirements", "qualifications", "what you'll need", "what you will need",
	"what we're looking for", "what we are looking for", "must have", "must-have",
	"skills", "you have", "about you", "who you are", "nice to have", "preferred",
	"tech stack", "technologies",
}

// majorHeadings close a requirements section.
var majorHeadings = []string{
	"benefits", "responsibilities", "perks", "what we offer", "about us", "compensation",
	"salary", "how to apply", "what you'll do", "what you will do", "duties",
	"about the company", "about the role", "why join", "equal opportunity",
}

var boilerplate = regexp.MustCompile(`(?i)\b(?:must\s+have|(?:is|are|would\s+be)?\s*a\s+(?:big\s+)?plus|nice\s+to\s+have|years?\s+of\s+(?:professional\s+|hands-on\s+)?experience\s+(?:in|with)|required|preferred|ability\s+to|experience\s+(?:with|in|using)|strong|solid)\b`)

type headingKind int

const (
	notHeading headingKind = iota
	requirementHeading
	majorHeading
)

// RequirementLines returns the bullet lines of the requirements sections of a posting with
// bullet markers and boilerplate removed. Inline content after a heading colon counts as a
// line. Lines is the cleaned posting split into lines.
func RequirementLines(lines []string) []string {
	var curated []string
	inSection := false

	for _, line := range lines {
		kind, inline := classifyHeading(line)
		switch kind {
		case requirementHeading:
			inSection = true
			if inline != "" {
				curated = appendCurated(curated, inline)
			}
			continue
		case majorHeading:
			inSection = false
			continue
		}

		if !inSection {
			continue
		}
		if text, ok := ingestion.StripBullet(line); ok {
			curated = appendCurated(curated, text)
		}
	}
	return curated
}

// StripBoilerplate removes phrases such as "must have" and "is a plus" from a
// requirement line.
func StripBoilerplate(line string) string {
	line = boilerplate.ReplaceAllString(line, " ")
	line = strings.Join(strings.Fields(line), " ")
	return strings.Trim(line, " ,;:.-")
}

func appendCurated(curated []string, text string) []string {
	if stripped := StripBoilerplate(text); stripped != "" {
		return append(curated, stripped)
	}
	return curated
}

// classifyHeading reports whether line is a section heading and what kind. For headings
// of the form "Requirements: Go, SQL" the text after the colon is returned.
func classifyHeading(line string) (headingKind, string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || ingestion.IsBulletLine(trimmed) {
		return notHeading, ""
	}

	label, inline := trimmed, ""
	hasColon := false
	if i := strings.Index(trimmed, ":"); i >= 0 && !strings.Contains(trimmed[:i], "//") {
		label, inline = trimmed[:i], strings.TrimSpace(trimmed[i+1:])
		hasColon = true
	}
	label = strings.TrimSpace(strings.TrimLeft(label, "#"))
	if label == "" || utf8.RuneCountInString(label) > maxHeadingLength {
		return notHeading, ""
	}

	explicit := strings.HasPrefix(trimmed, "#") || hasColon
	if !explicit && (len(strings.Fields(label)) > 6 || strings.HasSuffix(label, ".")) {
		return notHeading, ""
	}

	key := strings.ToLower(strings.ReplaceAll(label, "’", "'"))
	for _, h := range requirementHeadings {
		if strings.Contains(key, h) {
			return requirementHeading, inline
		}
	}
	for _, h := range majorHeadings {
		if strings.Contains(key, h) {
			return majorHeading, ""
		}
	}
	return notHeading, ""
}
