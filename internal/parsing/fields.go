package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/job-matcher/internal/ingestion"
)

const (
	titleScanLines    = 10
	companyScanLines  = 20
	maxTitleLength    = 80
	maxCompanyLength  = 50
	maxRoleLineLength = 100
	maxRoleWords      = 8
)

var (
	titleLabel = regexp.MustCompile(`(?i)^(?:job\s+title|title|position|role)\s*[:\-–—]\s*(.+)$`)
	roleNoun   = regexp.MustCompile(`(?i)\b(?:engineer|developer|manager|analyst|designer|architect|scientist|specialist|consultant|administrator|lead|director|coordinator|technician|intern|associate|programmer|recruiter)s?(?:\s*\(.*\))?(?:\s+(?:i{1,3}|iv|v|[1-5]))?$`)
	// roleSeparator splits "Role at Company", "Role - Company" and "Role | Company".
	roleSeparator = regexp.MustCompile(`^(.+?)\s+(?:at|@|[-–—|])\s+(.+)$`)
	hiringLead    = regexp.MustCompile(`(?i)^(?:we(?:'re|’re| are)\s+(?:looking\s+for|hiring|seeking)|now\s+hiring|hiring|join\s+us\s+as|looking\s+for)\s*:?\s+(?:an?\s+)?`)
	// companyHiringLead matches "Acme Corp is hiring a" ahead of a role.
	companyHiringLead = regexp.MustCompile(`^[A-Z][\w&.'’-]*(?:\s+[A-Z][\w&.'’-]*)*\s+(?i:is|are)\s+(?i:hiring|looking\s+for|seeking)\s*:?\s+(?i:an?\s+)?`)

	companyLabel = regexp.MustCompile(`(?i)^(?:company(?:\s+name)?|employer|organi[sz]ation|hiring\s+company)\s*[:\-–—]\s*(.+)$`)
	aboutJoin    = regexp.MustCompile(`^(?i:about|join)\s+(.+?)(?:\s+(?i:as|and|to|in|where|on)\b.*|[,!:(].*)?$`)
	atCompany    = regexp.MustCompile(`(?:\b[Aa]t|@)\s+([A-Z][\w&.'’-]*(?:\s+[A-Z][\w&.'’-]*)*)`)
	isHiring     = regexp.MustCompile(`^([A-Z][\w&.'’-]*(?:\s+[A-Z][\w&.'’-]*)*)\s+(?i:is|are)\s+(?i:hiring|looking|seeking)\b`)

	locationLabel = regexp.MustCompile(`(?i)^(?:job\s+|work\s+)?(?:location|based\s+in|office)\s*[:\-–—]\s*(.+)$`)
	workMode      = regexp.MustCompile(`(?i)\b(remote|hybrid|on-site|onsite|on\s+site|in-office)\b`)
	cityState     = regexp.MustCompile(`\b([A-Z][a-zA-Z.'-]+(?:\s+[A-Z][a-zA-Z.'-]+){0,3}),\s*([A-Z]{2})\b`)

	markdownEmphasis = regexp.MustCompile(`\*\*|__`)
)

// companyStopWords start phrases like "About the role" or "Join our team" that do not
// name a company.
var companyStopWords = map[string]bool{
	"the": true, "this": true, "our": true, "us": true, "you": true, "your": true,
	"a": true, "an": true, "me": true, "we": true, "them": true,
}

var workModes = map[string]string{
	"remote":    "Remote",
	"hybrid":    "Hybrid",
	"on-site":   "On-site",
	"onsite":    "On-site",
	"on site":   "On-site",
	"in-office": "On-site",
}

var stateCodes = toSet(
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA", "HI", "ID", "IL", "IN", "IA",
	"KS", "KY", "LA", "ME", "MD", "MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC", "SD", "TN", "TX", "UT", "VT",
	"VA", "WA", "WV", "WI", "WY", "DC",
)

// ExtractTitle finds the job title in the leading lines of a posting.
func ExtractTitle(lines []string) string {
	head := firstN(lines, titleScanLines)

	for _, line := range head {
		if m := titleLabel.FindStringSubmatch(line); m != nil {
			if title := cleanField(m[1]); title != "" {
				return title
			}
		}
	}

	for _, line := range head {
		if title := roleTitle(line); title != "" {
			return title
		}
	}

	if len(head) > 0 && isTitleFallback(head[0]) {
		return cleanField(head[0])
	}
	return ""
}

func isTitleFallback(line string) bool {
	if utf8.RuneCountInString(line) >= maxTitleLength || strings.HasSuffix(line, ".") ||
		strings.HasSuffix(line, "!") || strings.HasSuffix(line, "?") {
		return false
	}
	if ingestion.IsBulletLine(line) || urlPattern.MatchString(line) ||
		companyLabel.MatchString(line) || locationLabel.MatchString(line) {
		return false
	}
	return cleanField(line) != ""
}

// roleTitle returns line as a title when it ends in a role noun, splitting off a trailing
// "at Company" part.
func roleTitle(line string) string {
	if utf8.RuneCountInString(line) > maxRoleLineLength || urlPattern.MatchString(line) ||
		ingestion.IsBulletLine(line) {
		return ""
	}
	candidate := hiringLead.ReplaceAllString(line, "")
	candidate = companyHiringLead.ReplaceAllString(candidate, "")
	candidate = strings.TrimRight(candidate, " .!:")
	if len(strings.Fields(candidate)) > maxRoleWords {
		return ""
	}
	if roleNoun.MatchString(candidate) {
		return cleanField(candidate)
	}
	if m := roleSeparator.FindStringSubmatch(candidate); m != nil && roleNoun.MatchString(m[1]) {
		return cleanField(m[1])
	}
	return ""
}

// ExtractCompany finds the hiring company in the leading lines of a posting.
func ExtractCompany(lines []string) string {
	head := firstN(lines, companyScanLines)

	matchers := []func(string) string{
		func(line string) string { return submatch(companyLabel, line) },
		func(line string) string { return named(submatch(aboutJoin, line)) },
		func(line string) string { return named(submatch(atCompany, line)) },
		func(line string) string { return named(submatch(isHiring, line)) },
	}

	for _, match := range matchers {
		for _, line := range head {
			name := cleanField(match(line))
			if name != "" && utf8.RuneCountInString(name) < maxCompanyLength {
				return name
			}
		}
	}
	return ""
}

// ExtractLocation finds a location label, a work-mode keyword, or a "City, ST" mention.
func ExtractLocation(lines []string) string {
	for _, line := range lines {
		if loc := cleanField(submatch(locationLabel, line)); loc != "" {
			return loc
		}
	}
	for _, line := range lines {
		if m := workMode.FindStringSubmatch(line); m != nil {
			key := strings.Join(strings.Fields(strings.ToLower(m[1])), " ")
			return workModes[key]
		}
	}
	for _, line := range lines {
		for _, m := range cityState.FindAllStringSubmatch(line, -1) {
			if stateCodes[m[2]] {
				return m[1] + ", " + m[2]
			}
		}
	}
	return ""
}

// prepareLines splits cleaned text into non-empty lines without markdown heading or
// emphasis markers.
func prepareLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = markdownEmphasis.ReplaceAllString(line, "")
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// cleanField trims whitespace, bullets, quotes, and trailing separators from a value.
func cleanField(s string) string {
	s, _ = ingestion.StripBullet(s)
	s = strings.Trim(s, " \t\"'“”*_")
	s = strings.TrimRight(s, " .,;:!|-–—")
	return strings.Join(strings.Fields(s), " ")
}

func submatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

// named returns s unless it starts with a pronoun or article.
func named(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 || companyStopWords[strings.ToLower(fields[0])] {
		return ""
	}
	return s
}

func firstN(lines []string, n int) []string {
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}

func toSet(values ...string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
