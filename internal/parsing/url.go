package parsing

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	urlPattern     = regexp.MustCompile(`(?i)https?://[^\s<>"'` + "`" + `]+`)
	jobPathPattern = regexp.MustCompile(`(?i)jobs?|careers?|apply|positions?|openings?|vacanc`)
)

// jobBoardHosts are ranked first when choosing a posting URL.
var jobBoardHosts = []string{
	"linkedin.com",
	"indeed.com",
	"greenhouse.io",
	"lever.co",
	"myworkdayjobs.com",
	"workday.com",
	"glassdoor.com",
	"ziprecruiter.com",
	"monster.com",
	"wellfound.com",
	"angel.co",
	"smartrecruiters.com",
	"ashbyhq.com",
}

const urlTrailingPunctuation = `.,;:!?)]}>'"`

// FindURL returns the most likely posting URL mentioned in text, or "".
func FindURL(text string) string {
	return BestURL(urlPattern.FindAllString(text, -1))
}

// BestURL picks a posting URL from candidates: job-board links first, then links whose
// path or host mentions jobs, careers, or applying, then the first link. Trailing
// punctuation is stripped from the result.
func BestURL(candidates []string) string {
	best, bestRank := "", 3
	for _, c := range candidates {
		c = TrimURL(c)
		if c == "" {
			continue
		}
		rank := rankURL(c)
		if rank < bestRank {
			best, bestRank = c, rank
			if rank == 0 {
				break
			}
		}
	}
	return best
}

// TrimURL removes punctuation that commonly trails a URL in prose.
func TrimURL(u string) string {
	u = strings.TrimSpace(u)
	u = strings.TrimRight(u, urlTrailingPunctuation)
	if !strings.Contains(strings.ToLower(u), "://") {
		return ""
	}
	return u
}

func rankURL(u string) int {
	host := strings.ToLower(u)
	if parsed, err := url.Parse(u); err == nil && parsed.Host != "" {
		host = strings.ToLower(parsed.Hostname())
	}
	for _, board := range jobBoardHosts {
		if host == board || strings.HasSuffix(host, "."+board) {
			return 0
		}
	}
	if jobPathPattern.MatchString(u) {
		return 1
	}
	return 2
}
