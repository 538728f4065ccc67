package ingestion

import (
	"net/url"
	"strings"
)

// Platform is a known job board or applicant tracking system.
type Platform string

// Known platforms.
const (
	PlatformLinkedIn        Platform = "linkedin"
	PlatformIndeed          Platform = "indeed"
	PlatformGreenhouse      Platform = "greenhouse"
	PlatformLever           Platform = "lever"
	PlatformWorkday         Platform = "workday"
	PlatformGlassdoor       Platform = "glassdoor"
	PlatformZipRecruiter    Platform = "ziprecruiter"
	PlatformSmartRecruiters Platform = "smartrecruiters"
	PlatformAshby           Platform = "ashby"
	PlatformWellfound       Platform = "wellfound"
	PlatformUnknown         Platform = "unknown"
)

var platformHosts = []struct {
	platform Platform
	hosts    []string
}{
	{PlatformLinkedIn, []string{"linkedin.com"}},
	{PlatformIndeed, []string{"indeed.com"}},
	{PlatformGreenhouse, []string{"greenhouse.io"}},
	{PlatformLever, []string{"lever.co"}},
	{PlatformWorkday, []string{"myworkdayjobs.com", "workday.com"}},
	{PlatformGlassdoor, []string{"glassdoor.com"}},
	{PlatformZipRecruiter, []string{"ziprecruiter.com"}},
	{PlatformSmartRecruiters, []string{"smartrecruiters.com"}},
	{PlatformAshby, []string{"ashbyhq.com"}},
	{PlatformWellfound, []string{"wellfound.com", "angel.co"}},
}

// DetectPlatform identifies the job board from a posting URL.
func DetectPlatform(rawURL string) Platform {
	if rawURL == "" {
		return PlatformUnknown
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	for _, p := range platformHosts {
		for _, h := range p.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return p.platform
			}
		}
	}
	return PlatformUnknown
}

// IsKnown reports whether p is a recognized platform.
func (p Platform) IsKnown() bool {
	return p != "" && p != PlatformUnknown
}

// JobPostingSelectors returns generic selectors for the main content of a posting page.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// ContentSelectors returns the main-content selectors for a platform, most specific first.
func ContentSelectors(platform Platform) []string {
	var specific []string
	switch platform {
	case PlatformLinkedIn:
		specific = []string{".show-more-less-html__markup", ".description__text", ".jobs-description__content"}
	case PlatformIndeed:
		specific = []string{"#jobDescriptionText", ".jobsearch-JobComponent-description"}
	case PlatformGreenhouse:
		specific = []string{".job__description.body", ".job__description", "#content", ".job-post-container"}
	case PlatformLever:
		specific = []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description"}
	case PlatformWorkday:
		specific = []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']"}
	case PlatformGlassdoor:
		specific = []string{".jobDescriptionContent", "[class^='JobDetails_jobDescription']"}
	case PlatformSmartRecruiters:
		specific = []string{".job-sections", "[itemprop='description']"}
	case PlatformAshby:
		specific = []string{".ashby-job-posting-right-pane", "[class*='_descriptionText']"}
	}
	return append(specific, JobPostingSelectors()...)
}

// NoiseSelectors returns elements to drop for a platform: application forms, EEO
// disclosures, share buttons, and consent banners.
func NoiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		"#application-form",
		".application-form",
		".apply-button-container",
		".voluntary-disclosure",
		".eeo-statement",
		".self-identification",
		".social-share",
		".share-buttons",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformGreenhouse:
		return append(common, ".application--wrapper", "#usa_self_id_section", ".post-apply")
	case PlatformLever:
		return append(common, ".apply-section", ".posting-apply")
	case PlatformWorkday:
		return append(common, "[data-automation-id='applyButton']")
	case PlatformLinkedIn:
		return append(common, ".show-more-less-html__button", ".similar-jobs", ".job-alert-redirect-section")
	case PlatformIndeed:
		return append(common, "#jobsearch-ViewJobButtons-container", ".jobsearch-CompanyReview")
	default:
		return common
	}
}
