package matching

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultMinSkills is the minimum number of comma-separated skills accepted by ValidateSkills.
const DefaultMinSkills = 2

var urlPattern = regexp.MustCompile(`(?i)^https?://\S+$`)

// ValidateSkills checks that csv lists at least minCount skills.
func ValidateSkills(csv string, minCount int) error {
	if strings.TrimSpace(csv) == "" {
		return &ValidationError{Field: "skills", Message: "skills are required for job matching"}
	}
	if n := len(ParseSkills(csv)); n < minCount {
		return &ValidationError{
			Field:   "skills",
			Message: fmt.Sprintf("please enter at least %d skills separated by commas", minCount),
		}
	}
	return nil
}

// ValidateURL checks that u is an http or https URL. An empty u is valid unless required.
func ValidateURL(u string, required bool) error {
	if strings.TrimSpace(u) == "" {
		if required {
			return &ValidationError{Field: "url", Message: "URL is required"}
		}
		return nil
	}
	if !urlPattern.MatchString(strings.TrimSpace(u)) {
		return &ValidationError{Field: "url", Message: "please enter a valid URL starting with http:// or https://"}
	}
	return nil
}
