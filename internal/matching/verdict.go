package matching

import (
	"fmt"
	"strings"

	"github.com/jonathan/job-matcher/internal/types"
)

// Band is a verdict band. A percentage belongs to the first band whose MinPercent it
// reaches, so bands must be ordered from highest threshold to lowest.
type Band struct {
	ID         types.VerdictBand
	MinPercent int
	Verdict    string
	Type       string
	Message    string
}

// DefaultBands returns the four built-in verdict bands.
func DefaultBands() []Band {
	return []Band{
		{ID: types.BandStrong, MinPercent: 70, Verdict: "YES, APPLY!", Type: "yes", Message: "Strong Match"},
		{ID: types.BandGood, MinPercent: 50, Verdict: "MAYBE", Type: "maybe", Message: "Partial Match"},
		{ID: types.BandStretch, MinPercent: 30, Verdict: "STRETCH", Type: "stretch", Message: "Gap Detected"},
		{ID: types.BandLow, MinPercent: 0, Verdict: "NOT YET", Type: "no", Message: "Significant Gap"},
	}
}

// bandFor returns the band for pct. The last band catches anything below every threshold.
func bandFor(bands []Band, pct int) Band {
	for _, b := range bands {
		if pct >= b.MinPercent {
			return b
		}
	}
	return bands[len(bands)-1]
}

// advice returns the recommendation and action items for a band.
func advice(band types.VerdictBand, prioritized []types.PrioritizedSkill) (string, []string) {
	top := make([]string, 0, 3)
	for i := 0; i < len(prioritized) && i < 3; i++ {
		top = append(top, prioritized[i].Skill)
	}
	topList := strings.Join(top, ", ")

	switch band {
	case types.BandStrong:
		items := []string{
			"Tailor your resume to highlight matching skills",
			"Prepare examples of your experience with these technologies",
		}
		if len(prioritized) > 0 {
			items = append(items, fmt.Sprintf("Mention willingness to learn: %s", strings.Join(top[:min(2, len(top))], ", ")))
		}
		return "Your skills align well with this role. Apply with confidence!", items
	case types.BandGood:
		return "You have a solid foundation. Worth applying if you can demonstrate quick learning.", []string{
			"Highlight transferable skills and quick learning ability",
			fmt.Sprintf("Priority skills to learn: %s", topList),
			"Consider taking a quick online course on the missing skills",
		}
	case types.BandStretch:
		return "This is a stretch role. Consider upskilling before applying.", []string{
			fmt.Sprintf("Focus on learning: %s", topList),
			"Look for entry-level positions in this area",
			"Build projects to demonstrate your ability to learn these skills",
		}
	default:
		return "Significant skill gap detected. Focus on building foundational skills.", []string{
			fmt.Sprintf("Core skills to develop: %s", topList),
			"Consider a bootcamp or structured learning program",
			"Save this job as a future goal and track your progress",
		}
	}
}
