package signals

import (
	"testing"

	"github.com/jonathan/job-matcher/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestDetectFairChance(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		company     string
		description string
		confidence  string
		signal      string
		reason      string
	}{
		{
			name:        "explicit keyword",
			title:       "Line Cook",
			company:     "Bistro",
			description: "We are a Fair Chance employer.",
			confidence:  types.ConfidenceHigh,
			signal:      "fair chance",
			reason:      `Detected: "fair chance" in job posting`,
		},
		{
			name:       "known employer",
			title:      "Barista",
			company:    "Starbucks",
			confidence: types.ConfidenceHigh,
			signal:     "starbucks",
			reason:     "Starbucks is a known Fair Chance employer",
		},
		{
			name:       "high confidence industry",
			title:      "Roofing Crew Member",
			company:    "Peak Builders",
			confidence: types.ConfidenceHigh,
			signal:     "roofing",
			reason:     "Roofing - industry known for fair chance hiring",
		},
		{
			name:        "job type",
			title:       "Forklift Operator",
			company:     "Northside Logistics",
			description: "Day shift",
			confidence:  types.ConfidenceHigh,
			signal:      "forklift operator",
			reason:      "Forklift Operator positions are typically fair chance friendly",
		},
		{
			name:       "medium industry",
			title:      "Help Desk Analyst",
			company:    "Initech",
			confidence: types.ConfidenceMedium,
			signal:     "help desk",
			reason:     "Help Desk - often fair chance friendly",
		},
		{
			name:        "keyword outranks medium industry",
			title:       "Call Center Representative",
			company:     "Initech",
			description: "Ban the box policy applies.",
			confidence:  types.ConfidenceHigh,
			signal:      "ban the box",
			reason:      `Detected: "ban the box" in job posting`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DetectFairChance(tt.title, tt.company, tt.description)
			assert.True(t, res.Matched)
			assert.Equal(t, tt.confidence, res.Confidence)
			assert.Equal(t, tt.signal, res.Signal)
			assert.Equal(t, tt.reason, res.Reason)
		})
	}
}

func TestDetectFairChance_NoSignal(t *testing.T) {
	res := DetectFairChance("Staff Engineer", "Initech", "Design distributed systems in Go.")
	assert.False(t, res.Matched)
	assert.Empty(t, res.Confidence)
	assert.Empty(t, res.Signal)
	assert.Empty(t, res.Reason)
}
