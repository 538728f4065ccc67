package pipeline

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-matcher/internal/config"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/signals"
	"github.com/jonathan/job-matcher/internal/types"
)

const backendPosting = `Senior Backend Engineer
About Acme Corp
Location: Remote
Apply: https://www.linkedin.com/jobs/view/3812345678.

We are building the future of logistics.

Requirements:
- Node.js and TypeScript
- 5+ years of experience building APIs
- Experience with PostgreSQL

Benefits:
- Health insurance
`

const warehousePosting = `Warehouse Associate
Location: Columbus, OH

Northwind is a fair chance employer. Entry level, will train.`

func TestAnalyze(t *testing.T) {
	analyzer := NewAnalyzer().WithCorpus([]types.CorpusPosting{
		{ID: "1", Requirements: []string{"PostgreSQL", "Docker"}},
		{ID: "2", Requirements: []string{"PostgreSQL"}},
	})

	result := analyzer.Analyze(backendPosting, "", "Node.js, TypeScript, Go")

	assert.Equal(t, "Senior Backend Engineer", result.Posting.Title)
	assert.Equal(t, "Acme Corp", result.Posting.Company)
	require.NotNil(t, result.Match)
	assert.Equal(t, 40, result.Match.MatchPercentage)
	assert.Equal(t, types.BandStretch, result.Match.Band)
	assert.Equal(t, []string{"node.js", "typescript"}, result.Match.MatchingSkills)
	assert.Equal(t, []string{"go"}, result.Match.AdditionalSkills)
	require.NotEmpty(t, result.Match.PrioritizedMissingSkills)
	assert.Equal(t, types.PrioritizedSkill{Skill: "postgresql", Demand: 2, IsHot: true}, result.Match.PrioritizedMissingSkills[0])
}

func TestAnalyze_NoResumeSkills(t *testing.T) {
	result := NewAnalyzer().Analyze(warehousePosting, "", "   ")

	assert.Nil(t, result.Match)
	assert.Equal(t, "Warehouse Associate", result.Posting.Title)
	assert.Equal(t, types.ClassificationResult{
		Matched:    true,
		Confidence: types.ConfidenceHigh,
		Signal:     "fair chance",
		Group:      signals.GroupKeywords,
		Reason:     `Detected: "fair chance" in job posting`,
	}, result.FairChance)
}

func TestAnalyze_NoRequirements(t *testing.T) {
	result := NewAnalyzer().Analyze("Cashier\nLocation: Remote\nFriendly people wanted for the front desk.", "", "Go")

	require.NotNil(t, result.Match)
	assert.Equal(t, matching.EmptyAnalysis(), *result.Match)
}

func TestAnalyzeHTML(t *testing.T) {
	html := `<html><head><title>Platform Engineer - Globex</title></head>
<body><nav>Jobs Home</nav><main><p>Requirements:</p><ul><li>Go</li><li>Kubernetes</li></ul></main></body></html>`

	result, err := NewAnalyzer().AnalyzeHTML(html, "", "Go")
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "Kubernetes"}, result.Posting.RequirementList)
	require.NotNil(t, result.Match)
	assert.Equal(t, 50, result.Match.MatchPercentage)
}

func TestAnalyzeCorpus_PreservesOrder(t *testing.T) {
	postings := make([]types.CorpusPosting, 20)
	for i := range postings {
		postings[i] = types.CorpusPosting{ID: string(rune('a' + i)), Title: string(rune('a' + i)), Requirements: []string{"Go"}}
	}
	postings[3].Requirements = []string{"Rust"}
	postings[7].Description = "We are a second chance employer."

	var calls atomic.Int32
	analyzer := NewAnalyzer(
		WithConcurrency(3),
		WithProgress(func(ProgressEvent) { calls.Add(1) }),
	)

	results, err := analyzer.AnalyzeCorpus(context.Background(), postings, "Go")
	require.NoError(t, err)
	require.Len(t, results, len(postings))

	for i, r := range results {
		assert.Equal(t, postings[i].Title, r.Posting.Title)
	}
	assert.Equal(t, 100, results[0].Match.MatchPercentage)
	assert.Equal(t, 0, results[3].Match.MatchPercentage)
	assert.True(t, results[7].FairChance.Matched)
	assert.Equal(t, int32(len(postings)), calls.Load())
}

func TestAnalyzeCorpus_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := NewAnalyzer().AnalyzeCorpus(ctx, []types.CorpusPosting{{ID: "1"}}, "Go")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Extraction.MaxRequirements = 2
	cfg.Signals.Tiers = []signals.Tier{{
		Confidence: "high",
		Groups:     []signals.Group{{Name: "remote", Terms: []string{"remote"}, Reason: "{Signal} role"}},
	}}

	analyzer, err := FromConfig(&cfg, nil)
	require.NoError(t, err)

	result := analyzer.Analyze(backendPosting, "", "")
	assert.Len(t, result.Posting.RequirementList, 2)
	assert.Equal(t, "Remote role", result.FairChance.Reason)
}

func TestFromConfig_InvalidTiers(t *testing.T) {
	cfg := config.Default()
	cfg.Signals.Tiers = []signals.Tier{{Confidence: "high"}}

	_, err := FromConfig(&cfg, nil)
	assert.Error(t, err)
}

func TestRecordFromCorpus(t *testing.T) {
	record := RecordFromCorpus(types.CorpusPosting{
		Title:        "SRE",
		Company:      "Hooli",
		Requirements: []string{"Kubernetes", "Terraform"},
	})

	assert.Equal(t, "SRE", record.Title)
	assert.Equal(t, "Kubernetes, Terraform", record.Requirements)
	assert.Equal(t, []string{"Kubernetes", "Terraform"}, record.RequirementList)
}

func TestRank(t *testing.T) {
	withPct := func(title string, pct int) types.PostingAnalysis {
		return types.PostingAnalysis{
			Posting: types.PostingRecord{Title: title},
			Match:   &types.MatchAnalysis{MatchPercentage: pct},
		}
	}
	input := []types.PostingAnalysis{
		{Posting: types.PostingRecord{Title: "unscored"}},
		withPct("low", 10),
		withPct("high", 90),
		withPct("also low", 10),
	}

	ranked := Rank(input)

	titles := make([]string, len(ranked))
	for i, r := range ranked {
		titles[i] = r.Posting.Title
	}
	assert.Equal(t, []string{"high", "low", "also low", "unscored"}, titles)
	assert.Equal(t, "unscored", input[0].Posting.Title, "input is left untouched")
}

func TestObserve(t *testing.T) {
	var calls atomic.Int32
	base := NewAnalyzer()
	observed := base.Observe(func(ProgressEvent) { calls.Add(1) })

	postings := []types.CorpusPosting{{ID: "1", Title: "A"}, {ID: "2", Title: "B"}}
	_, err := observed.AnalyzeCorpus(context.Background(), postings, "")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())

	_, err = base.AnalyzeCorpus(context.Background(), postings, "")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "the original analyzer has no callback")
}
