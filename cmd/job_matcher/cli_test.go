package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonathan/job-matcher/internal/export"
	"github.com/jonathan/job-matcher/internal/types"
)

const backendPosting = `Senior Backend Engineer
About Acme Corp
Location: Remote

Requirements:
- Node.js and TypeScript
- 5+ years of experience building APIs
- Experience with PostgreSQL
`

const corpusYAML = `postings:
  - {title: Backend Engineer, company: Acme, requirements: [Go, PostgreSQL, Docker]}
  - {title: Platform Engineer, company: Globex, requirements: [Go, Kubernetes]}
  - {title: Data Engineer, company: Initech, requirements: [Python, Spark, PostgreSQL]}
`

// resetFlags restores every flag to its default so commands can run more than once.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// sandbox runs the test in an empty directory with an empty home so no config file is found.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfgFile = ""

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func decodeJSON(t *testing.T, out string, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(out), v), out)
}

func TestVersion(t *testing.T) {
	sandbox(t)
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "job_matcher dev\n", out)
}

func TestExtractSkills(t *testing.T) {
	sandbox(t)

	out, err := execute(t, "", "extract-skills", "--text", "Experience with Go and Kubernetes, plus PostgreSQL.")
	require.NoError(t, err)

	var got extractOutput
	decodeJSON(t, out, &got)
	assert.Equal(t, []string{"Go", "Kubernetes", "PostgreSQL"}, got.Skills)
	assert.Empty(t, got.Experience)
}

func TestExtractSkills_StdinWithExperience(t *testing.T) {
	sandbox(t)

	out, err := execute(t, backendPosting, "extract-skills", "--experience")
	require.NoError(t, err)

	var got extractOutput
	decodeJSON(t, out, &got)
	assert.Contains(t, got.Skills, "TypeScript")
	assert.Equal(t, []string{"5+ years experience"}, got.Experience)
}

func TestExtractSkills_InAndTextExclusive(t *testing.T) {
	sandbox(t)
	_, err := execute(t, "", "extract-skills", "--in", "a.txt", "--text", "b")
	assert.Error(t, err)
}

func TestParsePosting(t *testing.T) {
	dir := sandbox(t)
	in := writeFile(t, dir, "posting.txt", backendPosting)
	outPath := filepath.Join(dir, "out", "posting.json")

	out, err := execute(t, "", "parse-posting", "--in", in, "--out", outPath, "--url", "https://jobs.example.com/123")
	require.NoError(t, err)
	assert.Contains(t, out, "Output: "+outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var record types.PostingRecord
	decodeJSON(t, string(data), &record)
	assert.Equal(t, "Senior Backend Engineer", record.Title)
	assert.Equal(t, "Acme Corp", record.Company)
	assert.Equal(t, "Remote", record.Location)
	assert.Equal(t, "https://jobs.example.com/123", record.URL)
	assert.Contains(t, record.RequirementList, "PostgreSQL")
}

func TestParsePosting_HTMLDetected(t *testing.T) {
	sandbox(t)
	html := `<html><head><title>Platform Engineer - Globex</title></head>
<body><main><p>Requirements:</p><ul><li>Go</li><li>Kubernetes</li></ul></main></body></html>`

	out, err := execute(t, html, "parse-posting")
	require.NoError(t, err)

	var record types.PostingRecord
	decodeJSON(t, out, &record)
	assert.Equal(t, []string{"Go", "Kubernetes"}, record.RequirementList)
}

func TestParsePosting_BadURL(t *testing.T) {
	sandbox(t)
	_, err := execute(t, backendPosting, "parse-posting", "--url", "ftp://example.com")
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		matched    bool
		confidence string
		signal     string
	}{
		{
			name:       "keyword in text",
			args:       []string{"--text", "We are a second chance employer."},
			matched:    true,
			confidence: "high",
			signal:     "second chance",
		},
		{
			name:       "known employer from company",
			args:       []string{"--title", "Cashier", "--company", "Starbucks"},
			matched:    true,
			confidence: "high",
			signal:     "starbucks",
		},
		{
			name:    "no signal",
			args:    []string{"--text", "Senior software engineer building payment systems."},
			matched: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sandbox(t)
			out, err := execute(t, "", append([]string{"classify"}, tt.args...)...)
			require.NoError(t, err)

			var got types.ClassificationResult
			decodeJSON(t, out, &got)
			assert.Equal(t, tt.matched, got.Matched)
			assert.Equal(t, tt.confidence, got.Confidence)
			assert.Equal(t, tt.signal, got.Signal)
		})
	}
}

func TestClassify_All(t *testing.T) {
	sandbox(t)
	out, err := execute(t, "", "classify", "--all", "--text", "Fair chance warehouse job, entry level.")
	require.NoError(t, err)

	var got []types.ClassificationResult
	decodeJSON(t, out, &got)
	require.Len(t, got, 3)
	assert.Equal(t, "keywords", got[0].Group)
}

func TestClassify_Empty(t *testing.T) {
	sandbox(t)
	_, err := execute(t, "  ", "classify")
	assert.Error(t, err)
}

func TestMatch_Requirements(t *testing.T) {
	sandbox(t)
	out, err := execute(t, "", "match", "--resume", "Go, Docker, SQL", "--requirements", "Go, Kubernetes, Docker")
	require.NoError(t, err)

	var got matchOutput
	decodeJSON(t, out, &got)
	assert.Nil(t, got.Posting)
	assert.Equal(t, 67, got.Match.MatchPercentage)
	assert.Equal(t, types.BandGood, got.Match.Band)
	assert.Equal(t, []string{"kubernetes"}, got.Match.MissingSkills)
}

func TestMatch_PostingFileWithCorpus(t *testing.T) {
	dir := sandbox(t)
	in := writeFile(t, dir, "posting.txt", backendPosting)
	corpus := filepath.Join(dir, "corpus")
	writeFile(t, corpus, "postings.yaml", corpusYAML)

	out, err := execute(t, "", "match", "--resume", "Node.js, TypeScript, Go", "--in", in, "--corpus", corpus)
	require.NoError(t, err)

	var got matchOutput
	decodeJSON(t, out, &got)
	require.NotNil(t, got.Posting)
	assert.Equal(t, "Senior Backend Engineer", got.Posting.Title)
	require.NotNil(t, got.FairChance)
	assert.False(t, got.FairChance.Matched)
	assert.Equal(t, 40, got.Match.MatchPercentage)
	require.NotEmpty(t, got.Match.PrioritizedMissingSkills)
	assert.Equal(t, types.PrioritizedSkill{Skill: "postgresql", Demand: 2, IsHot: true}, got.Match.PrioritizedMissingSkills[0])
}

func TestMatch_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing resume", args: []string{"--requirements", "Go, SQL"}},
		{name: "one resume skill", args: []string{"--resume", "Go", "--requirements", "Go, SQL"}},
		{name: "no requirements", args: []string{"--resume", "Go, SQL"}},
		{name: "bad url", args: []string{"--resume", "Go, SQL", "--requirements", "Go", "--url", "not a url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sandbox(t)
			_, err := execute(t, "", append([]string{"match"}, tt.args...)...)
			assert.Error(t, err)
		})
	}
}

func TestTrending(t *testing.T) {
	dir := sandbox(t)
	corpus := filepath.Join(dir, "corpus")
	writeFile(t, corpus, "postings.yaml", corpusYAML)

	out, err := execute(t, "", "trending", "--corpus", corpus, "--limit", "2")
	require.NoError(t, err)

	var got trendingOutput
	decodeJSON(t, out, &got)
	assert.Equal(t, 3, got.Postings)
	assert.Equal(t, []types.SkillCount{{Skill: "go", Count: 2}, {Skill: "postgresql", Count: 2}}, got.Skills)
}

func TestTrending_CorpusFromConfigFile(t *testing.T) {
	dir := sandbox(t)
	writeFile(t, dir, "corpus/postings.yaml", corpusYAML)
	writeFile(t, dir, "job_matcher.yaml", "corpus:\n  dir: corpus\nmatching:\n  top-skills: 1\n")

	out, err := execute(t, "", "trending")
	require.NoError(t, err)

	var got trendingOutput
	decodeJSON(t, out, &got)
	assert.Equal(t, []types.SkillCount{{Skill: "go", Count: 2}}, got.Skills)
}

func TestTrending_NoCorpus(t *testing.T) {
	sandbox(t)
	_, err := execute(t, "", "trending")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corpus directory is required")
}

func TestReport(t *testing.T) {
	dir := sandbox(t)
	corpus := filepath.Join(dir, "corpus")
	writeFile(t, corpus, "postings.yaml", corpusYAML)

	out, err := execute(t, "", "report", "--corpus", corpus, "--resume", "Go, Docker, PostgreSQL", "--out", "matches")
	require.NoError(t, err)
	assert.Contains(t, out, "Report: matches.xlsx (3 postings)")

	f, err := excelize.OpenFile(filepath.Join(dir, "matches.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{export.MatchesSheet, export.TrendingSheet}, f.GetSheetList())
	first, err := f.GetCellValue(export.MatchesSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", first)
	last, err := f.GetCellValue(export.MatchesSheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer", last)
}

func TestReport_Limit(t *testing.T) {
	dir := sandbox(t)
	writeFile(t, dir, "corpus/postings.yaml", corpusYAML)

	out, err := execute(t, "", "report", "--corpus", "corpus", "--resume", "Go, Kubernetes", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "job_matcher_report.xlsx (1 postings)")
}

func TestValidate(t *testing.T) {
	dir := sandbox(t)
	valid := writeFile(t, dir, "valid.json", `{"matched": true, "confidence": "high", "signal": "fair chance", "group": "keywords", "reason": "Detected"}`)
	invalid := writeFile(t, dir, "invalid.json", `{"confidence": "high"}`)

	out, err := execute(t, "", "validate", "--schema", "classification_result", "--in", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "Validation passed")

	out, err = execute(t, "", "validate", "--schema", "classification_result", "--in", invalid)
	require.Error(t, err)
	assert.Contains(t, out, "Validation failed")
}

func TestValidate_List(t *testing.T) {
	sandbox(t)
	out, err := execute(t, "", "validate", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "posting_record\n")
	assert.Contains(t, out, "match_analysis\n")
}

func TestValidate_UnknownSchema(t *testing.T) {
	dir := sandbox(t)
	in := writeFile(t, dir, "doc.json", `{}`)
	_, err := execute(t, "", "validate", "--schema", "nope", "--in", in)
	assert.Error(t, err)
}

func TestConfigFlag_InvalidFile(t *testing.T) {
	dir := sandbox(t)
	path := writeFile(t, dir, "bad.yaml", "server:\n  port: 99999\n")
	_, err := execute(t, "", "--config", path, "version")
	assert.Error(t, err)
}
