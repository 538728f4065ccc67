package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-matcher/internal/ingestion"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/types"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestLoadCorpus(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a_backend.txt": backendPosting,
		"b_platform.html": `<html><head><title>Platform Engineer - Globex</title></head>
<body><main><p>Requirements:</p><ul><li>Go</li><li>Kubernetes</li></ul></main></body></html>`,
		"c_batch.yaml": `postings:
  - id: sre-1
    title: Site Reliability Engineer
    company: Hooli
    requirements: [kubernetes, golang, Terraform]
  - title: Data Engineer
    company: Pied Piper
    requirements: "python, spark"
`,
		"d_single.json": `{"id": 7, "title": "ML Engineer", "company": "Initech",
  "description": "Requirements:\n- Python and PyTorch\n- Experience with AWS"}`,
		"notes.csv":   "ignored",
		".hidden.txt": "ignored",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	postings, err := LoadCorpus(context.Background(), dir, WithCorpusConcurrency(2))
	require.NoError(t, err)
	require.Len(t, postings, 5)

	backend := postings[0]
	assert.Equal(t, "a_backend.txt", backend.Source)
	assert.Equal(t, "Senior Backend Engineer", backend.Title)
	assert.Equal(t, []string{"Node.js", "TypeScript", "API", "PostgreSQL", "5+ years experience"}, backend.Requirements)
	assert.Equal(t, ingestion.ComputeHash(ingestion.CleanText(backendPosting)), backend.Hash)
	assert.NotEmpty(t, backend.ID)

	platform := postings[1]
	assert.Equal(t, "b_platform.html", platform.Source)
	assert.Equal(t, []string{"Go", "Kubernetes"}, platform.Requirements)
	assert.Len(t, platform.Hash, 64)

	sre := postings[2]
	assert.Equal(t, "sre-1", sre.ID)
	assert.Equal(t, "c_batch.yaml", sre.Source)
	assert.Equal(t, []string{"Kubernetes", "Go", "Terraform"}, sre.Requirements)

	data := postings[3]
	assert.Equal(t, "Data Engineer", data.Title)
	assert.NotEmpty(t, data.ID)
	assert.Equal(t, []string{"Python", "Spark"}, data.Requirements)

	ml := postings[4]
	assert.Equal(t, "7", ml.ID)
	assert.Equal(t, []string{"Python", "PyTorch", "AWS"}, ml.Requirements)
}

func TestLoadCorpus_FeedsDemand(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"postings.yaml": `- {title: A, requirements: [Go, Docker]}
- {title: B, requirements: [go]}
- {title: C, requirements: [Rust]}
`,
	})

	postings, err := LoadCorpus(context.Background(), dir)
	require.NoError(t, err)

	top := matching.TopSkills(postings, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "go", top[0].Skill)
	assert.Equal(t, 2, top[0].Count)
}

func TestLoadCorpus_Empty(t *testing.T) {
	postings, err := LoadCorpus(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, postings)
}

func TestLoadCorpus_MissingDir(t *testing.T) {
	_, err := LoadCorpus(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read corpus directory")
}

func TestLoadCorpus_BadFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"ok.txt":   backendPosting,
		"bad.yaml": "title: [unclosed",
	})

	_, err := LoadCorpus(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load bad.yaml")
}

func TestLoadCorpus_Canceled(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.txt": backendPosting})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadCorpus(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodePosting_WeakTypes(t *testing.T) {
	var p types.CorpusPosting
	err := decodePosting(map[string]any{
		"id":           42,
		"title":        "QA Engineer",
		"requirements": "Selenium, Cypress",
		"unknown":      true,
	}, &p)
	require.NoError(t, err)

	assert.Equal(t, "42", p.ID)
	assert.Equal(t, "QA Engineer", p.Title)
	assert.Equal(t, []string{"Selenium", " Cypress"}, p.Requirements)
}
