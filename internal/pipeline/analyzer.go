// Package pipeline combines parsing, classification, and match scoring into single-posting
// and corpus-wide analyses.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-matcher/internal/config"
	"github.com/jonathan/job-matcher/internal/logging"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/parsing"
	"github.com/jonathan/job-matcher/internal/signals"
	"github.com/jonathan/job-matcher/internal/types"
)

// DefaultConcurrency bounds the postings analyzed at once.
const DefaultConcurrency = 8

// ProgressEvent reports that one posting of a batch has been analyzed.
type ProgressEvent struct {
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
}

// ProgressCallback is called once per analyzed posting. It may be called concurrently.
type ProgressCallback func(event ProgressEvent)

// Analyzer runs the parser, fair-chance classifier, and scorer over postings. Every
// component is immutable, so an Analyzer is safe for concurrent use.
type Analyzer struct {
	parser      *parsing.Parser
	classifier  *signals.Classifier
	scorer      *matching.Scorer
	demand      *matching.DemandTable
	concurrency int
	onProgress  ProgressCallback
	logger      *zap.Logger
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithParser sets the posting parser.
func WithParser(p *parsing.Parser) AnalyzerOption {
	return func(a *Analyzer) {
		if p != nil {
			a.parser = p
		}
	}
}

// WithClassifier sets the signal classifier.
func WithClassifier(c *signals.Classifier) AnalyzerOption {
	return func(a *Analyzer) {
		if c != nil {
			a.classifier = c
		}
	}
}

// WithScorer sets the match scorer.
func WithScorer(s *matching.Scorer) AnalyzerOption {
	return func(a *Analyzer) {
		if s != nil {
			a.scorer = s
		}
	}
}

// WithDemand sets the corpus demand table used to prioritize missing skills.
func WithDemand(t *matching.DemandTable) AnalyzerOption {
	return func(a *Analyzer) {
		a.demand = t
	}
}

// WithConcurrency bounds the goroutines used by AnalyzeCorpus.
func WithConcurrency(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithProgress registers a progress callback for AnalyzeCorpus.
func WithProgress(cb ProgressCallback) AnalyzerOption {
	return func(a *Analyzer) {
		a.onProgress = cb
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer creates an analyzer with default components unless overridden.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		concurrency: DefaultConcurrency,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.parser == nil {
		a.parser = parsing.NewParser(parsing.WithLogger(a.logger))
	}
	if a.classifier == nil {
		a.classifier = signals.FairChance()
	}
	if a.scorer == nil {
		a.scorer = matching.NewScorer(matching.WithScorerLogger(a.logger))
	}
	return a
}

// FromConfig builds an analyzer whose components follow cfg. Extra options are applied
// after the configured ones.
func FromConfig(cfg *config.Config, logger *zap.Logger, opts ...AnalyzerOption) (*Analyzer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	classifier, err := cfg.Classifier()
	if err != nil {
		return nil, err
	}
	base := []AnalyzerOption{
		WithLogger(logging.Component(logger, "pipeline")),
		WithParser(NewParser(cfg, logger)),
		WithClassifier(classifier),
		WithScorer(matching.NewScorer(matching.WithScorerLogger(logging.Component(logger, "matching")))),
		WithConcurrency(cfg.Corpus.Concurrency),
	}
	return NewAnalyzer(append(base, opts...)...), nil
}

// NewParser builds a posting parser from the extraction settings of cfg.
func NewParser(cfg *config.Config, logger *zap.Logger) *parsing.Parser {
	return parsing.NewParser(
		parsing.WithExtractor(cfg.Extractor(logging.Component(logger, "skills"))),
		parsing.WithMaxRequirements(cfg.Extraction.MaxRequirements),
		parsing.WithMaxInputLength(cfg.Extraction.MaxInputLength),
		parsing.WithLogger(logging.Component(logger, "parsing")),
	)
}

// Parser returns the posting parser.
func (a *Analyzer) Parser() *parsing.Parser {
	return a.parser
}

// Classifier returns the fair-chance classifier.
func (a *Analyzer) Classifier() *signals.Classifier {
	return a.classifier
}

// Scorer returns the match scorer.
func (a *Analyzer) Scorer() *matching.Scorer {
	return a.scorer
}

// Demand returns the demand table, which may be nil.
func (a *Analyzer) Demand() *matching.DemandTable {
	return a.demand
}

// WithCorpus returns a copy of the analyzer whose demand table is built from postings.
func (a *Analyzer) WithCorpus(postings []types.CorpusPosting) *Analyzer {
	out := *a
	out.demand = matching.NewDemandTable(postings)
	return &out
}

// Observe returns a copy of the analyzer that reports corpus progress to cb.
func (a *Analyzer) Observe(cb ProgressCallback) *Analyzer {
	out := *a
	out.onProgress = cb
	return &out
}

// Analyze parses a posting, classifies it, and scores it against resumeSkills. The match
// is omitted when resumeSkills is blank.
func (a *Analyzer) Analyze(text, url, resumeSkills string) types.PostingAnalysis {
	return a.AnalyzeRecord(a.parser.Parse(text, url), resumeSkills)
}

// AnalyzeHTML is like Analyze for an HTML posting page.
func (a *Analyzer) AnalyzeHTML(html, url, resumeSkills string) (types.PostingAnalysis, error) {
	record, err := a.parser.ParseHTML(html, url)
	if err != nil {
		return types.PostingAnalysis{}, err
	}
	return a.AnalyzeRecord(record, resumeSkills), nil
}

// AnalyzeRecord classifies and scores an already parsed posting.
func (a *Analyzer) AnalyzeRecord(record types.PostingRecord, resumeSkills string) types.PostingAnalysis {
	result := types.PostingAnalysis{
		Posting:    record,
		FairChance: a.classifier.Classify(signals.FairChanceText(record.Title, record.Company, record.Description)),
	}
	if strings.TrimSpace(resumeSkills) != "" {
		match := a.scorer.Score(resumeSkills, record.Requirements, a.demand)
		result.Match = &match
	}
	return result
}

// AnalyzeCorpus analyzes every corpus posting concurrently. Results are in input order.
// It stops early and returns the context error when ctx is canceled.
func (a *Analyzer) AnalyzeCorpus(ctx context.Context, postings []types.CorpusPosting, resumeSkills string) ([]types.PostingAnalysis, error) {
	results := make([]types.PostingAnalysis, len(postings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i := range postings {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := postings[i]
			results[i] = a.AnalyzeRecord(RecordFromCorpus(p), resumeSkills)
			if a.onProgress != nil {
				a.onProgress(ProgressEvent{Index: i, Total: len(postings), Title: p.Title, Company: p.Company})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("corpus analysis canceled: %w", err)
	}

	a.logger.Debug("corpus analyzed", zap.Int("postings", len(postings)))
	return results, nil
}

// RecordFromCorpus converts a corpus posting into a posting record.
func RecordFromCorpus(p types.CorpusPosting) types.PostingRecord {
	requirements := append([]string(nil), p.Requirements...)
	return types.PostingRecord{
		Title:           p.Title,
		Company:         p.Company,
		Location:        p.Location,
		URL:             p.URL,
		Requirements:    matching.FormatSkills(requirements),
		RequirementList: requirements,
		Description:     p.Description,
	}
}

// Rank orders analyses by match percentage, highest first. Ties keep their input order and
// analyses without a match sort last. The input slice is not modified.
func Rank(results []types.PostingAnalysis) []types.PostingAnalysis {
	ranked := append([]types.PostingAnalysis(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return percentage(ranked[i]) > percentage(ranked[j])
	})
	return ranked
}

func percentage(a types.PostingAnalysis) int {
	if a.Match == nil {
		return -1
	}
	return a.Match.MatchPercentage
}
