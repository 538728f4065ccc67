// Package parsing turns raw pasted job-posting text into a structured record using
// line and pattern heuristics.
package parsing

import (
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/ingestion"
	"github.com/jonathan/job-matcher/internal/skills"
	"github.com/jonathan/job-matcher/internal/types"
)

// DefaultMaxRequirements caps the requirements returned for one posting.
const DefaultMaxRequirements = 15

// Parser extracts posting fields. It is safe for concurrent use.
type Parser struct {
	extractor       *skills.Extractor
	maxRequirements int
	maxInputLength  int
	logger          *zap.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithExtractor sets the skill extractor used for requirements.
func WithExtractor(e *skills.Extractor) Option {
	return func(p *Parser) {
		if e != nil {
			p.extractor = e
		}
	}
}

// WithMaxRequirements sets the requirement cap.
func WithMaxRequirements(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxRequirements = n
		}
	}
}

// WithMaxInputLength sets the longest posting that is scanned. Longer input yields a
// record holding only the description.
func WithMaxInputLength(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxInputLength = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser creates a parser. Without WithExtractor it uses the default dictionary.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		maxRequirements: DefaultMaxRequirements,
		maxInputLength:  skills.DefaultMaxInputLength,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.extractor == nil {
		p.extractor = skills.NewExtractor(nil, skills.WithLogger(p.logger))
	}
	return p
}

// Extractor returns the skill extractor used for requirements.
func (p *Parser) Extractor() *skills.Extractor {
	return p.extractor
}

// Parse extracts the title, company, location, URL, and requirements of a posting.
// ProvidedURL, when non-empty, takes precedence over URLs found in the text. Fields that
// cannot be found are left empty; Parse never fails.
func (p *Parser) Parse(text, providedURL string) types.PostingRecord {
	record := types.PostingRecord{Description: text}
	if len(text) > p.maxInputLength {
		p.logger.Warn("posting too long to parse",
			zap.Int("length", len(text)),
			zap.Int("max", p.maxInputLength))
		return record
	}

	p.fill(&record, ingestion.CleanText(text), strings.TrimSpace(providedURL), nil)
	return record
}

// ParseHTML strips markup from a posting page using the selectors of the job board the
// URL points at, then parses the remaining text. Links in the page are URL candidates and
// the page title is used when no title line is found. Description holds the extracted text.
func (p *Parser) ParseHTML(html, providedURL string) (types.PostingRecord, error) {
	providedURL = strings.TrimSpace(providedURL)
	page, err := ingestion.ExtractHTML(html, ingestion.DetectPlatform(providedURL))
	if err != nil {
		return types.PostingRecord{}, &ParseError{Message: "failed to read HTML posting", Cause: err}
	}

	record := types.PostingRecord{Description: page.Text}
	if len(page.Text) > p.maxInputLength {
		p.logger.Warn("posting too long to parse",
			zap.Int("length", len(page.Text)),
			zap.Int("max", p.maxInputLength))
		return record, nil
	}

	p.fill(&record, page.Text, providedURL, page.Links)
	if record.Title == "" && page.Title != "" {
		record.Title, record.Company = splitPageTitle(page.Title, record.Company)
	}
	return record, nil
}

func (p *Parser) fill(record *types.PostingRecord, cleaned, providedURL string, links []string) {
	lines := prepareLines(cleaned)

	record.URL = providedURL
	if record.URL == "" {
		record.URL = BestURL(append(urlPattern.FindAllString(cleaned, -1), links...))
	}
	if platform := ingestion.DetectPlatform(record.URL); platform.IsKnown() {
		record.Platform = string(platform)
	}

	record.Title = ExtractTitle(lines)
	record.Company = ExtractCompany(lines)
	record.Location = ExtractLocation(lines)
	record.RequirementList = p.requirements(cleaned, lines)
	record.Requirements = strings.Join(record.RequirementList, ", ")

	p.logger.Debug("posting parsed",
		zap.String("title", record.Title),
		zap.String("company", record.Company),
		zap.String("location", record.Location),
		zap.String("platform", record.Platform),
		zap.Int("requirements", len(record.RequirementList)))
}

// requirements unions skills from the curated requirement lines with skills from the whole
// document, curated first. Experience requirements are kept when the cap is reached.
func (p *Parser) requirements(cleaned string, lines []string) []string {
	curated := strings.Join(RequirementLines(lines), "\n")
	all := skills.Merge(p.extractor.ExtractAll(curated), p.extractor.ExtractAll(cleaned))

	var named, experience []string
	for _, r := range all {
		if skills.IsExperienceRequirement(r) {
			experience = append(experience, r)
		} else {
			named = append(named, r)
		}
	}
	if len(named)+len(experience) <= p.maxRequirements {
		return skills.Merge(named, experience)
	}

	if len(experience) > p.maxRequirements {
		experience = experience[:p.maxRequirements]
	}
	keep := p.maxRequirements - len(experience)
	return skills.Merge(named[:keep], experience)
}

// splitPageTitle splits a page title such as "Backend Engineer at Acme" or
// "Backend Engineer - Acme | LinkedIn" into a title and, when company is empty, a company.
func splitPageTitle(pageTitle, company string) (string, string) {
	pageTitle = cleanField(pageTitle)
	if i := strings.LastIndex(pageTitle, " | "); i > 0 {
		pageTitle = strings.TrimSpace(pageTitle[:i])
	}
	m := roleSeparator.FindStringSubmatch(pageTitle)
	if m == nil {
		return pageTitle, company
	}
	if company == "" {
		if name := cleanField(m[2]); len(name) < maxCompanyLength {
			company = name
		}
	}
	return cleanField(m[1]), company
}
