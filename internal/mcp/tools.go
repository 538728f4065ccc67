package mcp

import (
	"context"
	"errors"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/logging"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/pipeline"
	"github.com/jonathan/job-matcher/internal/signals"
	"github.com/jonathan/job-matcher/internal/types"
)

// Tool names.
const (
	ToolExtractSkills      = "extract_skills"
	ToolParsePosting       = "parse_posting"
	ToolClassifyFairChance = "classify_fair_chance"
	ToolScoreMatch         = "score_match"
	ToolTrendingSkills     = "trending_skills"
)

// ExtractSkillsInput defines the arguments for the extract_skills tool
type ExtractSkillsInput struct {
	Text string `json:"text" jsonschema:"Free text such as a job description or resume"`
	All  bool   `json:"all,omitempty" jsonschema:"Also include lead-in phrases and experience requirements"`
}

// ExtractSkillsOutput is the result of the extract_skills tool
type ExtractSkillsOutput struct {
	Skills []string `json:"skills" jsonschema:"Normalized skills in order of first appearance"`
}

// ParsePostingInput defines the arguments for the parse_posting tool
type ParsePostingInput struct {
	Text string `json:"text,omitempty" jsonschema:"Posting text pasted from a job board"`
	HTML string `json:"html,omitempty" jsonschema:"Posting page HTML; used instead of text when set"`
	URL  string `json:"url,omitempty" jsonschema:"URL the posting was copied from"`
}

// ClassifyInput defines the arguments for the classify_fair_chance tool
type ClassifyInput struct {
	Text        string `json:"text,omitempty" jsonschema:"Text to classify; overrides the posting fields"`
	Title       string `json:"title,omitempty" jsonschema:"Job title"`
	Company     string `json:"company,omitempty" jsonschema:"Employer name"`
	Description string `json:"description,omitempty" jsonschema:"Job description"`
}

// ScoreMatchInput defines the arguments for the score_match tool
type ScoreMatchInput struct {
	ResumeSkills string `json:"resume_skills" jsonschema:"Comma-separated candidate skills"`
	Requirements string `json:"requirements,omitempty" jsonschema:"Comma-separated job requirements"`
	Text         string `json:"text,omitempty" jsonschema:"Posting text to parse when requirements are not given"`
}

// ScoreMatchOutput is the result of the score_match tool
type ScoreMatchOutput struct {
	Posting *types.PostingRecord `json:"posting,omitempty" jsonschema:"Parsed posting, when text was given"`
	Match   types.MatchAnalysis  `json:"match" jsonschema:"Skill match analysis"`
}

// TrendingInput defines the arguments for the trending_skills tool
type TrendingInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Number of skills to return"`
}

// TrendingOutput is the result of the trending_skills tool
type TrendingOutput struct {
	Postings int                `json:"postings" jsonschema:"Reference corpus size"`
	Skills   []types.SkillCount `json:"skills" jsonschema:"Most requested skills, highest count first"`
}

type toolset struct {
	analyzer  *pipeline.Analyzer
	topSkills int
	logger    *zap.Logger
}

var readOnly = &sdkmcp.ToolAnnotations{ReadOnlyHint: true}

func registerTools(server *sdkmcp.Server, t *toolset) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        ToolExtractSkills,
		Description: "Extract known technical and soft skills from free text, resolving ambiguous words like Go or Rust from context.",
		Annotations: readOnly,
	}, t.extractSkills)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        ToolParsePosting,
		Description: "Parse pasted job posting text or HTML into title, company, location, URL, and normalized requirements.",
		Annotations: readOnly,
	}, t.parsePosting)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        ToolClassifyFairChance,
		Description: "Check whether a posting shows signals of fair chance hiring, with confidence and reason.",
		Annotations: readOnly,
	}, t.classify)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        ToolScoreMatch,
		Description: "Score candidate skills against job requirements: match percentage, missing skills by demand, and a verdict.",
		Annotations: readOnly,
	}, t.scoreMatch)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        ToolTrendingSkills,
		Description: "List the skills most requested across the loaded reference corpus.",
		Annotations: readOnly,
	}, t.trending)
}

func (t *toolset) log(name string) *zap.Logger {
	return t.logger.With(zap.String(logging.FieldTool, name))
}

func (t *toolset) extractSkills(_ context.Context, _ *sdkmcp.CallToolRequest, in ExtractSkillsInput) (*sdkmcp.CallToolResult, *ExtractSkillsOutput, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, nil, errors.New("text is required")
	}
	extractor := t.analyzer.Parser().Extractor()
	found, err := extractor.ExtractStrict(in.Text)
	if err != nil {
		return nil, nil, err
	}
	if in.All {
		found = extractor.ExtractAll(in.Text)
	}
	t.log(ToolExtractSkills).Debug("skills extracted", zap.Int("count", len(found)))
	return nil, &ExtractSkillsOutput{Skills: found}, nil
}

func (t *toolset) parsePosting(_ context.Context, _ *sdkmcp.CallToolRequest, in ParsePostingInput) (*sdkmcp.CallToolResult, *types.PostingRecord, error) {
	if strings.TrimSpace(in.Text) == "" && strings.TrimSpace(in.HTML) == "" {
		return nil, nil, errors.New("text or html is required")
	}
	if err := matching.ValidateURL(in.URL, false); err != nil {
		return nil, nil, err
	}

	parser := t.analyzer.Parser()
	if strings.TrimSpace(in.HTML) != "" {
		record, err := parser.ParseHTML(in.HTML, in.URL)
		if err != nil {
			return nil, nil, err
		}
		return nil, &record, nil
	}
	record := parser.Parse(in.Text, in.URL)
	t.log(ToolParsePosting).Debug("posting parsed",
		zap.String("title", record.Title),
		zap.Int("requirements", len(record.RequirementList)))
	return nil, &record, nil
}

func (t *toolset) classify(_ context.Context, _ *sdkmcp.CallToolRequest, in ClassifyInput) (*sdkmcp.CallToolResult, *types.ClassificationResult, error) {
	text := in.Text
	if strings.TrimSpace(text) == "" {
		text = signals.FairChanceText(in.Title, in.Company, in.Description)
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil, errors.New("text or posting fields are required")
	}
	result := t.analyzer.Classifier().Classify(text)
	return nil, &result, nil
}

func (t *toolset) scoreMatch(_ context.Context, _ *sdkmcp.CallToolRequest, in ScoreMatchInput) (*sdkmcp.CallToolResult, *ScoreMatchOutput, error) {
	if err := matching.ValidateSkills(in.ResumeSkills, 1); err != nil {
		return nil, nil, err
	}

	switch {
	case strings.TrimSpace(in.Requirements) != "":
		match := t.analyzer.Scorer().Score(in.ResumeSkills, in.Requirements, t.analyzer.Demand())
		return nil, &ScoreMatchOutput{Match: match}, nil
	case strings.TrimSpace(in.Text) != "":
		analysis := t.analyzer.Analyze(in.Text, "", in.ResumeSkills)
		return nil, &ScoreMatchOutput{Posting: &analysis.Posting, Match: *analysis.Match}, nil
	default:
		return nil, nil, errors.New("requirements or text is required")
	}
}

func (t *toolset) trending(_ context.Context, _ *sdkmcp.CallToolRequest, in TrendingInput) (*sdkmcp.CallToolResult, *TrendingOutput, error) {
	demand := t.analyzer.Demand()
	if demand.Postings() == 0 {
		return nil, nil, errors.New("no reference corpus loaded")
	}
	limit := in.Limit
	if limit <= 0 {
		limit = t.topSkills
	}
	return nil, &TrendingOutput{Postings: demand.Postings(), Skills: demand.Top(limit)}, nil
}
