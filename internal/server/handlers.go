package server

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/pipeline"
	"github.com/jonathan/job-matcher/internal/schemas"
	"github.com/jonathan/job-matcher/internal/signals"
	"github.com/jonathan/job-matcher/internal/skills"
	"github.com/jonathan/job-matcher/internal/types"
)

// maxTrendingLimit bounds the limit query parameter of /skills/trending.
const maxTrendingLimit = 100

// HealthResponse represents the response for /health
type HealthResponse struct {
	Status   string `json:"status"`
	Postings int    `json:"postings"` // Reference corpus size
	Skills   int    `json:"skills"`   // Dictionary size
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// RateLimitResponse is the body of a 429 response.
type RateLimitResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	Limit      int    `json:"limit"`
	Remaining  int    `json:"remaining"`
	ResetAt    string `json:"reset_at,omitempty"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

// ExtractSkillsRequest represents the request body for /skills/extract
type ExtractSkillsRequest struct {
	Text          string `json:"text" validate:"required"`
	Mode          string `json:"mode,omitempty" validate:"omitempty,oneof=dictionary all"`
	IncludeTokens bool   `json:"include_tokens,omitempty"`
}

// ExtractSkillsResponse represents the response for /skills/extract
type ExtractSkillsResponse struct {
	Skills []string       `json:"skills"`
	Tokens []skills.Token `json:"tokens,omitempty"`
}

// ParsePostingRequest represents the request body for /postings/parse. Exactly one of
// Text and HTML is normally set; HTML wins when both are.
type ParsePostingRequest struct {
	Text string `json:"text,omitempty" validate:"required_without=HTML"`
	HTML string `json:"html,omitempty" validate:"required_without=Text"`
	URL  string `json:"url,omitempty"`
}

// ClassifyRequest represents the request body for /signals/classify. Text is classified
// as is; otherwise title, company, and description are joined.
type ClassifyRequest struct {
	Text        string `json:"text,omitempty"`
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Description string `json:"description,omitempty"`
	All         bool   `json:"all,omitempty"` // Also return every matching signal
}

// ClassifyResponse represents the response for /signals/classify
type ClassifyResponse struct {
	Result  types.ClassificationResult   `json:"result"`
	Signals []types.ClassificationResult `json:"signals,omitempty"`
}

// MatchRequest represents the request body for /match. Requirements are scored directly;
// otherwise the posting in Text or HTML is parsed first.
type MatchRequest struct {
	ResumeSkills string `json:"resume_skills" validate:"required"`
	Requirements string `json:"requirements,omitempty"`
	Text         string `json:"text,omitempty"`
	HTML         string `json:"html,omitempty"`
	URL          string `json:"url,omitempty"`
}

// MatchResponse represents the response for /match
type MatchResponse struct {
	Posting    *types.PostingRecord        `json:"posting,omitempty"`
	FairChance *types.ClassificationResult `json:"fair_chance,omitempty"`
	Match      types.MatchAnalysis         `json:"match"`
}

// TrendingResponse represents the response for /skills/trending
type TrendingResponse struct {
	Postings int                `json:"postings"`
	Skills   []types.SkillCount `json:"skills"`
}

// CorpusMatchRequest represents the request body for /match/corpus and its stream variant.
type CorpusMatchRequest struct {
	ResumeSkills string `json:"resume_skills" validate:"required"`
	Limit        int    `json:"limit,omitempty" validate:"gte=0,lte=1000"` // 0 returns every posting
}

// CorpusMatchResponse represents the response for /match/corpus
type CorpusMatchResponse struct {
	Postings int                     `json:"postings"`
	Results  []types.PostingAnalysis `json:"results"`
}

// handleExtractSkills returns the skills mentioned in free text
func (s *Server) handleExtractSkills(w http.ResponseWriter, r *http.Request) {
	var req ExtractSkillsRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	extractor := s.analyzer.Parser().Extractor()
	found, err := extractor.ExtractStrict(req.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Mode == "all" {
		found = extractor.ExtractAll(req.Text)
	}

	resp := ExtractSkillsResponse{Skills: found}
	if req.IncludeTokens {
		resp.Tokens = extractor.Scan(req.Text)
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleParsePosting parses pasted posting text or HTML into a record
func (s *Server) handleParsePosting(w http.ResponseWriter, r *http.Request) {
	var req ParsePostingRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := matching.ValidateURL(req.URL, false); err != nil {
		s.fail(w, r, err)
		return
	}

	record, err := s.parse(req.Text, req.HTML, req.URL)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.checkOutput(schemas.PostingRecord, record); err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

func (s *Server) parse(text, html, url string) (types.PostingRecord, error) {
	if strings.TrimSpace(html) != "" {
		return s.analyzer.Parser().ParseHTML(html, url)
	}
	return s.analyzer.Parser().Parse(text, url), nil
}

// handleClassify runs the fair-chance classifier
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	text := req.Text
	if strings.TrimSpace(text) == "" {
		text = signals.FairChanceText(req.Title, req.Company, req.Description)
	}
	if strings.TrimSpace(text) == "" {
		s.fail(w, r, &ErrValidation{Field: "text", Message: "text or posting fields are required"})
		return
	}

	classifier := s.analyzer.Classifier()
	resp := ClassifyResponse{Result: classifier.Classify(text)}
	if req.All {
		resp.Signals = classifier.ClassifyAll(text)
	}
	if err := s.checkOutput(schemas.ClassificationResult, resp.Result); err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleMatch scores resume skills against one posting
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validateMatch(req); err != nil {
		s.fail(w, r, err)
		return
	}

	var resp MatchResponse
	if strings.TrimSpace(req.Requirements) != "" {
		resp.Match = s.analyzer.Scorer().Score(req.ResumeSkills, req.Requirements, s.analyzer.Demand())
	} else {
		record, err := s.parse(req.Text, req.HTML, req.URL)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		analysis := s.analyzer.AnalyzeRecord(record, req.ResumeSkills)
		resp.Posting = &analysis.Posting
		resp.FairChance = &analysis.FairChance
		resp.Match = *analysis.Match
	}

	if err := s.checkOutput(schemas.MatchAnalysis, resp.Match); err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func validateMatch(req MatchRequest) error {
	if err := matching.ValidateSkills(req.ResumeSkills, matching.DefaultMinSkills); err != nil {
		return err
	}
	if strings.TrimSpace(req.Requirements+req.Text+req.HTML) == "" {
		return &ErrValidation{Field: "requirements", Message: "requirements, text, or html is required"}
	}
	return matching.ValidateURL(req.URL, false)
}

// handleTrending returns the most demanded skills in the reference corpus
func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	if len(s.corpus) == 0 {
		s.fail(w, r, &ErrNoCorpus{})
		return
	}

	limit := s.topSkills
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxTrendingLimit {
			s.fail(w, r, &ErrValidation{
				Field:   "limit",
				Message: "must be an integer between 1 and " + strconv.Itoa(maxTrendingLimit),
			})
			return
		}
		limit = n
	}

	demand := s.analyzer.Demand()
	s.jsonResponse(w, http.StatusOK, TrendingResponse{
		Postings: demand.Postings(),
		Skills:   demand.Top(limit),
	})
}

// corpusRequest decodes and validates a corpus match request.
func (s *Server) corpusRequest(r *http.Request) (CorpusMatchRequest, error) {
	var req CorpusMatchRequest
	if err := s.decode(r, &req); err != nil {
		return req, err
	}
	if err := matching.ValidateSkills(req.ResumeSkills, matching.DefaultMinSkills); err != nil {
		return req, err
	}
	if len(s.corpus) == 0 {
		return req, &ErrNoCorpus{}
	}
	return req, nil
}

func (s *Server) rankCorpus(analyzer *pipeline.Analyzer, r *http.Request, req CorpusMatchRequest) ([]types.PostingAnalysis, error) {
	results, err := analyzer.AnalyzeCorpus(r.Context(), s.corpus, req.ResumeSkills)
	if err != nil {
		return nil, err
	}
	ranked := pipeline.Rank(results)
	if req.Limit > 0 && len(ranked) > req.Limit {
		ranked = ranked[:req.Limit]
	}
	for _, a := range ranked {
		if err := s.checkOutput(schemas.MatchAnalysis, a.Match); err != nil {
			return nil, err
		}
	}
	return ranked, nil
}

// handleMatchCorpus scores resume skills against every corpus posting
func (s *Server) handleMatchCorpus(w http.ResponseWriter, r *http.Request) {
	req, err := s.corpusRequest(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ranked, err := s.rankCorpus(s.analyzer, r, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, CorpusMatchResponse{Postings: len(s.corpus), Results: ranked})
}

// handleMatchCorpusStream is like handleMatchCorpus but streams progress as server-sent
// events, followed by one result event per posting and a completion event.
func (s *Server) handleMatchCorpusStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.corpusRequest(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	logger := s.requestLogger(r)
	analyzer := s.analyzer.Observe(func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent(EventProgress, event); err != nil {
			logger.Debug("failed to write progress event", zap.Error(err))
		}
	})

	ranked, err := s.rankCorpus(analyzer, r, req)
	if err != nil {
		logger.Warn("corpus stream failed", zap.Error(err))
		sse.WriteError(err.Error())
		return
	}
	for _, result := range ranked {
		if err := sse.WriteEvent(EventResult, result); err != nil {
			logger.Debug("client went away", zap.Error(err))
			return
		}
	}
	sse.WriteComplete(len(s.corpus), len(ranked))
}
