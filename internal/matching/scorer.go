package matching

import (
	"math"

	"github.com/jonathan/job-matcher/internal/types"
	"go.uber.org/zap"
)

// Scorer compares skill sets. Its bands are fixed at construction and it is safe for
// concurrent use.
type Scorer struct {
	bands  []Band
	logger *zap.Logger
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithBands replaces the default verdict bands. Bands must be ordered by descending
// MinPercent; an empty list is ignored.
func WithBands(bands []Band) ScorerOption {
	return func(s *Scorer) {
		if len(bands) > 0 {
			s.bands = append([]Band(nil), bands...)
		}
	}
}

// WithScorerLogger sets the logger.
func WithScorerLogger(logger *zap.Logger) ScorerOption {
	return func(s *Scorer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScorer creates a Scorer with the default bands.
func NewScorer(opts ...ScorerOption) *Scorer {
	s := &Scorer{bands: DefaultBands(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score compares comma-separated resume skills with comma-separated job requirements.
// demand may be nil, in which case every missing skill has zero demand.
func (s *Scorer) Score(resumeSkills, jobRequirements string, demand *DemandTable) types.MatchAnalysis {
	return s.ScoreSets(ParseSkillSet(resumeSkills), ParseSkillSet(jobRequirements), demand)
}

// ScoreSets compares two skill sets.
func (s *Scorer) ScoreSets(resume, requirements SkillSet, demand *DemandTable) types.MatchAnalysis {
	if len(requirements) == 0 {
		return EmptyAnalysis()
	}

	matching := make([]string, 0, len(resume))
	additional := make([]string, 0)
	for _, skill := range resume {
		if matchesAny(skill, requirements) {
			matching = append(matching, skill)
		} else {
			additional = append(additional, skill)
		}
	}

	missing := make([]string, 0, len(requirements))
	for _, req := range requirements {
		if !matchesAny(req, resume) {
			missing = append(missing, req)
		}
	}

	pct := Percentage(len(matching), len(requirements))
	prioritized := demand.Prioritize(missing)
	band := bandFor(s.bands, pct)
	recommendation, actions := advice(band.ID, prioritized)

	s.logger.Debug("scored skill match",
		zap.Int("percentage", pct),
		zap.Int("matching", len(matching)),
		zap.Int("missing", len(missing)),
		zap.String("band", string(band.ID)))

	return types.MatchAnalysis{
		MatchPercentage:          pct,
		MatchingSkills:           matching,
		MissingSkills:            missing,
		AdditionalSkills:         additional,
		PrioritizedMissingSkills: prioritized,
		Band:                     band.ID,
		Verdict:                  band.Verdict,
		VerdictType:              band.Type,
		Message:                  band.Message,
		Recommendation:           recommendation,
		ActionItems:              actions,
	}
}

// Score compares skills with the default scorer.
func Score(resumeSkills, jobRequirements string, demand *DemandTable) types.MatchAnalysis {
	return defaultScorer.Score(resumeSkills, jobRequirements, demand)
}

var defaultScorer = NewScorer()

// Percentage returns round(matches/total*100) clamped to [0, 100]. Several resume skills
// can match the same requirement, so matches may exceed total.
func Percentage(matches, total int) int {
	if total <= 0 || matches <= 0 {
		return 0
	}
	pct := int(math.Round(float64(matches) / float64(total) * 100))
	return min(pct, 100)
}

// EmptyAnalysis is the result for a posting without requirements.
func EmptyAnalysis() types.MatchAnalysis {
	return types.MatchAnalysis{
		MatchPercentage:          0,
		MatchingSkills:           []string{},
		MissingSkills:            []string{},
		AdditionalSkills:         []string{},
		PrioritizedMissingSkills: []types.PrioritizedSkill{},
		Band:                     types.BandNone,
		Verdict:                  "N/A",
		VerdictType:              "no",
		Message:                  "No requirements to compare",
		Recommendation:           "This job has no listed requirements.",
		ActionItems:              []string{},
	}
}
