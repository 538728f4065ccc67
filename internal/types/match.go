package types

// VerdictBand identifies one of the fixed match-percentage ranges.
type VerdictBand string

// Verdict bands from strongest to weakest. BandNone is used when a posting has no requirements.
const (
	BandStrong  VerdictBand = "strong"
	BandGood    VerdictBand = "good"
	BandStretch VerdictBand = "stretch"
	BandLow     VerdictBand = "low"
	BandNone    VerdictBand = "none"
)

// PrioritizedSkill is a missing requirement tagged with how often it appears across a corpus.
type PrioritizedSkill struct {
	Skill  string `json:"skill"`
	Demand int    `json:"demand"`
	IsHot  bool   `json:"is_hot"`
}

// MatchAnalysis compares a candidate's skills with a job's requirements.
type MatchAnalysis struct {
	MatchPercentage          int                `json:"match_percentage"`
	MatchingSkills           []string           `json:"matching_skills"`
	MissingSkills            []string           `json:"missing_skills"`
	AdditionalSkills         []string           `json:"additional_skills"`
	PrioritizedMissingSkills []PrioritizedSkill `json:"prioritized_missing_skills"`
	Band                     VerdictBand        `json:"band"`
	Verdict                  string             `json:"verdict"`      // e.g. "YES, APPLY!"
	VerdictType              string             `json:"verdict_type"` // yes, maybe, stretch, no
	Message                  string             `json:"message"`
	Recommendation           string             `json:"recommendation"`
	ActionItems              []string           `json:"action_items"`
}

// SkillCount is a skill and the number of corpus postings requiring it.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// PostingAnalysis bundles every result produced for a single posting.
type PostingAnalysis struct {
	Posting    PostingRecord        `json:"posting"`
	FairChance ClassificationResult `json:"fair_chance"`
	Match      *MatchAnalysis       `json:"match,omitempty"` // Nil when no resume skills were supplied
}
