package config

import (
	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/signals"
	"github.com/jonathan/job-matcher/internal/skills"
)

// Dictionary returns the built-in dictionary extended with the configured skills.
func (c *Config) Dictionary() *skills.Dictionary {
	if len(c.Skills) == 0 {
		return skills.DefaultDictionary()
	}
	return skills.DefaultDictionary().With(c.Skills...)
}

// ContextRules returns the built-in disambiguation rules extended with configured
// negative phrases and technical cues.
func (c *Config) ContextRules() *skills.ContextRules {
	ext := c.Extraction
	if len(ext.NegativePhrases) == 0 && len(ext.TechnicalCues) == 0 {
		return skills.DefaultContextRules()
	}
	negatives := skills.DefaultNegativePhrases()
	for term, phrases := range ext.NegativePhrases {
		negatives[term] = append(negatives[term], phrases...)
	}
	cues := append(skills.DefaultTechnicalCues(), ext.TechnicalCues...)
	return skills.NewContextRules(negatives, cues)
}

// Extractor builds a skill extractor from the extraction settings.
func (c *Config) Extractor(logger *zap.Logger) *skills.Extractor {
	return skills.NewExtractor(c.Dictionary(),
		skills.WithDisambiguator(c.ContextRules()),
		skills.WithMinLength(c.Extraction.MinLength),
		skills.WithMaxInputLength(c.Extraction.MaxInputLength),
		skills.WithWindow(c.Extraction.Window),
		skills.WithLogger(logger),
	)
}

// Classifier returns the fair-chance classifier, built from configured tiers when present.
func (c *Config) Classifier() (*signals.Classifier, error) {
	if len(c.Signals.Tiers) == 0 {
		return signals.FairChance(), nil
	}
	classifier, err := signals.NewClassifier(c.Signals.Tiers)
	if err != nil {
		return nil, &Error{Field: "signals.tiers", Message: "invalid tiers", Cause: err}
	}
	return classifier, nil
}
