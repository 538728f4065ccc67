// Package signals implements a tiered keyword classifier. Tiers are checked from highest
// to lowest confidence and the first literal found in the text decides the result, so every
// classification carries the signal that produced it.
package signals

import (
	"strings"
	"unicode"

	"github.com/jonathan/job-matcher/internal/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Placeholders available in a group's reason template.
const (
	PlaceholderSignal      = "{signal}" // matched literal as declared
	PlaceholderTitleSignal = "{Signal}" // matched literal, title-cased
)

// Group is a named list of terms sharing one reason template.
type Group struct {
	Name   string   `json:"name" mapstructure:"name" validate:"required"`
	Terms  []string `json:"terms" mapstructure:"terms" validate:"required,min=1,dive,required"`
	Reason string   `json:"reason" mapstructure:"reason" validate:"required"`
}

// Tier is a confidence level holding groups checked in declared order.
type Tier struct {
	Confidence string  `json:"confidence" mapstructure:"confidence" validate:"required"`
	Groups     []Group `json:"groups" mapstructure:"groups" validate:"required,min=1,dive"`
}

type compiledGroup struct {
	name   string
	reason string
	terms  []string // as declared
	folded []string // lower-cased, accents removed
}

type compiledTier struct {
	confidence string
	groups     []compiledGroup
}

// Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	tiers []compiledTier
}

// NewClassifier validates tiers and prepares them for matching.
func NewClassifier(tiers []Tier) (*Classifier, error) {
	if len(tiers) == 0 {
		return nil, &TierError{Index: -1, Message: "at least one tier is required"}
	}

	c := &Classifier{
		tiers: make([]compiledTier, 0, len(tiers)),
	}
	for i, t := range tiers {
		if strings.TrimSpace(t.Confidence) == "" {
			return nil, &TierError{Index: i, Message: "confidence label is empty"}
		}
		ct := compiledTier{confidence: t.Confidence}
		for _, g := range t.Groups {
			cg := compiledGroup{name: g.Name, reason: g.Reason}
			for _, term := range g.Terms {
				folded := Fold(term)
				if strings.TrimSpace(folded) == "" {
					continue
				}
				cg.terms = append(cg.terms, term)
				cg.folded = append(cg.folded, folded)
			}
			if len(cg.terms) > 0 {
				ct.groups = append(ct.groups, cg)
			}
		}
		if len(ct.groups) == 0 {
			return nil, &TierError{Index: i, Confidence: t.Confidence, Message: "tier has no terms"}
		}
		c.tiers = append(c.tiers, ct)
	}
	return c, nil
}

// MustNewClassifier is like NewClassifier but panics on invalid tiers.
func MustNewClassifier(tiers []Tier) *Classifier {
	c, err := NewClassifier(tiers)
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns the first signal found, checking tiers, groups, and terms in order.
func (c *Classifier) Classify(text string) types.ClassificationResult {
	folded := Fold(text)
	for _, t := range c.tiers {
		for _, g := range t.groups {
			for i, term := range g.folded {
				if strings.Contains(folded, term) {
					return c.result(t, g, i)
				}
			}
		}
	}
	return types.ClassificationResult{}
}

// ClassifyAll returns one result per matching group, in priority order. The first element,
// if any, equals Classify(text).
func (c *Classifier) ClassifyAll(text string) []types.ClassificationResult {
	folded := Fold(text)
	var out []types.ClassificationResult
	for _, t := range c.tiers {
		for _, g := range t.groups {
			for i, term := range g.folded {
				if strings.Contains(folded, term) {
					out = append(out, c.result(t, g, i))
					break
				}
			}
		}
	}
	return out
}

// Confidences returns the tier labels in priority order.
func (c *Classifier) Confidences() []string {
	out := make([]string, len(c.tiers))
	for i, t := range c.tiers {
		out[i] = t.confidence
	}
	return out
}

func (c *Classifier) result(t compiledTier, g compiledGroup, i int) types.ClassificationResult {
	signal := g.terms[i]
	return types.ClassificationResult{
		Matched:    true,
		Confidence: t.confidence,
		Signal:     signal,
		Group:      g.name,
		Reason:     c.reason(g.reason, signal),
	}
}

// A Caser is stateful, so one is created per call.
func (c *Classifier) reason(template, signal string) string {
	r := strings.NewReplacer(
		PlaceholderSignal, signal,
		PlaceholderTitleSignal, cases.Title(language.English).String(signal),
	)
	return r.Replace(template)
}

// Fold lower-cases s and strips diacritics so "Café" and "cafe" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
