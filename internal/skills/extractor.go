package skills

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// DefaultMinLength is the shortest input worth scanning.
	DefaultMinLength = 20
	// DefaultMaxInputLength bounds the input accepted by a single call.
	DefaultMaxInputLength = 100_000
)

// Token is a dictionary hit found while scanning text.
type Token struct {
	Text      string `json:"text"`      // Literal text as written
	Canonical string `json:"canonical"` // Normalized skill name
	Start     int    `json:"start"`     // Byte offset of the match
	End       int    `json:"end"`
	Line      int    `json:"line"` // 1-based line number
	Ambiguous bool   `json:"ambiguous,omitempty"`
	Accepted  bool   `json:"accepted"`
}

// Extractor finds known skills in free text. The dictionary pattern is compiled once at
// construction and the extractor is safe for concurrent use.
type Extractor struct {
	dict           *Dictionary
	disambiguator  Disambiguator
	pattern        *regexp.Regexp
	minLength      int
	maxInputLength int
	window         int
	logger         *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithDisambiguator replaces the default context rules.
func WithDisambiguator(d Disambiguator) Option {
	return func(e *Extractor) {
		if d != nil {
			e.disambiguator = d
		}
	}
}

// WithMinLength sets the minimum input length; shorter input yields no skills.
func WithMinLength(n int) Option {
	return func(e *Extractor) {
		if n >= 0 {
			e.minLength = n
		}
	}
}

// WithMaxInputLength sets the longest accepted input.
func WithMaxInputLength(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxInputLength = n
		}
	}
}

// WithWindow sets the disambiguation window size in characters.
func WithWindow(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.window = n
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates an extractor over dict. A nil dict uses DefaultDictionary.
func NewExtractor(dict *Dictionary, opts ...Option) *Extractor {
	if dict == nil {
		dict = DefaultDictionary()
	}
	e := &Extractor{
		dict:           dict,
		disambiguator:  DefaultContextRules(),
		minLength:      DefaultMinLength,
		maxInputLength: DefaultMaxInputLength,
		window:         DefaultWindow,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.pattern = compileForms(dict.Forms())
	return e
}

// compileForms builds a single case-insensitive alternation matching any form.
// Longest() makes the leftmost match prefer "javascript" over "java".
func compileForms(forms []string) *regexp.Regexp {
	if len(forms) == 0 {
		return nil
	}
	quoted := make([]string, len(forms))
	for i, f := range forms {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(f), " ", `\s+`)
	}
	re := regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
	re.Longest()
	return re
}

// Dictionary returns the dictionary used by the extractor.
func (e *Extractor) Dictionary() *Dictionary {
	return e.dict
}

// Extract returns the normalized skills mentioned in text, deduplicated in order of first
// appearance. Input that is too short or too long yields an empty result.
func (e *Extractor) Extract(text string) []string {
	skills, err := e.ExtractStrict(text)
	if err != nil {
		e.logger.Warn("skill extraction skipped", zap.Error(err))
		return []string{}
	}
	return skills
}

// ExtractStrict is like Extract but reports over-long input as an *InputTooLongError.
func (e *Extractor) ExtractStrict(text string) ([]string, error) {
	if err := e.checkLength(text); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(text)) < e.minLength {
		return []string{}, nil
	}
	return acceptedCanonicals(e.Scan(text)), nil
}

// Scan returns every dictionary hit in text, including ambiguous hits that were rejected.
// It does not apply the minimum length.
func (e *Extractor) Scan(text string) []Token {
	return e.scan(text, "")
}

// scan finds dictionary hits. A non-empty lead is prepended to every disambiguation window.
func (e *Extractor) scan(text, lead string) []Token {
	if e.pattern == nil || text == "" || len(text) > e.maxInputLength {
		return nil
	}

	var tokens []Token
	line, lineScanned := 1, 0
	pos := 0
	for pos < len(text) {
		loc := e.pattern.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if !isBoundary(text, start, end) {
			end = e.shorterForm(text, start, end)
			if end == start {
				// Retry one rune later so overlapping forms are still found.
				_, size := utf8.DecodeRuneInString(text[start:])
				pos = start + size
				continue
			}
		}
		pos = end

		line += strings.Count(text[lineScanned:start], "\n")
		lineScanned = start

		literal := text[start:end]
		canonical, ok := e.dict.Lookup(literal)
		if !ok {
			continue
		}
		tok := Token{
			Text:      literal,
			Canonical: canonical,
			Start:     start,
			End:       end,
			Line:      line,
			Accepted:  true,
		}
		if e.disambiguator.IsAmbiguous(canonical) {
			tok.Ambiguous = true
			window := contextWindow(text, start, end, e.window)
			if lead != "" {
				window = lead + " " + window
			}
			tok.Accepted = e.disambiguator.Resolve(canonical, literal, window)
			if !tok.Accepted {
				e.logger.Debug("ambiguous term rejected",
					zap.String("term", canonical),
					zap.String("match", literal),
					zap.Int("offset", start))
			}
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// ExtractAll unions dictionary hits, lead-in phrase hits, and experience requirements.
func (e *Extractor) ExtractAll(text string) []string {
	out := e.Extract(text)
	out = appendUnique(out, e.ExtractPhrases(text)...)
	out = appendUnique(out, e.ExtractExperience(text)...)
	return out
}

func (e *Extractor) checkLength(text string) error {
	if len(text) > e.maxInputLength {
		return &InputTooLongError{Length: len(text), Max: e.maxInputLength}
	}
	return nil
}

// shorterForm returns the end of the longest dictionary form that starts at start, ends
// before end, and sits on word boundaries. It returns start when there is none, so
// "Spring Boots" still yields "Spring".
func (e *Extractor) shorterForm(text string, start, end int) int {
	for to := end - 1; to > start; to-- {
		if !utf8.RuneStart(text[to]) {
			continue
		}
		if r, _ := utf8.DecodeLastRuneInString(text[:to]); unicode.IsSpace(r) {
			continue
		}
		if !isBoundary(text, start, to) {
			continue
		}
		if _, ok := e.dict.Lookup(text[start:to]); ok {
			return to
		}
	}
	return start
}

// isBoundary reports whether text[start:end] is not embedded in a larger word. A single
// letter joined by '&' ("R&D") is treated as part of a word.
func isBoundary(text string, start, end int) bool {
	single := utf8.RuneCountInString(text[start:end]) == 1
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) || (single && r == '&') {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) || (single && r == '&') {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func acceptedCanonicals(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.Accepted {
			out = appendUnique(out, t.Canonical)
		}
	}
	return out
}

// appendUnique appends values not already present in dst, compared case-insensitively.
func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		dup := false
		for _, existing := range dst {
			if strings.EqualFold(existing, v) {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, v)
		}
	}
	return dst
}
