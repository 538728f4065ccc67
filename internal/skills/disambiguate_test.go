package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextRules_IsAmbiguous(t *testing.T) {
	rules := DefaultContextRules()
	for _, term := range []string{"Go", "Rust", "Swift", "R"} {
		assert.True(t, rules.IsAmbiguous(term), term)
	}
	assert.False(t, rules.IsAmbiguous("Python"))
	assert.False(t, rules.IsAmbiguous("go"), "terms are canonical names")
}

func TestContextRules_Resolve(t *testing.T) {
	rules := DefaultContextRules()

	tests := []struct {
		name   string
		term   string
		match  string
		window string
		want   bool
	}{
		{"exact case without negatives", "Go", "Go", "Go, Python, JavaScr", true},
		{"exact case with negative phrase", "Go", "Go", "we Go to market fast", false},
		{"lower case without cue", "Go", "go", "need to go and see", false},
		{"lower case with cue", "Go", "go", "experience with go and", true},
		{"cue overrides negative", "Go", "go", "go to programming", true},
		{"swift response", "Swift", "swift", "We need a swift response", false},
		{"swift development", "Swift", "Swift", "iOS Swift development", true},
		{"rust prevention", "Rust", "rust", "Metal rust prevention is", false},
		{"rust language", "Rust", "Rust", "Rust language and Go", true},
		{"R in a comma list", "R", "R", "Python, R, SQL", true},
		{"r in a sentence", "R", "r", "Python, r, SQL", false},
		{"R & D", "R", "R", "our R & D team ships", false},
		{"R programming", "R", "R", "R programming and stats", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.Resolve(tt.term, tt.match, tt.window))
		})
	}
}

func TestContextWindow_Clamps(t *testing.T) {
	text := "abc Go def"
	assert.Equal(t, text, contextWindow(text, 4, 6, 20))
	assert.Equal(t, "c Go d", contextWindow(text, 4, 6, 2))
}
