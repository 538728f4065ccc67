package types

// Confidence levels used by the built-in signal tiers.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
)

// ClassificationResult is the outcome of a tiered signal classification.
// When Matched is false every other field is empty.
type ClassificationResult struct {
	Matched    bool   `json:"matched"`
	Confidence string `json:"confidence,omitempty"` // Label of the tier that matched
	Signal     string `json:"signal,omitempty"`     // Literal term found in the text
	Group      string `json:"group,omitempty"`      // Name of the group within the tier
	Reason     string `json:"reason,omitempty"`     // Human-readable explanation
}
