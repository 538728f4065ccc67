package signals

import "fmt"

// TierError reports an invalid tier definition.
type TierError struct {
	Index      int
	Confidence string
	Message    string
}

func (e *TierError) Error() string {
	if e.Index < 0 {
		return "invalid tiers: " + e.Message
	}
	if e.Confidence != "" {
		return fmt.Sprintf("tier %d (%s): %s", e.Index, e.Confidence, e.Message)
	}
	return fmt.Sprintf("tier %d: %s", e.Index, e.Message)
}
