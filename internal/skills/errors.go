package skills

import "fmt"

// InputTooLongError is returned when text exceeds the extractor's maximum input length.
type InputTooLongError struct {
	Length int
	Max    int
}

func (e *InputTooLongError) Error() string {
	return fmt.Sprintf("input too long: %d bytes exceeds limit of %d", e.Length, e.Max)
}
