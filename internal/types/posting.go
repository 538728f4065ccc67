// Package types provides type definitions for structured data used throughout the job-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// PostingRecord is the structured result of parsing raw job-posting text.
// Fields that could not be found are empty strings.
type PostingRecord struct {
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	URL             string   `json:"url"`
	Platform        string   `json:"platform,omitempty"`         // Job board detected from URL
	Requirements    string   `json:"requirements"`               // Comma-joined RequirementList
	RequirementList []string `json:"requirement_list,omitempty"` // Normalized, deduplicated, first-seen order
	Description     string   `json:"description"`                // Verbatim input
}

// HasRequirements reports whether any requirement was extracted.
func (p *PostingRecord) HasRequirements() bool {
	return len(p.RequirementList) > 0
}

// CorpusPosting is a posting from a reference corpus used for demand and trend calculations.
type CorpusPosting struct {
	ID           string   `json:"id" yaml:"id" mapstructure:"id"`
	Source       string   `json:"source,omitempty" yaml:"source,omitempty" mapstructure:"source"` // File the posting was loaded from
	Hash         string   `json:"hash,omitempty" yaml:"hash,omitempty" mapstructure:"hash"`       // SHA256 of cleaned text
	Title        string   `json:"title" yaml:"title" mapstructure:"title"`
	Company      string   `json:"company" yaml:"company" mapstructure:"company"`
	Location     string   `json:"location,omitempty" yaml:"location,omitempty" mapstructure:"location"`
	URL          string   `json:"url,omitempty" yaml:"url,omitempty" mapstructure:"url"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Requirements []string `json:"requirements" yaml:"requirements" mapstructure:"requirements"`
}
