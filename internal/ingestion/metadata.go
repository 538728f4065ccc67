package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes an ingested posting.
type Metadata struct {
	URL            string   `json:"url,omitempty"`
	Timestamp      string   `json:"timestamp"`          // RFC3339 format
	Hash           string   `json:"hash"`               // SHA256 hex digest of the cleaned text
	Platform       Platform `json:"platform,omitempty"` // Detected job board platform
	ExtractedLinks []string `json:"extracted_links,omitempty"`
}

// NewMetadata creates metadata for cleaned content stamped with the current time.
func NewMetadata(content string, url string) *Metadata {
	m := &Metadata{
		URL:       url,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      ComputeHash(content),
	}
	if url != "" {
		m.Platform = DetectPlatform(url)
	}
	return m
}

// ComputeHash returns the hex SHA256 digest of content.
func ComputeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to indented JSON.
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
