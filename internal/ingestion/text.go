// Package ingestion normalizes pasted job posting text and HTML into clean, line-structured
// text ready for field parsing.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	multiSpace      = regexp.MustCompile(`[ \t\f\v]+`)
	excessiveBlanks = regexp.MustCompile(`\n\n\n+`)
	numberedPrefix  = regexp.MustCompile(`^\d{1,2}[.)]\s+`)
)

// CleanText normalizes line endings and whitespace while keeping headings and bullets
// on their own lines.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u00a0", " ")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = excessiveBlanks.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine trims a single line. Bullet indentation is kept; interior runs of spaces
// collapse to one.
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "#") {
		return multiSpace.ReplaceAllString(trimmed, " ")
	}

	indent := ""
	if IsBulletLine(trimmed) {
		indent = strings.Repeat(" ", len(line)-len(trimmed))
	}
	return indent + multiSpace.ReplaceAllString(trimmed, " ")
}

// IsBulletLine reports whether line is a bulleted or numbered list item.
func IsBulletLine(line string) bool {
	_, ok := StripBullet(line)
	return ok
}

// StripBullet removes a leading bullet marker (-, *, •, ·, ▪, –, or "1." / "1)") and reports
// whether one was present.
func StripBullet(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, marker := range []string{"- ", "* ", "• ", "· ", "▪ ", "– "} {
		if strings.HasPrefix(trimmed, marker) {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, marker)), true
		}
	}
	if loc := numberedPrefix.FindStringIndex(trimmed); loc != nil {
		return strings.TrimSpace(trimmed[loc[1]:]), true
	}
	return trimmed, false
}

// IsHTML reports whether content looks like markup rather than plain text.
func IsHTML(content string) bool {
	head := strings.ToLower(strings.TrimSpace(content))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<body") || strings.Contains(head, "<div")
}

// IngestFromFile reads a posting file and returns its cleaned text with metadata.
// Files ending in .html or .htm, or whose content looks like markup, are stripped of
// markup first.
func IngestFromFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	return Ingest(string(content), "", isHTMLPath(path))
}

// Ingest cleans raw posting content. When html is false the content is still treated as
// markup if it looks like it.
func Ingest(content, url string, html bool) (string, *Metadata, error) {
	if !html && !IsHTML(content) {
		cleaned := CleanText(content)
		return cleaned, NewMetadata(cleaned, url), nil
	}

	page, err := ExtractHTML(content, DetectPlatform(url))
	if err != nil {
		return "", nil, err
	}
	metadata := NewMetadata(page.Text, url)
	metadata.ExtractedLinks = page.Links
	return page.Text, metadata, nil
}

func isHTMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}
