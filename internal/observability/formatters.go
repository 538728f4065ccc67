// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/job-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// writeList writes up to limit items as bullets with an overflow line.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s\n", heading)
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  • %s\n", items[i])
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
}

// PrintPosting outputs a human-readable summary of a parsed posting.
func (p *Printer) PrintPosting(record *types.PostingRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Title:    %s\n", orDash(record.Title))
	fmt.Fprintf(&sb, "Company:  %s\n", orDash(record.Company))
	fmt.Fprintf(&sb, "Location: %s\n", orDash(record.Location))
	fmt.Fprintf(&sb, "URL:      %s\n", orDash(record.URL))
	if record.Platform != "" {
		fmt.Fprintf(&sb, "Platform: %s\n", record.Platform)
	}

	if record.HasRequirements() {
		sb.WriteString("\n")
		writeList(&sb, fmt.Sprintf("Requirements (%d):", len(record.RequirementList)), record.RequirementList, maxItemsToShow)
	} else {
		sb.WriteString("\nNo requirements found\n")
	}

	p.printBox("PARSED POSTING", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintClassification outputs a fair-chance classification.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintClassification(result *types.ClassificationResult) {
	if result == nil {
		return
	}
	if !result.Matched {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO FAIR CHANCE SIGNALS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Confidence: %s\n", result.Confidence)
	fmt.Fprintf(&sb, "Signal:     %s\n", result.Signal)
	if result.Group != "" {
		fmt.Fprintf(&sb, "Group:      %s\n", result.Group)
	}
	fmt.Fprintf(&sb, "\n%s", result.Reason)

	p.printBox("FAIR CHANCE", sb.String())
}

// PrintMatch outputs a match analysis with its verdict and prioritized gaps.
func (p *Printer) PrintMatch(analysis *types.MatchAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %d%%  (%s)\n", analysis.Verdict, analysis.MatchPercentage, analysis.Message)
	fmt.Fprintf(&sb, "%s\n\n", analysis.Recommendation)

	writeList(&sb, "Matching:", analysis.MatchingSkills, maxItemsToShow)

	if len(analysis.PrioritizedMissingSkills) > 0 {
		sb.WriteString("Missing:\n")
		count := min(len(analysis.PrioritizedMissingSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			skill := analysis.PrioritizedMissingSkills[i]
			fmt.Fprintf(&sb, "  • %s (%d)", skill.Skill, skill.Demand)
			if skill.IsHot {
				sb.WriteString(" hot")
			}
			sb.WriteString("\n")
		}
		if len(analysis.PrioritizedMissingSkills) > maxItemsToShow {
			fmt.Fprintf(&sb, "  ... and %d more\n", len(analysis.PrioritizedMissingSkills)-maxItemsToShow)
		}
	}

	writeList(&sb, "Next steps:", analysis.ActionItems, 3)

	p.printBox("MATCH ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTrending outputs the most-demanded skills of a corpus.
func (p *Printer) PrintTrending(skills []types.SkillCount, postings int) {
	if len(skills) == 0 {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Across %d postings:\n\n", postings)
	for i, s := range skills {
		fmt.Fprintf(&sb, "#%-2d %-30s %d", i+1, truncate(s.Skill, 30), s.Count)
		if i < len(skills)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("TRENDING SKILLS", sb.String())
}
