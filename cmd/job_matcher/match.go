package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score resume skills against a job's requirements",
	Long: "Compare comma-separated resume skills with a posting's requirements and report the match percentage, " +
		"missing skills ranked by corpus demand, and a verdict. Requirements come from --requirements or a parsed posting file.",
	Args: cobra.NoArgs,
	RunE: runMatch,
}

var (
	matchResume       string
	matchRequirements string
	matchInputFile    string
	matchURL          string
)

// matchOutput is the JSON written by match.
type matchOutput struct {
	Posting    *types.PostingRecord        `json:"posting,omitempty"`
	FairChance *types.ClassificationResult `json:"fair_chance,omitempty"`
	Match      types.MatchAnalysis         `json:"match"`
}

func init() {
	matchCmd.Flags().StringVarP(&matchResume, "resume", "r", "", "Comma-separated resume skills (required)")
	matchCmd.Flags().StringVar(&matchRequirements, "requirements", "", "Comma-separated job requirements")
	matchCmd.Flags().StringVarP(&matchInputFile, "in", "i", "", "Posting file to parse when --requirements is not given (\"-\" for stdin)")
	matchCmd.Flags().StringVar(&matchURL, "url", "", "URL the posting was copied from")
	matchCmd.Flags().String("corpus", "", "Reference corpus directory for skill demand")
	matchCmd.MarkFlagsMutuallyExclusive("requirements", "in")
	_ = matchCmd.MarkFlagRequired("resume")
	bindConfigFlag(matchCmd, "corpus", "corpus.dir")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	if err := matching.ValidateSkills(matchResume, matching.DefaultMinSkills); err != nil {
		return err
	}
	if err := matching.ValidateURL(matchURL, false); err != nil {
		return err
	}
	if strings.TrimSpace(matchRequirements) == "" && matchInputFile == "" {
		return fmt.Errorf("provide --requirements or a posting file with --in")
	}

	analyzer, err := newAnalyzer()
	if err != nil {
		return err
	}
	corpus, err := loadCorpus(cmd.Context(), analyzer.Parser())
	if err != nil {
		return err
	}
	if len(corpus) > 0 {
		analyzer = analyzer.WithCorpus(corpus)
	}

	var out matchOutput
	if strings.TrimSpace(matchRequirements) != "" {
		out.Match = analyzer.Scorer().Score(matchResume, matchRequirements, analyzer.Demand())
	} else {
		content, err := readInput(cmd, matchInputFile)
		if err != nil {
			return err
		}
		record, err := parsePosting(analyzer.Parser(), content, matchURL, false)
		if err != nil {
			return err
		}
		analysis := analyzer.AnalyzeRecord(record, matchResume)
		out.Posting = &analysis.Posting
		out.FairChance = &analysis.FairChance
		out.Match = *analysis.Match
	}

	if verbose(cmd) {
		p := printer(cmd)
		if out.Posting != nil {
			p.PrintPosting(out.Posting)
			p.PrintClassification(out.FairChance)
		}
		p.PrintMatch(&out.Match)
	}
	return writeJSON(cmd, "", out)
}
