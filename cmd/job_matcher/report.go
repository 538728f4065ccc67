package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/export"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/pipeline"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Score every corpus posting against a resume and save an xlsx workbook",
	Long: "Analyze each posting in the corpus against the resume skills, rank them by match percentage, " +
		"and write a workbook with a Matches sheet and a Trending sheet.",
	Args: cobra.NoArgs,
	RunE: runReport,
}

var (
	reportResume string
	reportOutput string
	reportLimit  int
)

func init() {
	reportCmd.Flags().StringVarP(&reportResume, "resume", "r", "", "Comma-separated resume skills (required)")
	reportCmd.Flags().StringVarP(&reportOutput, "out", "o", "job_matcher_report.xlsx", "Path to the output workbook")
	reportCmd.Flags().IntVarP(&reportLimit, "limit", "n", 0, "Keep only the N best matches (0 keeps all)")
	reportCmd.Flags().String("corpus", "", "Reference corpus directory (required unless configured)")
	_ = reportCmd.MarkFlagRequired("resume")
	bindConfigFlag(reportCmd, "corpus", "corpus.dir")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	if err := matching.ValidateSkills(reportResume, matching.DefaultMinSkills); err != nil {
		return err
	}
	if reportLimit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	analyzer, err := newAnalyzer()
	if err != nil {
		return err
	}
	corpus, err := requireCorpus(cmd.Context(), analyzer.Parser())
	if err != nil {
		return err
	}
	analyzer = analyzer.WithCorpus(corpus)

	results, err := analyzer.AnalyzeCorpus(cmd.Context(), corpus, reportResume)
	if err != nil {
		return err
	}
	ranked := pipeline.Rank(results)
	if reportLimit > 0 && len(ranked) > reportLimit {
		ranked = ranked[:reportLimit]
	}

	report := export.Report{
		Generated: time.Now(),
		Resume:    reportResume,
		Postings:  analyzer.Demand().Postings(),
		Rows:      make([]export.Row, 0, len(ranked)),
		Trending:  analyzer.Demand().Top(appConfig.Matching.TopSkills),
	}
	for _, r := range ranked {
		report.Rows = append(report.Rows, export.RowFromAnalysis(r))
	}

	path, err := export.WriteFile(reportOutput, report)
	if err != nil {
		return err
	}
	logger.Info("report written", zap.String("path", path), zap.Int("rows", len(report.Rows)))
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Report: %s (%d postings)\n", path, len(report.Rows))
	return nil
}
