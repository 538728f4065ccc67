package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/ingestion"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/parsing"
	"github.com/jonathan/job-matcher/internal/pipeline"
	"github.com/jonathan/job-matcher/internal/schemas"
	"github.com/jonathan/job-matcher/internal/types"
)

var parsePostingCmd = &cobra.Command{
	Use:   "parse-posting",
	Short: "Parse a pasted job posting into a structured record",
	Long:  "Parse job posting text or HTML into a PostingRecord JSON that validates against the posting_record schema.",
	Args:  cobra.NoArgs,
	RunE:  runParsePosting,
}

var (
	parseInputFile  string
	parseOutputFile string
	parseURL        string
	parseHTML       bool
)

func init() {
	parsePostingCmd.Flags().StringVarP(&parseInputFile, "in", "i", "", "Path to a posting text or HTML file (default stdin)")
	parsePostingCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	parsePostingCmd.Flags().StringVar(&parseURL, "url", "", "URL the posting was copied from")
	parsePostingCmd.Flags().BoolVar(&parseHTML, "html", false, "Treat the input as HTML (detected automatically otherwise)")

	rootCmd.AddCommand(parsePostingCmd)
}

func runParsePosting(cmd *cobra.Command, _ []string) error {
	if err := matching.ValidateURL(parseURL, false); err != nil {
		return err
	}
	content, err := readInput(cmd, parseInputFile)
	if err != nil {
		return err
	}

	parser := pipeline.NewParser(appConfig, logger)
	record, err := parsePosting(parser, content, parseURL, parseHTML)
	if err != nil {
		return err
	}

	if err := schemas.ValidateValue(schemas.PostingRecord, record); err != nil {
		return fmt.Errorf("parsed posting does not validate against schema: %w", err)
	}
	if verbose(cmd) {
		printer(cmd).PrintPosting(&record)
	}
	return writeJSON(cmd, parseOutputFile, record)
}

// parsePosting parses content as HTML when forced or detected, as text otherwise.
func parsePosting(parser *parsing.Parser, content, url string, html bool) (types.PostingRecord, error) {
	if html || ingestion.IsHTML(content) {
		return parser.ParseHTML(content, url)
	}
	return parser.Parse(content, url), nil
}
