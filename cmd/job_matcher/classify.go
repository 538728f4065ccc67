package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/signals"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Check a posting for fair chance hiring signals",
	Long:  "Classify a job posting by the strongest fair chance hiring signal it contains: explicit keywords, known employers, industries, or job types.",
	Args:  cobra.NoArgs,
	RunE:  runClassify,
}

var (
	classifyInputFile string
	classifyText      string
	classifyTitle     string
	classifyCompany   string
	classifyAll       bool
)

func init() {
	classifyCmd.Flags().StringVarP(&classifyInputFile, "in", "i", "", "Path to a posting description file (default stdin)")
	classifyCmd.Flags().StringVarP(&classifyText, "text", "t", "", "Description text instead of a file")
	classifyCmd.Flags().StringVar(&classifyTitle, "title", "", "Job title")
	classifyCmd.Flags().StringVar(&classifyCompany, "company", "", "Employer name")
	classifyCmd.Flags().BoolVar(&classifyAll, "all", false, "Report every matching signal group, strongest first")
	classifyCmd.MarkFlagsMutuallyExclusive("in", "text")

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, _ []string) error {
	description := classifyText
	if description == "" && (classifyInputFile != "" || (classifyTitle == "" && classifyCompany == "")) {
		var err error
		if description, err = readInput(cmd, classifyInputFile); err != nil {
			return err
		}
	}

	text := signals.FairChanceText(classifyTitle, classifyCompany, description)
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to classify: provide --in, --text, --title, or --company")
	}

	classifier, err := appConfig.Classifier()
	if err != nil {
		return err
	}

	if classifyAll {
		return writeJSON(cmd, "", classifier.ClassifyAll(text))
	}
	result := classifier.Classify(text)
	if verbose(cmd) {
		printer(cmd).PrintClassification(&result)
	}
	return writeJSON(cmd, "", result)
}
