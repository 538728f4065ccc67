package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var extractSkillsCmd = &cobra.Command{
	Use:   "extract-skills",
	Short: "Extract normalized skills from free text",
	Long:  "Extract the known skills mentioned in a job description or resume, resolving ambiguous words such as Go or Rust from their context.",
	Args:  cobra.NoArgs,
	RunE:  runExtractSkills,
}

var (
	extractInputFile  string
	extractText       string
	extractPhrases    bool
	extractExperience bool
)

// extractOutput is the JSON written by extract-skills.
type extractOutput struct {
	Skills     []string `json:"skills"`
	Phrases    []string `json:"phrases,omitempty"`
	Experience []string `json:"experience,omitempty"`
}

func init() {
	extractSkillsCmd.Flags().StringVarP(&extractInputFile, "in", "i", "", "Path to a text file (default stdin)")
	extractSkillsCmd.Flags().StringVarP(&extractText, "text", "t", "", "Text to scan instead of a file")
	extractSkillsCmd.Flags().BoolVar(&extractPhrases, "phrases", false, "Also report skills introduced by phrases like \"experience with\"")
	extractSkillsCmd.Flags().BoolVar(&extractExperience, "experience", false, "Also report years-of-experience requirements")
	extractSkillsCmd.MarkFlagsMutuallyExclusive("in", "text")

	rootCmd.AddCommand(extractSkillsCmd)
}

func runExtractSkills(cmd *cobra.Command, _ []string) error {
	text := extractText
	if strings.TrimSpace(text) == "" {
		var err error
		if text, err = readInput(cmd, extractInputFile); err != nil {
			return err
		}
	}

	extractor := appConfig.Extractor(logger)
	found, err := extractor.ExtractStrict(text)
	if err != nil {
		return err
	}

	out := extractOutput{Skills: found}
	if extractPhrases {
		out.Phrases = extractor.ExtractPhrases(text)
	}
	if extractExperience {
		out.Experience = extractor.ExtractExperience(text)
	}
	return writeJSON(cmd, "", out)
}
