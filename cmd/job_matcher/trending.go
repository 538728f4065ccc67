package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/pipeline"
	"github.com/jonathan/job-matcher/internal/types"
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List the skills most requested across a corpus of postings",
	Args:  cobra.NoArgs,
	RunE:  runTrending,
}

// trendingOutput is the JSON written by trending.
type trendingOutput struct {
	Postings int                `json:"postings"`
	Skills   []types.SkillCount `json:"skills"`
}

func init() {
	trendingCmd.Flags().String("corpus", "", "Reference corpus directory (required unless configured)")
	trendingCmd.Flags().IntP("limit", "n", 0, "Number of skills to list (default matching.top-skills)")
	bindConfigFlag(trendingCmd, "corpus", "corpus.dir")
	bindConfigFlag(trendingCmd, "limit", "matching.top-skills")

	rootCmd.AddCommand(trendingCmd)
}

func runTrending(cmd *cobra.Command, _ []string) error {
	postings, err := requireCorpus(cmd.Context(), pipeline.NewParser(appConfig, logger))
	if err != nil {
		return err
	}

	demand := matching.NewDemandTable(postings)
	top := demand.Top(appConfig.Matching.TopSkills)
	if verbose(cmd) {
		printer(cmd).PrintTrending(top, demand.Postings())
	}
	return writeJSON(cmd, "", trendingOutput{Postings: demand.Postings(), Skills: top})
}
