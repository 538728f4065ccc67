package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/config"
	"github.com/jonathan/job-matcher/internal/logging"
	"github.com/jonathan/job-matcher/internal/observability"
	"github.com/jonathan/job-matcher/internal/parsing"
	"github.com/jonathan/job-matcher/internal/pipeline"
	"github.com/jonathan/job-matcher/internal/types"
)

const app = "job_matcher"

var (
	// Used for flags.
	cfgFile string

	// Set by setup before any command runs.
	appConfig *config.Config
	logger    = zap.NewNop()

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "Extract skills from job postings and score them against your resume",
		Long: "job_matcher parses pasted job postings, extracts and normalizes the skills they ask for, " +
			"flags fair chance employers, and scores postings against a resume's skills.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}
)

// flagBinding maps a command-local flag onto a configuration key.
type flagBinding struct {
	cmd  *cobra.Command
	flag string
	key  string
}

var flagBindings []flagBinding

// bindConfigFlag makes flag on cmd override the configuration key when set.
func bindConfigFlag(cmd *cobra.Command, flag, key string) {
	flagBindings = append(flagBindings, flagBinding{cmd: cmd, flag: flag, key: key})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is job_matcher.yaml in the current directory or ~/.config/job_matcher)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print human-readable summaries to stderr")
}

// setup loads configuration and builds the logger for the command being run.
func setup(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	persistent := cmd.Root().PersistentFlags()
	if err := v.BindPFlag("log.debug", persistent.Lookup("debug")); err != nil {
		return err
	}
	if err := v.BindPFlag("log.json", persistent.Lookup("json")); err != nil {
		return err
	}
	for _, b := range flagBindings {
		if b.cmd != cmd {
			continue
		}
		if err := v.BindPFlag(b.key, cmd.Flags().Lookup(b.flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", b.flag, err)
		}
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	appConfig = cfg

	l, err := logging.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	logger = l
	return nil
}

// verbose reports whether human-readable summaries were requested.
func verbose(cmd *cobra.Command) bool {
	on, _ := cmd.Flags().GetBool("verbose")
	return on
}

func printer(cmd *cobra.Command) *observability.Printer {
	return observability.NewPrinter(cmd.ErrOrStderr())
}

// readInput returns the contents of path, or of stdin when path is empty or "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}

// writeJSON writes v as indented JSON to path, or to stdout when path is empty.
func writeJSON(cmd *cobra.Command, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", path)
	return nil
}

func newAnalyzer() (*pipeline.Analyzer, error) {
	return pipeline.FromConfig(appConfig, logger)
}

// loadCorpus reads the configured corpus directory. No directory means no corpus.
func loadCorpus(ctx context.Context, parser *parsing.Parser) ([]types.CorpusPosting, error) {
	dir := appConfig.Corpus.Dir
	if dir == "" {
		return nil, nil
	}
	postings, err := pipeline.LoadCorpus(ctx, dir,
		pipeline.WithCorpusParser(parser),
		pipeline.WithCorpusConcurrency(appConfig.Corpus.Concurrency),
		pipeline.WithCorpusLogger(logger))
	if err != nil {
		return nil, err
	}
	logger.Info("corpus loaded", zap.String("dir", dir), zap.Int("postings", len(postings)))
	return postings, nil
}

// requireCorpus is like loadCorpus but fails when no postings are found.
func requireCorpus(ctx context.Context, parser *parsing.Parser) ([]types.CorpusPosting, error) {
	if appConfig.Corpus.Dir == "" {
		return nil, fmt.Errorf("a corpus directory is required (use --corpus or corpus.dir in the config file)")
	}
	postings, err := loadCorpus(ctx, parser)
	if err != nil {
		return nil, err
	}
	if len(postings) == 0 {
		return nil, fmt.Errorf("no postings found in %s", appConfig.Corpus.Dir)
	}
	return postings, nil
}
