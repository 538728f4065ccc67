package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the job matching tools over the Model Context Protocol",
	Long:  "Expose extract_skills, parse_posting, classify_fair_chance, score_match, and trending_skills as MCP tools over stdio, or over streamable HTTP with --http.",
	Args:  cobra.NoArgs,
	RunE:  runMCP,
}

func init() {
	mcpCmd.Flags().String("http", "", "Listen address for streamable HTTP, e.g. :8090 (default stdio)")
	mcpCmd.Flags().String("corpus", "", "Reference corpus directory for demand and trending skills")
	bindConfigFlag(mcpCmd, "http", "mcp.addr")
	bindConfigFlag(mcpCmd, "corpus", "corpus.dir")

	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	analyzer, err := newAnalyzer()
	if err != nil {
		return err
	}
	corpus, err := loadCorpus(ctx, analyzer.Parser())
	if err != nil {
		return err
	}
	if len(corpus) > 0 {
		analyzer = analyzer.WithCorpus(corpus)
	}

	srv := mcp.NewServer(analyzer, version, logger, mcp.WithTopSkills(appConfig.Matching.TopSkills))
	if addr := appConfig.MCP.Addr; addr != "" {
		logger.Info("starting MCP server", zap.String("addr", addr))
		return srv.RunHTTP(ctx, addr, appConfig.Server.ShutdownTimeout)
	}
	return srv.RunStdio(ctx)
}
