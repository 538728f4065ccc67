package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  "Start an HTTP server exposing skill extraction, posting parsing, fair chance classification, and match scoring.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "Port to listen on (default server.port)")
	serveCmd.Flags().String("corpus", "", "Reference corpus directory for demand and trending skills")
	bindConfigFlag(serveCmd, "port", "server.port")
	bindConfigFlag(serveCmd, "corpus", "corpus.dir")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
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

	srv := server.New(appConfig, analyzer, corpus, logger)
	logger.Info("starting server", zap.Int("port", appConfig.Server.Port), zap.Int("postings", len(corpus)))
	return srv.Run(ctx)
}
