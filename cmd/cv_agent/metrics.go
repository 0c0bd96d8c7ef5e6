package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/academic-cv/internal/logging"
	"github.com/jonathan/academic-cv/internal/observability"
	"github.com/jonathan/academic-cv/internal/pipeline"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Look up Google Scholar and ImpactStory metrics",
	Long:  "Runs both optional metrics lookups and reports for each whether it succeeded, was not configured, or failed. Failures do not change the exit status.",
	RunE:  runMetrics,
}

var metricsIdentity identityFlags

func init() {
	metricsIdentity.register(metricsCmd)
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	metricsIdentity.apply(cmd, cfg)

	logger, err := logging.New(verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	scholar := pipeline.LookupScholar(ctx, cfg, logger)
	impact := pipeline.LookupImpactStory(ctx, cfg, logger)

	observability.NewPrinter(os.Stdout).PrintEnrichment(scholar, impact)
	return nil
}
