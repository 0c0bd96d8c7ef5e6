package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jonathan/academic-cv/internal/logging"
	"github.com/jonathan/academic-cv/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the CV end-to-end",
	Long: `Fetches the ORCID record, looks up citation metrics, renders every section in the fragment order and converts the result to HTML and PDF.

Configuration can be loaded from a YAML or JSON file using --config. Command-line arguments override config file values.`,
	RunE: runBuild,
}

var (
	buildIdentity       identityFlags
	buildOutDir         string
	buildName           string
	buildConverter      string
	buildOfflineMetrics bool
)

func init() {
	buildIdentity.register(buildCmd)
	buildCmd.Flags().StringVar(&buildOutDir, "out-dir", "", "Directory for fragments and documents (default \"build\")")
	buildCmd.Flags().StringVar(&buildName, "name", "", "Base name of the output documents (default \"cv\")")
	buildCmd.Flags().StringVar(&buildConverter, "converter", "", "Document converter: pandoc or native")
	buildCmd.Flags().BoolVar(&buildOfflineMetrics, "offline-metrics", false, "Skip Google Scholar and ImpactStory lookups")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// CLI overrides, only where the flag was explicitly set
	buildIdentity.apply(cmd, cfg)
	if cmd.Flags().Changed("out-dir") {
		cfg.OutputDir = buildOutDir
	}
	if cmd.Flags().Changed("name") {
		cfg.OutputName = buildName
	}
	if cmd.Flags().Changed("converter") {
		cfg.Converter = buildConverter
	}
	if cmd.Flags().Changed("offline-metrics") {
		cfg.OfflineMetrics = buildOfflineMetrics
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	result, err := pipeline.Run(context.Background(), pipeline.RunOptions{
		Config: cfg,
		Logger: logger,
		Out:    os.Stdout,
	})
	if err != nil {
		return err
	}

	warn := color.New(color.FgYellow)
	for section, skipErr := range result.Skipped {
		_, _ = warn.Fprintf(os.Stderr, "Warning: section %s skipped: %v\n", section, skipErr)
	}
	_, _ = fmt.Fprintf(os.Stdout, "HTML: %s\n", result.Outputs.HTML)
	_, _ = fmt.Fprintf(os.Stdout, "PDF:  %s\n", result.Outputs.PDF)
	return nil
}
