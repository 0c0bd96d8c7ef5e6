package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/jonathan/academic-cv/internal/config"
	"github.com/jonathan/academic-cv/internal/logging"
	"github.com/jonathan/academic-cv/internal/pipeline"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one CV section to stdout",
	Long:  "Loads only the inputs a section needs, renders it and prints the Markdown fragment. Nothing is converted.",
	RunE:  runRender,
}

var (
	renderSection        string
	renderOfflineMetrics bool
	renderPretty         bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderSection, "section", "s", "", "Section name: summary, education, employment, funding, publications, people or service (required)")
	renderCmd.Flags().BoolVar(&renderOfflineMetrics, "offline-metrics", false, "Skip Google Scholar and ImpactStory lookups")
	renderCmd.Flags().BoolVar(&renderPretty, "pretty", false, "Preview the fragment styled for the terminal instead of printing raw Markdown")

	if err := renderCmd.MarkFlagRequired("section"); err != nil {
		panic(fmt.Sprintf("failed to mark section flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	if !config.IsSection(renderSection) {
		return fmt.Errorf("unknown section %q (valid: %v)", renderSection, config.Sections)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("offline-metrics") {
		cfg.OfflineMetrics = renderOfflineMetrics
	}
	cfg.Verbose = false

	logger, err := logging.New(verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	result, err := pipeline.Run(context.Background(), pipeline.RunOptions{
		Config:       cfg,
		Sections:     []string{renderSection},
		SkipAssemble: true,
		Logger:       logger,
		Out:          io.Discard,
	})
	if err != nil {
		return err
	}
	if skipErr, ok := result.Skipped[renderSection]; ok {
		return fmt.Errorf("section %s skipped: %w", renderSection, skipErr)
	}

	fragment := result.Fragments[renderSection]
	if renderPretty {
		if fragment, err = previewMarkdown(fragment); err != nil {
			return err
		}
	}
	_, _ = fmt.Fprint(os.Stdout, fragment)
	return nil
}

// previewMarkdown styles a fragment for the terminal.
func previewMarkdown(markdown string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render preview: %w", err)
	}
	return out, nil
}
