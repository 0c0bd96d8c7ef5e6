package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/academic-cv/internal/logging"
	"github.com/jonathan/academic-cv/internal/pipeline"
)

var fetchProfileCmd = &cobra.Command{
	Use:   "fetch-profile",
	Short: "Fetch and normalize an ORCID record",
	Long:  "Fetches a researcher's public ORCID record and writes the normalized profile (citations, funding, education, employment) as JSON.",
	RunE:  runFetchProfile,
}

var (
	fetchORCID  string
	fetchOutput string
)

func init() {
	fetchProfileCmd.Flags().StringVar(&fetchORCID, "orcid", "", "ORCID iD (defaults to the config or CV_ORCID_ID)")
	fetchProfileCmd.Flags().StringVarP(&fetchOutput, "out", "o", "", "Path to output profile JSON file (stdout when empty)")

	rootCmd.AddCommand(fetchProfileCmd)
}

func runFetchProfile(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("orcid") {
		cfg.ORCIDID = fetchORCID
	}

	logger, err := logging.New(verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	profile, err := pipeline.FetchProfile(context.Background(), cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if fetchOutput == "" {
		_, _ = fmt.Fprintln(os.Stdout, string(jsonBytes))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(fetchOutput), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(fetchOutput, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Fetched %d journal articles, %d books, %d awards\n",
		len(profile.Journals), len(profile.Books), len(profile.Funding))
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", fetchOutput)
	return nil
}
