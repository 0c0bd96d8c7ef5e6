package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jonathan/academic-cv/internal/config"
	"github.com/jonathan/academic-cv/internal/tables"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate a CV configuration and its local inputs",
	Long:  "Validates the config file, then checks that the personnel and service tables parse and that every boilerplate file and the stylesheet exist.",
	RunE:  runCheckConfig,
}

func init() {
	rootCmd.AddCommand(checkConfigCmd)
}

func runCheckConfig(_ *cobra.Command, _ []string) error {
	if configPath == "" {
		return fmt.Errorf("--config is required")
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	problems := checkInputs(cfg)
	failed := color.New(color.FgRed)
	for _, p := range problems {
		_, _ = failed.Fprintf(os.Stdout, "✗ %v\n", p)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%d problem(s) found", len(problems))
	}

	_, _ = color.New(color.FgGreen).Fprintf(os.Stdout, "✓ Config is valid: %s\n", configPath)
	_, _ = fmt.Fprintf(os.Stdout, "  ORCID iD:       %s\n", cfg.ORCIDID)
	_, _ = fmt.Fprintf(os.Stdout, "  Fragment order: %v\n", cfg.FragmentOrder)
	return nil
}

// checkInputs reports every local input the build would fail or skip on.
func checkInputs(cfg *config.Config) []error {
	var problems []error
	if _, err := tables.ReadPeople(cfg.PeopleFile); err != nil {
		problems = append(problems, err)
	}
	if _, err := tables.ReadService(cfg.ServiceFile); err != nil {
		problems = append(problems, err)
	}
	paths := []string{cfg.Stylesheet}
	for _, item := range cfg.FragmentOrder {
		if !config.IsSection(item) {
			paths = append(paths, item)
		}
	}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			problems = append(problems, fmt.Errorf("file not found: %s", path))
		}
	}
	return problems
}
