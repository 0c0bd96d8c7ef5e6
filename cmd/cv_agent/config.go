package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/academic-cv/internal/config"
)

// loadConfig reads the --config file when given, applies CV_* environment
// overrides and fills unset values from the defaults. The result is validated.
func loadConfig(path string) (*config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	cfg.ApplyEnv()
	merged := cfg.MergeWithDefaults(config.DefaultConfig())
	return &merged, nil
}

// identityFlags are the researcher ids shared by several commands.
type identityFlags struct {
	orcid         string
	scholarID     string
	impactStoryID string
}

func (f *identityFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.orcid, "orcid", "", "ORCID iD, e.g. 0000-0002-1825-0097 (defaults to CV_ORCID_ID)")
	cmd.Flags().StringVar(&f.scholarID, "scholar-id", "", "Google Scholar user id (defaults to CV_SCHOLAR_ID)")
	cmd.Flags().StringVar(&f.impactStoryID, "impactstory-id", "", "ImpactStory person id (defaults to CV_IMPACTSTORY_ID)")
}

// apply overrides cfg with the flags that were explicitly set.
func (f *identityFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("orcid") {
		cfg.ORCIDID = f.orcid
	}
	if cmd.Flags().Changed("scholar-id") {
		cfg.ScholarID = f.scholarID
	}
	if cmd.Flags().Changed("impactstory-id") {
		cfg.ImpactStoryID = f.impactStoryID
	}
}
