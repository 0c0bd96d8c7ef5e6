package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/academic-cv/internal/config"
)

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("CV_ORCID_ID", "")
	t.Setenv("CV_SCHOLAR_ID", "")
	t.Setenv("CV_IMPACTSTORY_ID", "")

	cfg, err := loadConfig("")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultORCIDID, cfg.ORCIDID)
	assert.Equal(t, "build", cfg.OutputDir)
	assert.Equal(t, "pandoc", cfg.Converter)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("orcid_id: 0000-0001-5109-3700\nscholar_id: fromfile\noutput_dir: out\n"), 0644))
	t.Setenv("CV_ORCID_ID", "")
	t.Setenv("CV_SCHOLAR_ID", "fromenv")
	t.Setenv("CV_IMPACTSTORY_ID", "")

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "0000-0001-5109-3700", cfg.ORCIDID)
	assert.Equal(t, "fromenv", cfg.ScholarID)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "cv", cfg.OutputName, "unset fields fall back to defaults")
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("orcid_id: not-an-orcid\n"), 0644))

	_, err := loadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orcid_id")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestIdentityFlags_OnlyChangedFlagsApply(t *testing.T) {
	var flags identityFlags
	cmd := &cobra.Command{Use: "test"}
	flags.register(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--scholar-id", "xyz"}))

	cfg := &config.Config{ORCIDID: "0000-0002-1825-0097", ScholarID: "abc", ImpactStoryID: "imp"}
	flags.apply(cmd, cfg)

	assert.Equal(t, "0000-0002-1825-0097", cfg.ORCIDID)
	assert.Equal(t, "xyz", cfg.ScholarID)
	assert.Equal(t, "imp", cfg.ImpactStoryID)
}
