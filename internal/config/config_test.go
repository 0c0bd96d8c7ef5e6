package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"orcid_id": "0000-0002-1825-0097",
		"scholar_id": "abcDEF123",
		"publication_offset": -2,
		"badge_allow_list": ["big_hit"],
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "0000-0002-1825-0097", cfg.ORCIDID)
	assert.Equal(t, "abcDEF123", cfg.ScholarID)
	assert.Equal(t, -2, cfg.PublicationOffset)
	assert.Equal(t, []string{"big_hit"}, cfg.BadgeAllowList)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	content := `
orcid_id: 0000-0001-5109-3700
highlight_name: Carberry J
fragment_order:
  - summary
  - boilerplate/teaching.md
name_fixes:
  - pattern: Carbery
    replacement: Carberry
funder_aliases:
  - match: Department of Energy
    acronym: DOE
`
	tmpFile := filepath.Join(t.TempDir(), "cv.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "0000-0001-5109-3700", cfg.ORCIDID)
	assert.Equal(t, "Carberry J", cfg.HighlightName)
	assert.Equal(t, []string{"summary", "boilerplate/teaching.md"}, cfg.FragmentOrder)
	require.Len(t, cfg.NameFixes, 1)
	assert.Equal(t, "Carberry", cfg.NameFixes[0].Replacement)
	require.Len(t, cfg.FunderAliases, 1)
	assert.Equal(t, "DOE", cfg.FunderAliases[0].Acronym)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("orcid_id: [unterminated"), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad orcid", func(c *Config) { c.ORCIDID = "1234" }, "not a valid ORCID iD"},
		{"bad timeout", func(c *Config) { c.Timeout = "soon" }, "'timeout'"},
		{"negative timeout", func(c *Config) { c.Timeout = "-1s" }, "must be positive"},
		{"bad converter", func(c *Config) { c.Converter = "latex" }, "config error"},
		{"bad url", func(c *Config) { c.ORCIDBaseURL = "not a url" }, "config error"},
		{"duplicate section", func(c *Config) { c.FragmentOrder = []string{"summary", "summary"} }, "appears twice"},
		{"empty fragment", func(c *Config) { c.FragmentOrder = []string{""} }, "empty entry"},
		{"non-idempotent fix", func(c *Config) {
			c.NameFixes = []NameFix{{Pattern: "Smith", Replacement: "Smithe Smith"}}
		}, "idempotent"},
		{"shrinking fix", func(c *Config) {
			c.NameFixes = []NameFix{{Pattern: "aa", Replacement: "a"}}
		}, "idempotent"},
		{"fix that recreates its pattern", func(c *Config) {
			c.NameFixes = []NameFix{{Pattern: "ab", Replacement: "a"}}
		}, "idempotent"},
		{"alias missing acronym", func(c *Config) {
			c.FunderAliases = []FunderAlias{{Match: "Wellcome"}}
		}, "config error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_AcceptsStableNameFixes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NameFixes = []NameFix{
		{Pattern: "Carbery", Replacement: "Carberry"},
		{Pattern: "J.S. Carberry", Replacement: "J. S. Carberry"},
		{Pattern: "Jospeh", Replacement: "Josiah"},
	}
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		ORCIDID:           "0000-0001-5109-3700",
		OutputName:        "my-cv",
		PublicationOffset: -2,
	}

	merged := cfg.MergeWithDefaults(DefaultConfig())

	assert.Equal(t, "0000-0001-5109-3700", merged.ORCIDID)
	assert.Equal(t, "my-cv", merged.OutputName)
	assert.Equal(t, "build", merged.OutputDir)
	assert.Equal(t, "pandoc", merged.Converter)
	assert.Equal(t, -2, merged.PublicationOffset)
	assert.Equal(t, DefaultConfig().FragmentOrder, merged.FragmentOrder)

	// The receiver is not modified
	assert.Empty(t, cfg.OutputDir)
}

func TestMergeWithDefaults_KeepsExplicitEmptySlices(t *testing.T) {
	cfg := Config{BadgeAllowList: []string{}}
	merged := cfg.MergeWithDefaults(DefaultConfig())
	assert.Empty(t, merged.BadgeAllowList)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CV_ORCID_ID", "0000-0001-5109-3700")
	t.Setenv("CV_SCHOLAR_ID", "sch")
	t.Setenv("CV_IMPACTSTORY_ID", "")

	cfg := Config{ImpactStoryID: "kept"}
	cfg.ApplyEnv()

	assert.Equal(t, "0000-0001-5109-3700", cfg.ORCIDID)
	assert.Equal(t, "sch", cfg.ScholarID)
	assert.Equal(t, "kept", cfg.ImpactStoryID)
}

func TestTimeoutDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, (&Config{Timeout: "5s"}).TimeoutDuration())
	assert.Equal(t, 20*time.Second, (&Config{}).TimeoutDuration())
	assert.Equal(t, 20*time.Second, (&Config{Timeout: "bogus"}).TimeoutDuration())
}

func TestIsSection(t *testing.T) {
	for _, s := range Sections {
		assert.True(t, IsSection(s))
	}
	assert.False(t, IsSection("boilerplate/header.md"))
}
