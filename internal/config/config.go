// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultORCIDID is used when neither the config file nor the environment names a researcher.
const DefaultORCIDID = "0000-0002-1825-0097"

// Section names accepted in FragmentOrder.
const (
	SectionSummary      = "summary"
	SectionEducation    = "education"
	SectionEmployment   = "employment"
	SectionFunding      = "funding"
	SectionPublications = "publications"
	SectionPeople       = "people"
	SectionService      = "service"
)

// Sections lists every generated section in default document order.
var Sections = []string{
	SectionSummary,
	SectionEducation,
	SectionEmployment,
	SectionFunding,
	SectionPublications,
	SectionPeople,
	SectionService,
}

var orcidPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)

// NameFix is a configured correction for a known misspelling in ORCID citations.
type NameFix struct {
	Pattern     string `json:"pattern" yaml:"pattern" validate:"required"`
	Replacement string `json:"replacement" yaml:"replacement"`
}

// idempotent reports whether a second application leaves the output of the
// first unchanged, over samples built from overlapping copies of the pattern.
// Shrinking fixes such as "aa" -> "a" fail it.
func (f NameFix) idempotent() bool {
	apply := func(s string) string { return strings.ReplaceAll(s, f.Pattern, f.Replacement) }
	p, r := f.Pattern, f.Replacement
	samples := []string{r, p + p, p + r, r + p}
	for k := 1; k < len(p); k++ {
		samples = append(samples, p[:k]+r+p[k:], p[:k]+p+p[k:], p+p[k:], p[:k]+p, r+p[k:], p[:k]+r)
	}
	for _, s := range samples {
		once := apply(s)
		if apply(once) != once {
			return false
		}
	}
	return true
}

// FunderAlias canonicalizes funder names containing Match to Acronym.
type FunderAlias struct {
	Match   string `json:"match" yaml:"match" validate:"required"`
	Acronym string `json:"acronym" yaml:"acronym" validate:"required"`
}

// Config is the CV build configuration loaded from a JSON or YAML file.
// All fields are optional in the file; missing values are filled by MergeWithDefaults.
type Config struct {
	// Identities
	ORCIDID       string `json:"orcid_id,omitempty" yaml:"orcid_id,omitempty"`             // Researcher ORCID iD
	ScholarID     string `json:"scholar_id,omitempty" yaml:"scholar_id,omitempty"`         // Google Scholar user id
	ImpactStoryID string `json:"impactstory_id,omitempty" yaml:"impactstory_id,omitempty"` // ImpactStory person id

	// Upstream endpoints
	ORCIDBaseURL       string `json:"orcid_base_url,omitempty" yaml:"orcid_base_url,omitempty" validate:"omitempty,url"`
	ScholarBaseURL     string `json:"scholar_base_url,omitempty" yaml:"scholar_base_url,omitempty" validate:"omitempty,url"`
	ImpactStoryBaseURL string `json:"impactstory_base_url,omitempty" yaml:"impactstory_base_url,omitempty" validate:"omitempty,url"`
	Timeout            string `json:"timeout,omitempty" yaml:"timeout,omitempty"` // Per-request timeout, e.g. "20s"

	// Static inputs
	PeopleFile    string   `json:"people_file,omitempty" yaml:"people_file,omitempty"`
	ServiceFile   string   `json:"service_file,omitempty" yaml:"service_file,omitempty"`
	Stylesheet    string   `json:"stylesheet,omitempty" yaml:"stylesheet,omitempty"`
	FragmentOrder []string `json:"fragment_order,omitempty" yaml:"fragment_order,omitempty"` // Section names or boilerplate Markdown paths

	// Output
	OutputDir  string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	OutputName string `json:"output_name,omitempty" yaml:"output_name,omitempty"`
	Converter  string `json:"converter,omitempty" yaml:"converter,omitempty" validate:"omitempty,oneof=pandoc native"`
	PandocPath string `json:"pandoc_path,omitempty" yaml:"pandoc_path,omitempty"`
	PDFEngine  string `json:"pdf_engine,omitempty" yaml:"pdf_engine,omitempty"` // HTML to PDF command for the pandoc converter

	// Rendering
	HighlightName     string        `json:"highlight_name,omitempty" yaml:"highlight_name,omitempty"` // Author rendered in bold, e.g. "Carberry J"
	PublicationOffset int           `json:"publication_offset,omitempty" yaml:"publication_offset,omitempty"`
	TeachingBlurb     string        `json:"teaching_blurb,omitempty" yaml:"teaching_blurb,omitempty"`
	ServiceBlurb      string        `json:"service_blurb,omitempty" yaml:"service_blurb,omitempty"`
	ServiceMarker     string        `json:"service_marker,omitempty" yaml:"service_marker,omitempty"`
	BadgeAllowList    []string      `json:"badge_allow_list,omitempty" yaml:"badge_allow_list,omitempty"`
	HiddenFields      []string      `json:"hidden_fields,omitempty" yaml:"hidden_fields,omitempty"`
	NameFixes         []NameFix     `json:"name_fixes,omitempty" yaml:"name_fixes,omitempty" validate:"dive"`
	FunderAliases     []FunderAlias `json:"funder_aliases,omitempty" yaml:"funder_aliases,omitempty" validate:"dive"`

	// Behavior
	OfflineMetrics bool `json:"offline_metrics,omitempty" yaml:"offline_metrics,omitempty"` // Skip both enrichers
	Verbose        bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// DefaultConfig returns the values applied to every unset field.
func DefaultConfig() Config {
	return Config{
		ORCIDID:            DefaultORCIDID,
		ORCIDBaseURL:       "https://pub.orcid.org",
		ScholarBaseURL:     "https://scholar.google.com",
		ImpactStoryBaseURL: "https://impactstory.org",
		Timeout:            "20s",
		PeopleFile:         "data/people.tsv",
		ServiceFile:        "data/service.tsv",
		Stylesheet:         "style/cv.css",
		FragmentOrder: []string{
			"boilerplate/header.md",
			SectionSummary,
			SectionEducation,
			SectionEmployment,
			SectionFunding,
			SectionPublications,
			"boilerplate/presentations.md",
			"boilerplate/teaching.md",
			SectionPeople,
			SectionService,
		},
		OutputDir:      "build",
		OutputName:     "cv",
		Converter:      "pandoc",
		PandocPath:     "pandoc",
		PDFEngine:      "wkhtmltopdf",
		ServiceMarker:  "▸",
		BadgeAllowList: []string{"big_hit", "global_reach", "open_science_triathlete", "wikitastic"},
		HiddenFields:   []string{"month", "note"},
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides identity fields from CV_ORCID_ID, CV_SCHOLAR_ID and CV_IMPACTSTORY_ID when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("CV_ORCID_ID"); v != "" {
		c.ORCIDID = v
	}
	if v := os.Getenv("CV_SCHOLAR_ID"); v != "" {
		c.ScholarID = v
	}
	if v := os.Getenv("CV_IMPACTSTORY_ID"); v != "" {
		c.ImpactStoryID = v
	}
}

// Validate checks that the configuration has valid values.
// Required fields are not checked here since defaults are merged after loading.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.ORCIDID != "" && !orcidPattern.MatchString(c.ORCIDID) {
		return fmt.Errorf("config error: 'orcid_id' %q is not a valid ORCID iD", c.ORCIDID)
	}

	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("config error: 'timeout': %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'timeout' must be positive")
		}
	}

	for _, fix := range c.NameFixes {
		if strings.Contains(fix.Replacement, fix.Pattern) || !fix.idempotent() {
			return fmt.Errorf("config error: name fix %q -> %q would not be idempotent", fix.Pattern, fix.Replacement)
		}
	}

	seen := make(map[string]bool)
	for _, item := range c.FragmentOrder {
		if item == "" {
			return fmt.Errorf("config error: 'fragment_order' contains an empty entry")
		}
		if IsSection(item) {
			if seen[item] {
				return fmt.Errorf("config error: section %q appears twice in 'fragment_order'", item)
			}
			seen[item] = true
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.ORCIDID, defaults.ORCIDID)
	fill(&result.ScholarID, defaults.ScholarID)
	fill(&result.ImpactStoryID, defaults.ImpactStoryID)
	fill(&result.ORCIDBaseURL, defaults.ORCIDBaseURL)
	fill(&result.ScholarBaseURL, defaults.ScholarBaseURL)
	fill(&result.ImpactStoryBaseURL, defaults.ImpactStoryBaseURL)
	fill(&result.Timeout, defaults.Timeout)
	fill(&result.PeopleFile, defaults.PeopleFile)
	fill(&result.ServiceFile, defaults.ServiceFile)
	fill(&result.Stylesheet, defaults.Stylesheet)
	fill(&result.OutputDir, defaults.OutputDir)
	fill(&result.OutputName, defaults.OutputName)
	fill(&result.Converter, defaults.Converter)
	fill(&result.PandocPath, defaults.PandocPath)
	fill(&result.PDFEngine, defaults.PDFEngine)
	fill(&result.HighlightName, defaults.HighlightName)
	fill(&result.TeachingBlurb, defaults.TeachingBlurb)
	fill(&result.ServiceBlurb, defaults.ServiceBlurb)
	fill(&result.ServiceMarker, defaults.ServiceMarker)

	// Slice fields: use default if nil
	if result.FragmentOrder == nil {
		result.FragmentOrder = defaults.FragmentOrder
	}
	if result.BadgeAllowList == nil {
		result.BadgeAllowList = defaults.BadgeAllowList
	}
	if result.HiddenFields == nil {
		result.HiddenFields = defaults.HiddenFields
	}
	if result.NameFixes == nil {
		result.NameFixes = defaults.NameFixes
	}
	if result.FunderAliases == nil {
		result.FunderAliases = defaults.FunderAliases
	}

	// Int fields: zero is a meaningful offset, so PublicationOffset is never merged.
	// Bool fields: cannot distinguish unset from false, so CLI flags always win.

	return result
}

// TimeoutDuration returns the parsed per-request timeout, falling back to 20s.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 20 * time.Second
	}
	return d
}

// IsSection reports whether name is a generated section rather than a boilerplate file.
func IsSection(name string) bool {
	for _, s := range Sections {
		if s == name {
			return true
		}
	}
	return false
}
