package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/academic-cv/internal/types"
)

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	profile := &types.ProfileRecord{
		ORCIDID:  "0000-0002-1825-0097",
		Journals: make([]types.Citation, 12),
		Books:    make([]types.Citation, 2),
		Employment: []types.EmploymentEntry{
			{Affiliation: types.Affiliation{Organization: "Brown University", Role: "Professor"}},
		},
	}

	p.PrintProfile(profile)
	output := buf.String()

	assert.Contains(t, output, "ORCID PROFILE")
	assert.Contains(t, output, "0000-0002-1825-0097")
	assert.Contains(t, output, "Journals:   12")
	assert.Contains(t, output, "Professor, Brown University")
}

func TestPrintProfile_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProfile(nil)
	assert.Empty(t, buf.String())
}

func TestPrintEnrichment_DistinguishesOutcomes(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintEnrichment(
		types.Failed[types.ScholarMetrics](errors.New("status 429")),
		types.Absent[types.ImpactProfile]("no impactstory id"),
	)
	output := buf.String()

	assert.Contains(t, output, "Google Scholar: ⚠ failed: status 429")
	assert.Contains(t, output, "ImpactStory:    – absent (no impactstory id)")
}

func TestPrintEnrichment_OK(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintEnrichment(
		types.OK(types.ScholarMetrics{Citations: 100, HIndex: 7}),
		types.OK(types.ImpactProfile{Badges: []types.Badge{{Name: "global_reach"}}}),
	)
	output := buf.String()

	assert.Contains(t, output, "citations 100, h-index 7")
	assert.Contains(t, output, "• global_reach")
}

func TestPrintSections(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSections([]string{"summary", "education"}, map[string]error{"people": errors.New("missing columns")})
	output := buf.String()

	assert.Contains(t, output, "Rendered 2 sections")
	assert.Contains(t, output, "✓ education")
	assert.Contains(t, output, "⚠ people: missing columns")
}

func TestPrintOutputs(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintOutputs("build/cv.html", "build/cv.pdf")
	assert.Contains(t, buf.String(), "HTML: build/cv.html")
	assert.Contains(t, buf.String(), "PDF:  build/cv.pdf")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).printBox("TITLE", strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, buf.String(), "...")
}
