// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/academic-cv/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintProfile outputs a digest of the fetched ORCID record.
func (p *Printer) PrintProfile(profile *types.ProfileRecord) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ORCID:      %s\n", profile.ORCIDID))
	sb.WriteString(fmt.Sprintf("Journals:   %d\n", len(profile.Journals)))
	sb.WriteString(fmt.Sprintf("Books:      %d\n", len(profile.Books)))
	sb.WriteString(fmt.Sprintf("Funding:    %d awards\n", len(profile.Funding)))
	sb.WriteString(fmt.Sprintf("Education:  %d\n", len(profile.Education)))
	sb.WriteString(fmt.Sprintf("Employment: %d\n", len(profile.Employment)))

	if len(profile.Employment) > 0 {
		sb.WriteString("\nPositions:\n")
		count := min(len(profile.Employment), maxItemsToShow)
		for i := 0; i < count; i++ {
			e := profile.Employment[i]
			sb.WriteString(fmt.Sprintf("  • %s, %s\n", e.Role, e.Organization))
		}
		if len(profile.Employment) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Employment)-maxItemsToShow))
		}
	}

	p.printBox("ORCID PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEnrichment outputs how each optional metrics lookup ended, so a service
// outage is never mistaken for an author with no metrics.
func (p *Printer) PrintEnrichment(scholar types.Outcome[types.ScholarMetrics], impact types.Outcome[types.ImpactProfile]) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Google Scholar: %s\n", outcomeLabel(scholar.Status, scholar.Reason, scholar.Err)))
	if scholar.Available() {
		sb.WriteString(fmt.Sprintf("  citations %d, h-index %d\n", scholar.Value.Citations, scholar.Value.HIndex))
	}

	sb.WriteString(fmt.Sprintf("ImpactStory:    %s\n", outcomeLabel(impact.Status, impact.Reason, impact.Err)))
	if impact.Available() {
		count := min(len(impact.Value.Badges), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", impact.Value.Badges[i].Name))
		}
		if len(impact.Value.Badges) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(impact.Value.Badges)-maxItemsToShow))
		}
	}

	p.printBox("METRICS", strings.TrimSuffix(sb.String(), "\n"))
}

func outcomeLabel(status types.Status, reason string, err error) string {
	switch status {
	case types.StatusOK:
		return "✓ ok"
	case types.StatusAbsent:
		return "– absent (" + reason + ")"
	default:
		if err != nil {
			return "⚠ failed: " + err.Error()
		}
		return "⚠ failed"
	}
}

// PrintSections outputs which sections were rendered and which were skipped.
func (p *Printer) PrintSections(rendered []string, skipped map[string]error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Rendered %d sections:\n", len(rendered)))
	for _, name := range rendered {
		sb.WriteString(fmt.Sprintf("  ✓ %s\n", name))
	}
	if len(skipped) > 0 {
		sb.WriteString(fmt.Sprintf("\nSkipped %d sections:\n", len(skipped)))
		for name, err := range skipped {
			sb.WriteString(fmt.Sprintf("  ⚠ %s: %v\n", name, err))
		}
	}
	p.printBox("SECTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintOutputs outputs the paths of the generated documents.
func (p *Printer) PrintOutputs(html, pdf string) {
	p.printBox("OUTPUTS", fmt.Sprintf("HTML: %s\nPDF:  %s", html, pdf))
}
