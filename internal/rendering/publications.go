package rendering

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/jonathan/academic-cv/internal/bibliography"
	"github.com/jonathan/academic-cv/internal/types"
)

// PublicationsInput carries everything the publications section needs.
type PublicationsInput struct {
	Scholar        types.Outcome[types.ScholarMetrics]
	Impact         types.Outcome[types.ImpactProfile]
	BadgeAllowList []string
	Papers         []bibliography.Entry
	Books          []bibliography.Entry
	Style          *bibliography.Style
}

type publicationsData struct {
	Scholar string
	Badges  []string
	Papers  []string
	Books   []string
}

// NewReferenceStyle returns the reference style used in CV sections, with
// Markdown escaping applied to free text.
func NewReferenceStyle(highlight string, hidden []string) *bibliography.Style {
	return bibliography.NewStyle(highlight, hidden, EscapeMarkdown)
}

// RenderPublications renders the optional metrics lead-in followed by the
// paper and book reference lists. Metrics that did not load are left out.
func RenderPublications(in PublicationsInput) (string, error) {
	style := in.Style
	if style == nil {
		style = NewReferenceStyle("", nil)
	}

	var data publicationsData
	if in.Scholar.Available() {
		data.Scholar = ScholarSentence(in.Scholar.Value)
	}
	if in.Impact.Available() {
		for _, b := range in.Impact.Value.Filter(in.BadgeAllowList) {
			data.Badges = append(data.Badges, badgeLine(b))
		}
	}
	for _, e := range in.Papers {
		data.Papers = append(data.Papers, style.Format(e))
	}
	for _, e := range in.Books {
		data.Books = append(data.Books, style.Format(e))
	}
	return execute(publicationsTemplate, data)
}

// ScholarSentence summarizes the Google Scholar totals in one line.
func ScholarSentence(m types.ScholarMetrics) string {
	return fmt.Sprintf("Google Scholar lists %s citations of my work, with an h-index of %d.",
		humanize.Comma(int64(m.Citations)), m.HIndex)
}

func badgeLine(b types.Badge) string {
	line := "**" + EscapeMarkdown(b.DisplayName) + "**"
	if b.Count > 0 {
		line += " (" + strconv.Itoa(b.Count) + ")"
	}
	if b.Description != "" {
		line += ": " + EscapeMarkdown(b.Description)
	}
	if b.Context != "" {
		line += " " + EscapeMarkdown(b.Context)
	}
	return line
}
