package rendering

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/jonathan/academic-cv/internal/bibliography"
	"github.com/jonathan/academic-cv/internal/types"
)

// SummaryInput carries everything the summary table needs.
type SummaryInput struct {
	Profile *types.ProfileRecord
	// Journals and Books are the parsed, deduplicated entries the reference
	// lists show. Every publication count is taken from them.
	Journals []bibliography.Entry
	Books    []bibliography.Entry
	Scholar  types.Outcome[types.ScholarMetrics]
	People   []types.PersonRecord
	// PublicationOffset is added to the journal count, e.g. -2 to leave out errata.
	PublicationOffset int
	Highlight         string
	TeachingBlurb     string
	ServiceBlurb      string
}

type summaryRow struct {
	Label string
	Value string
}

type summaryData struct {
	Rows     []summaryRow
	Teaching string
	Service  string
}

// RenderSummary renders the at-a-glance table. The Citations row appears only
// when Google Scholar metrics loaded; every other row is always present.
func RenderSummary(in SummaryInput) (string, error) {
	if in.Profile == nil {
		return "", &RenderError{Section: "summary", Message: "profile is required"}
	}

	data := summaryData{
		Teaching: in.TeachingBlurb,
		Service:  in.ServiceBlurb,
	}
	data.Rows = append(data.Rows, summaryRow{Label: "Publications", Value: PublicationCount(in)})
	if in.Scholar.Available() {
		data.Rows = append(data.Rows, summaryRow{
			Label: "Citations",
			Value: fmt.Sprintf("%s (h-index %d)", humanize.Comma(int64(in.Scholar.Value.Citations)), in.Scholar.Value.HIndex),
		})
	}
	data.Rows = append(data.Rows,
		summaryRow{Label: "Funding", Value: fundingSummary(in.Profile.Funding)},
		summaryRow{Label: "Mentoring", Value: mentoringSummary(in.People)},
		summaryRow{Label: "Committees", Value: count(len(GroupByStage(in.People)[types.StageCommittee]), "thesis committee", "thesis committees")},
	)
	return execute(summaryTemplate, data)
}

// PublicationCount renders the publications row:
//
//	"{N} journal articles, including {F} as first author; {B} books and chapters"
//
// N is the parsed journal entry count plus the configured offset, never below
// zero. Duplicate or unparsable ORCID citations count nowhere, matching the
// reference list.
func PublicationCount(in SummaryInput) string {
	n := len(in.Journals) + in.PublicationOffset
	if n < 0 {
		n = 0
	}
	return fmt.Sprintf("%d journal articles, including %d as first author; %d books and chapters",
		n, FirstAuthored(in.Journals, in.Highlight), len(in.Books))
}

// FirstAuthored counts entries whose first author is the highlighted name.
func FirstAuthored(entries []bibliography.Entry, highlight string) int {
	if highlight == "" {
		return 0
	}
	n := 0
	for _, e := range entries {
		if len(e.Authors) > 0 && e.Authors[0].MatchesShort(highlight) {
			n++
		}
	}
	return n
}

func fundingSummary(awards []types.FundingAward) string {
	return fmt.Sprintf("$%s across %s", FormatTotal(types.TotalFunding(awards)), count(len(awards), "award", "awards"))
}

func mentoringSummary(people []types.PersonRecord) string {
	groups := GroupByStage(people)
	return fmt.Sprintf("%s, %s, %s",
		count(len(groups[types.StagePostdoc]), "postdoc", "postdocs"),
		count(len(groups[types.StagePhD]), "PhD student", "PhD students"),
		count(len(groups[types.StageUndergrad]), "undergraduate", "undergraduates"))
}

func count(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %s", n, plural)
}
