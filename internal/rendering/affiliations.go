package rendering

import (
	"strconv"
	"strings"

	"github.com/jonathan/academic-cv/internal/types"
)

type listData struct {
	Lines []string
}

// RenderEducation renders one bullet per degree, most recent first:
//
//	- 2012 **PhD**, Department of Biology, Brown University
func RenderEducation(entries []types.EducationEntry) (string, error) {
	sorted := append([]types.EducationEntry(nil), entries...)
	types.SortEducation(sorted)

	data := listData{Lines: make([]string, 0, len(sorted))}
	for _, e := range sorted {
		year := ""
		if e.EndYear > 0 {
			year = strconv.Itoa(e.EndYear)
		}
		data.Lines = append(data.Lines, affiliationLine(year, e.Affiliation))
	}
	return execute(educationTemplate, data)
}

// RenderEmployment renders one bullet per position, most recent start first.
// Positions without an end year read "Present".
func RenderEmployment(entries []types.EmploymentEntry) (string, error) {
	sorted := append([]types.EmploymentEntry(nil), entries...)
	types.SortEmployment(sorted)

	data := listData{Lines: make([]string, 0, len(sorted))}
	for _, e := range sorted {
		end := "Present"
		if !e.Ongoing() {
			end = strconv.Itoa(e.EndYear)
		}
		span := end
		if e.StartYear > 0 {
			span = strconv.Itoa(e.StartYear) + "–" + end
		}
		data.Lines = append(data.Lines, affiliationLine(span, e.Affiliation))
	}
	return execute(employmentTemplate, data)
}

func affiliationLine(when string, a types.Affiliation) string {
	var parts []string
	if when != "" {
		parts = append(parts, when)
	}
	place := EscapeMarkdown(a.Organization)
	if a.Department != "" {
		place = EscapeMarkdown(a.Department) + ", " + place
	}
	if a.Role != "" {
		parts = append(parts, "**"+EscapeMarkdown(a.Role)+"**,", place)
	} else {
		parts = append(parts, place)
	}
	return strings.Join(parts, " ")
}
