// Package types provides type definitions for structured data used throughout the academic-cv system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// WorkType tags an ORCID work with the bibliography group it belongs to.
type WorkType string

const (
	// WorkJournalArticle is a peer-reviewed journal article
	WorkJournalArticle WorkType = "journal-article"
	// WorkBook is a monograph or edited volume
	WorkBook WorkType = "book"
	// WorkBookChapter is a chapter in an edited volume
	WorkBookChapter WorkType = "book-chapter"
)

// ParseWorkType maps an ORCID work type to a WorkType.
// The second return value is false for work types the CV does not list.
func ParseWorkType(s string) (WorkType, bool) {
	switch WorkType(strings.ToLower(strings.TrimSpace(s))) {
	case WorkJournalArticle:
		return WorkJournalArticle, true
	case WorkBook:
		return WorkBook, true
	case WorkBookChapter:
		return WorkBookChapter, true
	default:
		return "", false
	}
}

// ProfileRecord is the normalized public record of one researcher.
// It is built once per run by the profile fetcher and never mutated afterwards.
type ProfileRecord struct {
	ORCIDID    string            `json:"orcid_id"`
	Journals   []Citation        `json:"journals"`
	Books      []Citation        `json:"books"`
	Funding    []FundingAward    `json:"funding"`
	Education  []EducationEntry  `json:"education"`
	Employment []EmploymentEntry `json:"employment"`
}

// Citation is a raw bibliographic citation string as exported by ORCID (usually BibTeX).
type Citation struct {
	Text    string   `json:"text"`
	Type    WorkType `json:"type"`
	PutCode int64    `json:"put_code,omitempty"`
}

// FundingAward is one grant or award. Amount is kept as the source string so that
// rendering preserves its precision.
type FundingAward struct {
	Title        string `json:"title"`
	Organization string `json:"organization"`
	Amount       string `json:"amount,omitempty"`
	StartYear    int    `json:"start_year,omitempty"`
}

// Value parses the award amount. ok is false when the amount is missing,
// unparsable, negative or not finite; such awards are excluded from totals.
func (f FundingAward) Value() (v float64, ok bool) {
	s := strings.TrimSpace(strings.ReplaceAll(f.Amount, ",", ""))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// TotalFunding sums the parsable amounts of all awards.
func TotalFunding(awards []FundingAward) float64 {
	var total float64
	for _, a := range awards {
		if v, ok := a.Value(); ok {
			total += v
		}
	}
	return total
}

// Affiliation holds the fields shared by education and employment entries.
// A zero year means the value is absent.
type Affiliation struct {
	Organization string `json:"organization"`
	Role         string `json:"role,omitempty"`
	Department   string `json:"department,omitempty"`
	StartYear    int    `json:"start_year,omitempty"`
	EndYear      int    `json:"end_year,omitempty"`
}

// EducationEntry is a degree or other educational affiliation.
type EducationEntry struct {
	Affiliation
}

// EmploymentEntry is a position held. A zero EndYear means the position is ongoing.
type EmploymentEntry struct {
	Affiliation
}

// Ongoing reports whether the position has no end year.
func (e EmploymentEntry) Ongoing() bool {
	return e.EndYear == 0
}

// SortEducation orders entries by end year, most recent first. Ties keep their input order.
func SortEducation(entries []EducationEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].EndYear > entries[j].EndYear
	})
}

// SortEmployment orders entries by start year, most recent first. Ties keep their input order.
func SortEmployment(entries []EmploymentEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartYear > entries[j].StartYear
	})
}

// SortFunding orders awards by start year, most recent first. Ties keep their input order.
func SortFunding(awards []FundingAward) {
	sort.SliceStable(awards, func(i, j int) bool {
		return awards[i].StartYear > awards[j].StartYear
	})
}
