package orcid

import (
	"strconv"
	"strings"
)

// valueField is ORCID's {"value": "..."} wrapper.
type valueField struct {
	Value string `json:"value"`
}

type date struct {
	Year *valueField `json:"year"`
}

// year returns the year of an ORCID fuzzy date, or 0 when absent.
func (d *date) year() int {
	if d == nil || d.Year == nil {
		return 0
	}
	y, err := strconv.Atoi(strings.TrimSpace(d.Year.Value))
	if err != nil {
		return 0
	}
	return y
}

type organization struct {
	Name string `json:"name"`
}

type affiliationSummary struct {
	DepartmentName string       `json:"department-name"`
	RoleTitle      string       `json:"role-title"`
	StartDate      *date        `json:"start-date"`
	EndDate        *date        `json:"end-date"`
	Organization   organization `json:"organization"`
}

type affiliationGroup struct {
	Summaries []struct {
		Education  *affiliationSummary `json:"education-summary"`
		Employment *affiliationSummary `json:"employment-summary"`
	} `json:"summaries"`
}

type fundingSummary struct {
	PutCode      int64        `json:"put-code"`
	Title        fundingTitle `json:"title"`
	Organization organization `json:"organization"`
	StartDate    *date        `json:"start-date"`
}

type fundingTitle struct {
	Title *valueField `json:"title"`
}

func (t fundingTitle) text() string {
	if t.Title == nil {
		return ""
	}
	return strings.TrimSpace(t.Title.Value)
}

type workSummary struct {
	PutCode int64  `json:"put-code"`
	Type    string `json:"type"`
}

// activitiesResponse is the subset of /activities the fetcher reads.
type activitiesResponse struct {
	Educations struct {
		Groups []affiliationGroup `json:"affiliation-group"`
	} `json:"educations"`
	Employments struct {
		Groups []affiliationGroup `json:"affiliation-group"`
	} `json:"employments"`
	Fundings struct {
		Groups []struct {
			Summaries []fundingSummary `json:"funding-summary"`
		} `json:"group"`
	} `json:"fundings"`
	Works struct {
		Groups []struct {
			Summaries []workSummary `json:"work-summary"`
		} `json:"group"`
	} `json:"works"`
}

// worksResponse is the bulk /works/{codes} response.
type worksResponse struct {
	Bulk []struct {
		Work *struct {
			PutCode  int64  `json:"put-code"`
			Type     string `json:"type"`
			Citation *struct {
				Type  string `json:"citation-type"`
				Value string `json:"citation-value"`
			} `json:"citation"`
		} `json:"work"`
	} `json:"bulk"`
}

// fundingResponse is a single /funding/{code} record.
type fundingResponse struct {
	Title        fundingTitle `json:"title"`
	Organization organization `json:"organization"`
	StartDate    *date        `json:"start-date"`
	Amount       *struct {
		Value    string `json:"value"`
		Currency string `json:"currency-code"`
	} `json:"amount"`
}
