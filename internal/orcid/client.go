// Package orcid fetches a researcher's public record from the ORCID API and
// normalizes it into a types.ProfileRecord.
package orcid

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/academic-cv/internal/fetch"
	"github.com/jonathan/academic-cv/internal/schemas"
	"github.com/jonathan/academic-cv/internal/types"
)

// DefaultBaseURL is the ORCID public API host.
const DefaultBaseURL = "https://pub.orcid.org"

// maxBulkWorks is the largest number of put-codes ORCID accepts in one bulk works request.
const maxBulkWorks = 100

// ORCID iD: four blocks of four digits, the last character may be X.
var idPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)

// ValidID reports whether id has the ORCID iD shape.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Client handles ORCID requests.
type Client struct {
	baseURL string
	options *fetch.Options
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API host, e.g. the sandbox or a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithFetchOptions sets the HTTP options used for every request.
func WithFetchOptions(opts *fetch.Options) Option {
	return func(c *Client) { c.options = opts }
}

// WithLogger sets a custom logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates an ORCID client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		options: fetch.DefaultOptions(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.options == nil {
		c.options = fetch.DefaultOptions()
	}
	// Mirrors and proxies answer with XML unless asked for JSON.
	c.options = c.options.WithHeader("Accept", "application/json")
	return c
}

// Fetch retrieves and normalizes the public record of orcidID.
// Every failure is an *UpstreamError.
func (c *Client) Fetch(ctx context.Context, orcidID string) (*types.ProfileRecord, error) {
	if !ValidID(orcidID) {
		return nil, &UpstreamError{ORCIDID: orcidID, Message: "malformed ORCID iD"}
	}

	c.logger.Info("fetching orcid activities", zap.String("orcid", orcidID))

	var activities activitiesResponse
	if err := c.get(ctx, orcidID, "/activities", schemas.ORCIDActivities, &activities); err != nil {
		return nil, err
	}

	record := &types.ProfileRecord{ORCIDID: orcidID}
	record.Education = educationEntries(&activities)
	record.Employment = employmentEntries(&activities)

	citations, err := c.fetchCitations(ctx, orcidID, workCodes(&activities))
	if err != nil {
		return nil, err
	}
	for _, cite := range citations {
		if cite.Type == types.WorkJournalArticle {
			record.Journals = append(record.Journals, cite)
		} else {
			record.Books = append(record.Books, cite)
		}
	}

	record.Funding, err = c.fetchFunding(ctx, orcidID, &activities)
	if err != nil {
		return nil, err
	}

	types.SortEducation(record.Education)
	types.SortEmployment(record.Employment)

	c.logger.Info("orcid record normalized",
		zap.String("orcid", orcidID),
		zap.Int("journals", len(record.Journals)),
		zap.Int("books", len(record.Books)),
		zap.Int("funding", len(record.Funding)),
		zap.Int("education", len(record.Education)),
		zap.Int("employment", len(record.Employment)))

	return record, nil
}

// get reads {base}/v3.0/{id}{path}, checks it against schema and decodes it into v.
func (c *Client) get(ctx context.Context, orcidID, path, schema string, v any) error {
	url := fmt.Sprintf("%s/v3.0/%s%s", c.baseURL, orcidID, path)

	result, err := fetch.URL(ctx, url, c.options)
	if err != nil {
		return &UpstreamError{ORCIDID: orcidID, Message: "request " + path + " failed", Cause: err}
	}

	if err := schemas.Validate(schema, result.Body); err != nil {
		return &UpstreamError{ORCIDID: orcidID, Message: "malformed " + path + " payload", Cause: err}
	}

	if err := json.Unmarshal(result.Body, v); err != nil {
		return &UpstreamError{ORCIDID: orcidID, Message: "failed to decode " + path, Cause: err}
	}
	return nil
}

// workCodes returns the preferred put-code of each work group whose type the CV lists.
func workCodes(a *activitiesResponse) []int64 {
	var codes []int64
	for _, group := range a.Works.Groups {
		if len(group.Summaries) == 0 {
			continue
		}
		// ORCID lists the preferred version of a grouped work first
		summary := group.Summaries[0]
		if _, ok := types.ParseWorkType(summary.Type); !ok {
			continue
		}
		codes = append(codes, summary.PutCode)
	}
	return codes
}

func (c *Client) fetchCitations(ctx context.Context, orcidID string, codes []int64) ([]types.Citation, error) {
	var citations []types.Citation

	for start := 0; start < len(codes); start += maxBulkWorks {
		end := min(start+maxBulkWorks, len(codes))
		parts := make([]string, 0, end-start)
		for _, code := range codes[start:end] {
			parts = append(parts, strconv.FormatInt(code, 10))
		}

		var works worksResponse
		if err := c.get(ctx, orcidID, "/works/"+strings.Join(parts, ","), schemas.ORCIDWorks, &works); err != nil {
			return nil, err
		}

		for _, item := range works.Bulk {
			if item.Work == nil {
				continue
			}
			workType, ok := types.ParseWorkType(item.Work.Type)
			if !ok {
				continue
			}
			if item.Work.Citation == nil || strings.TrimSpace(item.Work.Citation.Value) == "" {
				c.logger.Debug("work has no citation", zap.Int64("put_code", item.Work.PutCode))
				continue
			}
			citations = append(citations, types.Citation{
				Text:    item.Work.Citation.Value,
				Type:    workType,
				PutCode: item.Work.PutCode,
			})
		}
	}

	return citations, nil
}

// fetchFunding reads each funding record for its amount, which summaries omit.
func (c *Client) fetchFunding(ctx context.Context, orcidID string, a *activitiesResponse) ([]types.FundingAward, error) {
	var awards []types.FundingAward
	for _, group := range a.Fundings.Groups {
		if len(group.Summaries) == 0 {
			continue
		}
		summary := group.Summaries[0]

		var detail fundingResponse
		path := fmt.Sprintf("/funding/%d", summary.PutCode)
		if err := c.get(ctx, orcidID, path, schemas.ORCIDFunding, &detail); err != nil {
			return nil, err
		}

		award := types.FundingAward{
			Title:        detail.Title.text(),
			Organization: detail.Organization.Name,
			StartYear:    detail.StartDate.year(),
		}
		if award.Title == "" {
			award.Title = summary.Title.text()
		}
		if award.StartYear == 0 {
			award.StartYear = summary.StartDate.year()
		}
		if detail.Amount != nil {
			award.Amount = detail.Amount.Value
		}
		awards = append(awards, award)
	}
	return awards, nil
}

func educationEntries(a *activitiesResponse) []types.EducationEntry {
	var entries []types.EducationEntry
	for _, group := range a.Educations.Groups {
		for _, s := range group.Summaries {
			if s.Education != nil {
				entries = append(entries, types.EducationEntry{Affiliation: toAffiliation(s.Education)})
			}
		}
	}
	return entries
}

func employmentEntries(a *activitiesResponse) []types.EmploymentEntry {
	var entries []types.EmploymentEntry
	for _, group := range a.Employments.Groups {
		for _, s := range group.Summaries {
			if s.Employment != nil {
				entries = append(entries, types.EmploymentEntry{Affiliation: toAffiliation(s.Employment)})
			}
		}
	}
	return entries
}

func toAffiliation(s *affiliationSummary) types.Affiliation {
	return types.Affiliation{
		Organization: strings.TrimSpace(s.Organization.Name),
		Role:         strings.TrimSpace(s.RoleTitle),
		Department:   strings.TrimSpace(s.DepartmentName),
		StartYear:    s.StartDate.year(),
		EndYear:      s.EndDate.year(),
	}
}
