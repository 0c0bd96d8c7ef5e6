package enrich

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jonathan/academic-cv/internal/fetch"
	"github.com/jonathan/academic-cv/internal/types"
)

// DefaultScholarBaseURL is the Google Scholar host.
const DefaultScholarBaseURL = "https://scholar.google.com"

const serviceScholar = "scholar"

var errStatsMissing = errors.New("citation stats table not found")

// ScholarClient reads citation totals from a public Google Scholar profile page.
type ScholarClient struct {
	BaseURL string
	Options *fetch.Options
	Logger  *zap.Logger
}

// NewScholarClient creates a client for baseURL (DefaultScholarBaseURL when empty).
func NewScholarClient(baseURL string, opts *fetch.Options, logger *zap.Logger) *ScholarClient {
	if baseURL == "" {
		baseURL = DefaultScholarBaseURL
	}
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScholarClient{BaseURL: strings.TrimRight(baseURL, "/"), Options: opts, Logger: logger}
}

// Lookup returns the all-time citation count and h-index for a Scholar user id.
func (c *ScholarClient) Lookup(ctx context.Context, userID string) types.Outcome[types.ScholarMetrics] {
	if strings.TrimSpace(userID) == "" {
		return types.Absent[types.ScholarMetrics]("no scholar id configured")
	}

	pageURL := c.BaseURL + "/citations?hl=en&user=" + url.QueryEscape(userID)
	c.Logger.Debug("fetching scholar profile", zap.String("url", pageURL))

	doc, err := fetch.Document(ctx, pageURL, c.Options)
	if err != nil {
		return types.Failed[types.ScholarMetrics](&UnavailableError{
			Service: serviceScholar, ID: userID, Message: "profile request failed", Cause: err,
		})
	}

	metrics, err := parseScholarStats(doc)
	if err != nil {
		return types.Failed[types.ScholarMetrics](&UnavailableError{
			Service: serviceScholar, ID: userID, Message: "profile page not understood", Cause: err,
		})
	}
	return types.OK(metrics)
}

// parseScholarStats reads the "All" column of the citation stats table (#gsc_rsb_st).
func parseScholarStats(doc *goquery.Document) (types.ScholarMetrics, error) {
	var metrics types.ScholarMetrics
	found := map[string]bool{}
	var parseErr error

	doc.Find("#gsc_rsb_st tbody tr").Each(func(_ int, row *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(row.Find("td.gsc_rsb_sc1").Text()))
		value := strings.TrimSpace(row.Find("td.gsc_rsb_std").First().Text())
		if label == "" || value == "" {
			return
		}
		n, err := strconv.Atoi(strings.ReplaceAll(value, ",", ""))
		if err != nil {
			parseErr = fmt.Errorf("non-numeric %s value %q", label, value)
			return
		}
		switch {
		case strings.HasPrefix(label, "citations"):
			metrics.Citations = n
			found["citations"] = true
		case strings.HasPrefix(label, "h-index"):
			metrics.HIndex = n
			found["h-index"] = true
		}
	})

	if parseErr != nil {
		return metrics, parseErr
	}
	if !found["citations"] || !found["h-index"] {
		return metrics, errStatsMissing
	}
	return metrics, nil
}
