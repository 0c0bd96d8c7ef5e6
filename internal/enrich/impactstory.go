package enrich

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/academic-cv/internal/fetch"
	"github.com/jonathan/academic-cv/internal/types"
)

// DefaultImpactStoryBaseURL is the ImpactStory API host.
const DefaultImpactStoryBaseURL = "https://impactstory.org"

const serviceImpactStory = "impactstory"

// ImpactStoryClient reads alt-metric badges for an author.
type ImpactStoryClient struct {
	BaseURL string
	Options *fetch.Options
	Logger  *zap.Logger
}

// NewImpactStoryClient creates a client for baseURL (DefaultImpactStoryBaseURL when empty).
func NewImpactStoryClient(baseURL string, opts *fetch.Options, logger *zap.Logger) *ImpactStoryClient {
	if baseURL == "" {
		baseURL = DefaultImpactStoryBaseURL
	}
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImpactStoryClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Options: opts.WithHeader("Accept", "application/json"),
		Logger:  logger,
	}
}

type impactStoryResponse struct {
	Badges *[]struct {
		Name        string   `json:"name"`
		DisplayName string   `json:"display_name"`
		Description string   `json:"description"`
		Context     string   `json:"context"`
		Count       *float64 `json:"count"`
	} `json:"badges"`
}

// Lookup returns the badges ImpactStory awards to id (usually an ORCID iD).
func (c *ImpactStoryClient) Lookup(ctx context.Context, id string) types.Outcome[types.ImpactProfile] {
	if strings.TrimSpace(id) == "" {
		return types.Absent[types.ImpactProfile]("no impactstory id configured")
	}

	apiURL := c.BaseURL + "/api/person/" + url.PathEscape(id)
	c.Logger.Debug("fetching impactstory badges", zap.String("url", apiURL))

	var resp impactStoryResponse
	if err := fetch.JSON(ctx, apiURL, c.Options, &resp); err != nil {
		return types.Failed[types.ImpactProfile](&UnavailableError{
			Service: serviceImpactStory, ID: id, Message: "person request failed", Cause: err,
		})
	}
	if resp.Badges == nil {
		return types.Failed[types.ImpactProfile](&UnavailableError{
			Service: serviceImpactStory, ID: id, Message: "response has no badges field",
		})
	}

	profile := types.ImpactProfile{}
	for _, b := range *resp.Badges {
		if b.Name == "" {
			continue
		}
		badge := types.Badge{
			Name:        b.Name,
			DisplayName: b.DisplayName,
			Description: b.Description,
			Context:     b.Context,
		}
		if badge.DisplayName == "" {
			badge.DisplayName = b.Name
		}
		if b.Count != nil {
			badge.Count = int(*b.Count)
		}
		profile.Badges = append(profile.Badges, badge)
	}
	return types.OK(profile)
}
