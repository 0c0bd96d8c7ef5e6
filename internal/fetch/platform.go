// Package fetch - platform.go recognizes the upstream services the CV draws on.
package fetch

import (
	"net/url"
	"strings"
)

// Service represents a known upstream data source.
type Service string

const (
	// ServiceORCID is the ORCID public API
	ServiceORCID Service = "orcid"
	// ServiceScholar is Google Scholar
	ServiceScholar Service = "scholar"
	// ServiceImpactStory is the ImpactStory alt-metrics API
	ServiceImpactStory Service = "impactstory"
	// ServiceUnknown is an unrecognized host
	ServiceUnknown Service = "unknown"
)

// DetectService identifies the upstream service from a URL.
func DetectService(urlStr string) Service {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return ServiceUnknown
	}

	host := strings.ToLower(parsed.Hostname())

	switch {
	case strings.HasSuffix(host, "orcid.org"):
		return ServiceORCID
	case strings.HasPrefix(host, "scholar.google."):
		return ServiceScholar
	case strings.HasSuffix(host, "impactstory.org"):
		return ServiceImpactStory
	default:
		return ServiceUnknown
	}
}

// ServiceHeaders returns the request headers a service needs.
func ServiceHeaders(service Service) map[string]string {
	switch service {
	case ServiceORCID, ServiceImpactStory:
		return map[string]string{
			"Accept": "application/json",
		}
	case ServiceScholar:
		// Scholar serves a consent page to clients that do not look like a browser
		return map[string]string{
			"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0",
			"Accept":          "text/html,application/xhtml+xml",
			"Accept-Language": "en-US,en;q=0.8",
		}
	default:
		return nil
	}
}
