package orcid

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/academic-cv/internal/fetch"
	"github.com/jonathan/academic-cv/internal/types"
)

const testID = "0000-0002-1825-0097"

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func newORCIDServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func fullRoutes(t *testing.T) map[string]string {
	return map[string]string{
		"/v3.0/" + testID + "/activities": string(readFixture(t, "activities.json")),
		"/v3.0/" + testID + "/works/1,2,4": string(readFixture(t, "works.json")),
		"/v3.0/" + testID + "/funding/10": `{"title": {"title": {"value": "Big grant"}}, "organization": {"name": "National Science Foundation"}, "amount": {"value": "1500000", "currency-code": "USD"}, "start-date": {"year": {"value": "2018"}}}`,
		"/v3.0/" + testID + "/funding/11": `{"title": {"title": {"value": "Small grant"}}, "organization": {"name": "Local Trust"}, "amount": null}`,
	}
}

func TestFetch_AsksForJSONFromAnyHost(t *testing.T) {
	routes := fullRoutes(t)
	var accepts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accepts = append(accepts, r.Header.Get("Accept"))
		if r.Header.Get("Accept") != "application/json" {
			w.WriteHeader(http.StatusNotAcceptable)
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	client := New(WithBaseURL(server.URL), WithFetchOptions(fetch.DefaultOptions()))
	_, err := client.Fetch(context.Background(), testID)
	require.NoError(t, err)

	require.NotEmpty(t, accepts)
	for _, accept := range accepts {
		assert.Equal(t, "application/json", accept)
	}
}

func TestFetch_NormalizesRecord(t *testing.T) {
	server := newORCIDServer(t, fullRoutes(t))

	record, err := New(WithBaseURL(server.URL)).Fetch(context.Background(), testID)
	require.NoError(t, err)

	assert.Equal(t, testID, record.ORCIDID)

	require.Len(t, record.Journals, 1)
	assert.Equal(t, types.WorkJournalArticle, record.Journals[0].Type)
	assert.Contains(t, record.Journals[0].Text, "@article{a1")
	require.Len(t, record.Books, 1)
	assert.Equal(t, types.WorkBookChapter, record.Books[0].Type)

	require.Len(t, record.Education, 2)
	assert.Equal(t, "PhD", record.Education[0].Role)
	assert.Equal(t, 2007, record.Education[0].EndYear)
	assert.Equal(t, "Department of Biology", record.Education[0].Department)
	assert.Equal(t, "BSc", record.Education[1].Role)

	require.Len(t, record.Employment, 2)
	assert.Equal(t, "Associate Professor", record.Employment[0].Role)
	assert.True(t, record.Employment[0].Ongoing())
	assert.Equal(t, 2010, record.Employment[1].EndYear)

	require.Len(t, record.Funding, 2)
	assert.Equal(t, "1500000", record.Funding[0].Amount)
	assert.Equal(t, "National Science Foundation", record.Funding[0].Organization)
	assert.Equal(t, 2018, record.Funding[0].StartYear)
	assert.Empty(t, record.Funding[1].Amount)
	assert.Equal(t, 2020, record.Funding[1].StartYear, "start year falls back to the summary")
}

func TestFetch_InvalidID(t *testing.T) {
	_, err := New().Fetch(context.Background(), "1234")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
	assert.Contains(t, err.Error(), "malformed ORCID iD")
}

func TestFetch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := New(WithBaseURL(server.URL)).Fetch(context.Background(), testID)
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, testID, upstream.ORCIDID)
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
	assert.Contains(t, err.Error(), "503")
}

func TestFetch_MalformedPayload(t *testing.T) {
	server := newORCIDServer(t, map[string]string{
		"/v3.0/" + testID + "/activities": `{"works": {"group": []}}`,
	})

	_, err := New(WithBaseURL(server.URL)).Fetch(context.Background(), testID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
	assert.Contains(t, err.Error(), "malformed /activities payload")
}

func TestFetch_FundingDetailMissing(t *testing.T) {
	routes := fullRoutes(t)
	delete(routes, "/v3.0/"+testID+"/funding/11")
	server := newORCIDServer(t, routes)

	_, err := New(WithBaseURL(server.URL)).Fetch(context.Background(), testID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
}

func TestFetch_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(WithBaseURL(url)).Fetch(context.Background(), testID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
}

func TestWorkCodes_BatchesRespectLimit(t *testing.T) {
	var a activitiesResponse
	for i := 0; i < 250; i++ {
		a.Works.Groups = append(a.Works.Groups, struct {
			Summaries []workSummary `json:"work-summary"`
		}{Summaries: []workSummary{{PutCode: int64(i), Type: "journal-article"}}})
	}

	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Path)
		_, _ = w.Write([]byte(`{"bulk": []}`))
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL))
	_, err := c.fetchCitations(context.Background(), testID, workCodes(&a))
	require.NoError(t, err)
	assert.Len(t, requests, 3)
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("0000-0002-1825-0097"))
	assert.True(t, ValidID("0000-0002-1694-233X"))
	assert.False(t, ValidID("0000-0002-1825"))
	assert.False(t, ValidID("https://orcid.org/0000-0002-1825-0097"))
}
