// Package serpapi wraps the SerpAPI google_maps engine as a lead source.
package serpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/model"
)

const defaultBaseURL = "https://serpapi.com/search.json"

// Client performs SerpAPI local-results searches.
type Client interface {
	Search(ctx context.Context, query, location string) ([]model.Lead, error)
}

// localResult is one entry of SerpAPI's local_results array.
type localResult struct {
	Title   string   `json:"title"`
	Address string   `json:"address"`
	Phone   string   `json:"phone"`
	Rating  *float64 `json:"rating"`
	Reviews *int     `json:"reviews"`
	Type    string   `json:"type"`
	Website string   `json:"website"`
}

type searchResponse struct {
	LocalResults []localResult `json:"local_results"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a SerpAPI client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, query, location string) ([]model.Lead, error) {
	params := url.Values{}
	params.Set("engine", "google_maps")
	params.Set("q", query)
	params.Set("location", location)
	params.Set("api_key", c.apiKey)
	params.Set("type", "search")
	params.Set("hl", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "serpapi: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "serpapi: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "serpapi: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("serpapi: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "serpapi: decode response")
	}

	leads := make([]model.Lead, 0, len(result.LocalResults))
	for _, r := range result.LocalResults {
		if strings.TrimSpace(r.Title) == "" {
			continue
		}
		leads = append(leads, model.Lead{
			Name:        strings.TrimSpace(r.Title),
			Address:     r.Address,
			Phone:       r.Phone,
			Website:     r.Website,
			Category:    r.Type,
			Rating:      r.Rating,
			ReviewCount: r.Reviews,
			Source:      model.SourceGoogleMaps,
		})
	}
	return leads, nil
}
