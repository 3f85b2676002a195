// Package yelp scrapes business leads from Yelp's public search pages.
package yelp

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

const (
	defaultBaseURL   = "https://www.yelp.com"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Scraper fetches and parses Yelp search result pages.
type Scraper struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// Option configures the scraper.
type Option func(*Scraper)

// WithBaseURL overrides the default Yelp base URL.
func WithBaseURL(url string) Option {
	return func(s *Scraper) {
		s.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Scraper) {
		s.http = hc
	}
}

// NewScraper creates a Yelp scraper.
func NewScraper(opts ...Option) *Scraper {
	s := &Scraper{
		baseURL:   defaultBaseURL,
		userAgent: defaultUserAgent,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Search fetches the public search page for query/location and parses
// business cards into leads. Cards without a name are skipped; per-card
// parse failures skip the card rather than failing the search.
func (s *Scraper) Search(ctx context.Context, query, location string) ([]model.Lead, error) {
	params := url.Values{}
	params.Set("find_desc", query)
	params.Set("find_loc", location)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "yelp: create request")
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "yelp: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("yelp: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "yelp: parse page")
	}

	var leads []model.Lead
	doc.Find(`div[data-testid="serp-ia-card"]`).Each(func(_ int, card *goquery.Selection) {
		lead, ok := parseCard(card)
		if !ok {
			return
		}
		leads = append(leads, lead)
	})

	zap.L().Debug("yelp search parsed",
		zap.String("query", query),
		zap.String("location", location),
		zap.Int("leads", len(leads)))

	return leads, nil
}

func parseCard(card *goquery.Selection) (model.Lead, bool) {
	name := strings.TrimSpace(card.Find(`a[data-testid="business-link"]`).First().Text())
	if name == "" {
		// Older markup puts the name in the first heading link.
		name = strings.TrimSpace(card.Find("h3 a").First().Text())
	}
	if name == "" {
		return model.Lead{}, false
	}

	lead := model.Lead{
		Name:   name,
		Source: model.SourceYelp,
	}

	if category := strings.TrimSpace(card.Find(`span[data-testid="business-category"]`).First().Text()); category != "" {
		lead.Category = category
	}

	// Ratings are exposed through the aria-label, e.g. "4.5 star rating".
	if label, exists := card.Find(`span[aria-label$="star rating"]`).First().Attr("aria-label"); exists {
		if fields := strings.Fields(label); len(fields) > 0 {
			if rating, err := strconv.ParseFloat(fields[0], 64); err == nil {
				lead.Rating = &rating
			}
		}
	}

	return lead, true
}
