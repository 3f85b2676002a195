package enrich

import (
	"bytes"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// emailRe is a deliberately permissive email-shaped pattern. The first match
// in document order wins; picking the "best" of many candidates would make
// extraction order-dependent on heuristics instead of the document.
var emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// minTagLen filters out noise tokens after trimming; anything two
// characters or shorter ("ny", "a", "of") is dropped.
const minTagLen = 2

// Extractor pulls a contact email and topical tags out of fetched HTML.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract scans body for the first email-shaped string and collects tags
// from <meta name="keywords"> and <meta name="description"> content
// attributes. Tags are comma-split, trimmed, lowercased, longer than two
// characters, deduplicated, and returned sorted for stable output.
// Malformed HTML never produces an error; it just yields empty results.
func (e *Extractor) Extract(body []byte) (email string, tags []string) {
	email = emailRe.FindString(string(body))

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return email, nil
	}

	seen := make(map[string]bool)
	doc.Find(`meta[name="keywords"], meta[name="description"]`).Each(func(_ int, sel *goquery.Selection) {
		content, ok := sel.Attr("content")
		if !ok {
			return
		}
		for _, token := range strings.Split(content, ",") {
			tag := strings.ToLower(strings.TrimSpace(token))
			if len(tag) <= minTagLen || seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
		}
	})

	sort.Strings(tags)
	return email, tags
}
