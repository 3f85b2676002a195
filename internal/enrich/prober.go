// Package enrich augments leads with website reachability, contact emails,
// and topical tags.
package enrich

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// defaultUserAgent mimics a real browser; some sites reject default Go or
// empty user agents outright.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// maxBodyBytes caps how much of a response body the prober reads.
const maxBodyBytes = 512 * 1024

// Prober checks website reachability with a single bounded-timeout GET.
// Enrichment is best-effort, so there are no retries: one network attempt
// per lead.
type Prober struct {
	client    *http.Client
	userAgent string
}

// NewProber creates a Prober whose requests time out after the given
// duration.
func NewProber(timeout time.Duration) *Prober {
	return &Prober{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: timeout,
				}).DialContext,
				TLSHandshakeTimeout: timeout,
			},
		},
		userAgent: defaultUserAgent,
	}
}

// Probe issues one GET against rawURL. Reachable is true iff the response
// completes within the timeout with HTTP 200. Network errors, timeouts, DNS
// failures, and non-200 statuses all yield an unreachable result rather
// than an error; a single lead's dead website never fails a batch.
func (p *Prober) Probe(ctx context.Context, rawURL string) model.ProbeResult {
	target, err := CanonicalURL(rawURL)
	if err != nil {
		zap.L().Debug("probe: invalid url", zap.String("url", rawURL), zap.Error(err))
		return model.ProbeResult{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return model.ProbeResult{}
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		zap.L().Debug("probe: request failed", zap.String("url", target), zap.Error(err))
		return model.ProbeResult{}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return model.ProbeResult{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		zap.L().Debug("probe: read body failed", zap.String("url", target), zap.Error(err))
		return model.ProbeResult{StatusCode: resp.StatusCode}
	}

	return model.ProbeResult{
		Reachable:  true,
		StatusCode: resp.StatusCode,
		Body:       body,
	}
}

// CanonicalURL prepends https:// when the URL lacks a scheme and validates
// that it parses.
func CanonicalURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
