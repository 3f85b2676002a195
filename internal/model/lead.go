package model

import "time"

// Source identifies the provider a lead originated from.
type Source string

const (
	SourceGoogleMaps Source = "google_maps"
	SourceYelp       Source = "yelp"
)

// Lead represents one normalized business listing flowing through the
// pipeline. Identity fields are set at ingestion; enrichment fields are
// populated by the enricher; Score is set by the scorer. Fields accumulate
// across stages and are never cleared.
type Lead struct {
	Name        string   `json:"name"`
	Address     string   `json:"address,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Website     string   `json:"website,omitempty"`
	Category    string   `json:"category,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	Source      Source   `json:"source"`

	// Enrichment fields. Always set once the enricher has run, possibly
	// to their empty defaults.
	Reachable bool     `json:"reachable"`
	Email     string   `json:"email,omitempty"`
	Tags      []string `json:"tags,omitempty"`

	// Scoring fields.
	Score          float64            `json:"score"`
	ScoreBreakdown map[string]float64 `json:"score_breakdown,omitempty"`
}

// ProbeResult is the outcome of a single website probe.
type ProbeResult struct {
	Reachable  bool   `json:"reachable"`
	StatusCode int    `json:"status_code,omitempty"`
	Body       []byte `json:"-"`
}

// RunStatus represents the current state of a pipeline run.
type RunStatus string

const (
	RunStatusQueued        RunStatus = "queued"
	RunStatusDeduplicating RunStatus = "deduplicating"
	RunStatusEnriching     RunStatus = "enriching"
	RunStatusScoring       RunStatus = "scoring"
	RunStatusComplete      RunStatus = "complete"
	RunStatusFailed        RunStatus = "failed"
)

// Run represents a single pipeline invocation for a (query, location) pair.
type Run struct {
	ID        string     `json:"id"`
	Query     string     `json:"query"`
	Location  string     `json:"location"`
	Status    RunStatus  `json:"status"`
	Summary   *RunSummary `json:"summary,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunSummary holds the final counters of a run.
type RunSummary struct {
	LeadsIn      int     `json:"leads_in"`
	Duplicates   int     `json:"duplicates"`
	Reachable    int     `json:"reachable"`
	EmailsFound  int     `json:"emails_found"`
	LeadsOut     int     `json:"leads_out"`
	TopScore     float64 `json:"top_score"`
	DurationMS   int64   `json:"duration_ms"`
	Error        string  `json:"error,omitempty"`
}
