// Package store persists pipeline runs and processed lead batches.
package store

import (
	"context"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Store defines the persistence interface for the lead pipeline. Batches
// are keyed by the (query, location) pair they were produced for.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, query, location string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunSummary(ctx context.Context, runID string, status model.RunStatus, summary *model.RunSummary) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	// Leads
	SaveLeads(ctx context.Context, runID, query, location string, leads []model.Lead) error
	LeadsByQuery(ctx context.Context, query, location string) ([]model.Lead, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
