package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(n int) *int           { return &n }

func TestSQLite_CreateAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "plumbers", "Brooklyn, NY")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "plumbers", got.Query)
	assert.Equal(t, "Brooklyn, NY", got.Location)
	assert.Nil(t, got.Summary)
}

func TestSQLite_GetRun_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get run")
}

func TestSQLite_UpdateRunStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "plumbers", "Brooklyn, NY")
	require.NoError(t, err)

	require.NoError(t, st.UpdateRunStatus(ctx, run.ID, model.RunStatusEnriching))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusEnriching, got.Status)
}

func TestSQLite_UpdateRunSummary(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "plumbers", "Brooklyn, NY")
	require.NoError(t, err)

	summary := &model.RunSummary{
		LeadsIn:     12,
		Duplicates:  3,
		Reachable:   6,
		EmailsFound: 4,
		LeadsOut:    9,
		TopScore:    88.5,
		DurationMS:  1234,
	}
	require.NoError(t, st.UpdateRunSummary(ctx, run.ID, model.RunStatusComplete, summary))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Summary)
	assert.Equal(t, 12, got.Summary.LeadsIn)
	assert.Equal(t, 3, got.Summary.Duplicates)
	assert.Equal(t, 88.5, got.Summary.TopScore)
}

func TestSQLite_ListRuns(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for _, q := range []string{"plumbers", "dentists", "bakeries"} {
		_, err := st.CreateRun(ctx, q, "Brooklyn, NY")
		require.NoError(t, err)
	}

	runs, err := st.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	all, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLite_SaveAndLoadLeads(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "pizza", "Brooklyn, NY")
	require.NoError(t, err)

	leads := []model.Lead{
		{
			Name:        "Joe's Pizza",
			Address:     "123 Main St",
			Website:     "https://joespizza.com",
			Rating:      floatPtr(4.5),
			ReviewCount: intPtr(230),
			Source:      model.SourceGoogleMaps,
			Reachable:   true,
			Email:       "info@joespizza.com",
			Tags:        []string{"delivery", "pizza"},
			Score:       87.2,
		},
		{Name: "Ray's Pizza", Source: model.SourceYelp, Score: 41},
		{Name: "Slice House", Source: model.SourceGoogleMaps, Score: 63.5},
	}
	require.NoError(t, st.SaveLeads(ctx, run.ID, "pizza", "Brooklyn, NY", leads))

	got, err := st.LeadsByQuery(ctx, "pizza", "Brooklyn, NY")
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Insertion order is preserved.
	assert.Equal(t, "Joe's Pizza", got[0].Name)
	assert.Equal(t, "Ray's Pizza", got[1].Name)
	assert.Equal(t, "Slice House", got[2].Name)

	require.NotNil(t, got[0].Rating)
	assert.Equal(t, 4.5, *got[0].Rating)
	assert.Equal(t, []string{"delivery", "pizza"}, got[0].Tags)
	assert.Equal(t, 87.2, got[0].Score)
	assert.True(t, got[0].Reachable)
}

func TestSQLite_LeadsByQuery_ScopedToQueryAndLocation(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "pizza", "Brooklyn, NY")
	require.NoError(t, err)
	require.NoError(t, st.SaveLeads(ctx, run.ID, "pizza", "Brooklyn, NY", []model.Lead{{Name: "Joe's Pizza"}}))

	other, err := st.CreateRun(ctx, "pizza", "Queens, NY")
	require.NoError(t, err)
	require.NoError(t, st.SaveLeads(ctx, other.ID, "pizza", "Queens, NY", []model.Lead{{Name: "Queens Pies"}}))

	got, err := st.LeadsByQuery(ctx, "pizza", "Brooklyn, NY")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Joe's Pizza", got[0].Name)

	empty, err := st.LeadsByQuery(ctx, "pizza", "Manhattan, NY")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
