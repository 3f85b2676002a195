package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func testEnricher(t *testing.T, concurrency int) *Enricher {
	t.Helper()
	e, err := NewEnricher(NewProber(2*time.Second), concurrency, nil)
	require.NoError(t, err)
	return e
}

func TestNewEnricher_InvalidConcurrency(t *testing.T) {
	_, err := NewEnricher(NewProber(time.Second), 0, nil)
	assert.Error(t, err)
	_, err = NewEnricher(NewProber(time.Second), -3, nil)
	assert.Error(t, err)
}

func TestNewEnricher_NilProber(t *testing.T) {
	_, err := NewEnricher(nil, 4, nil)
	assert.Error(t, err)
}

func TestEnrich_Empty(t *testing.T) {
	e := testEnricher(t, 4)
	assert.Empty(t, e.Enrich(context.Background(), nil))
}

func TestEnrich_NoWebsiteSkipsNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
	}))
	defer srv.Close()

	e := testEnricher(t, 4)
	out := e.Enrich(context.Background(), []model.Lead{{Name: "No Site Diner"}})

	require.Len(t, out, 1)
	assert.False(t, out[0].Reachable)
	assert.Empty(t, out[0].Email)
	assert.Empty(t, out[0].Tags)
	assert.Zero(t, calls)
}

func TestEnrich_ReachableWithSignals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<meta name="keywords" content="Plumbing, Heating">
		</head><body>info@acme.com</body></html>`))
	}))
	defer srv.Close()

	e := testEnricher(t, 4)
	out := e.Enrich(context.Background(), []model.Lead{{Name: "Acme", Website: srv.URL}})

	require.Len(t, out, 1)
	assert.True(t, out[0].Reachable)
	assert.Equal(t, "info@acme.com", out[0].Email)
	assert.Equal(t, []string{"heating", "plumbing"}, out[0].Tags)
}

func TestEnrich_UnreachableDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := testEnricher(t, 4)
	out := e.Enrich(context.Background(), []model.Lead{{Name: "Dead Site Deli", Website: srv.URL}})

	require.Len(t, out, 1)
	assert.False(t, out[0].Reachable)
	assert.Empty(t, out[0].Email)
	assert.Empty(t, out[0].Tags)
}

func TestEnrich_PreservesOrderAndLength(t *testing.T) {
	// Respond slower for earlier leads so completion order inverts
	// submission order.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/0":
			time.Sleep(150 * time.Millisecond)
		case "/1":
			time.Sleep(75 * time.Millisecond)
		}
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	leads := make([]model.Lead, 5)
	for i := range leads {
		leads[i] = model.Lead{
			Name:    fmt.Sprintf("Lead %d", i),
			Website: fmt.Sprintf("%s/%d", srv.URL, i),
		}
	}

	e := testEnricher(t, 5)
	out := e.Enrich(context.Background(), leads)

	require.Len(t, out, len(leads))
	for i := range out {
		assert.Equal(t, leads[i].Name, out[i].Name)
		assert.True(t, out[i].Reachable)
	}
}

func TestEnrich_CancelledContextDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := testEnricher(t, 2)
	out := e.Enrich(ctx, []model.Lead{
		{Name: "A", Website: srv.URL},
		{Name: "B", Website: srv.URL},
	})

	require.Len(t, out, 2)
	for i := range out {
		assert.False(t, out[i].Reachable)
	}
}
