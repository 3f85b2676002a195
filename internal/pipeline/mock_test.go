package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// --- Store Mock ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateRun(ctx context.Context, query, location string) (*model.Run, error) {
	args := m.Called(ctx, query, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	args := m.Called(ctx, runID, status)
	return args.Error(0)
}

func (m *mockStore) UpdateRunSummary(ctx context.Context, runID string, status model.RunStatus, summary *model.RunSummary) error {
	args := m.Called(ctx, runID, status, summary)
	return args.Error(0)
}

func (m *mockStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Run), args.Error(1)
}

func (m *mockStore) SaveLeads(ctx context.Context, runID, query, location string, leads []model.Lead) error {
	args := m.Called(ctx, runID, query, location, leads)
	return args.Error(0)
}

func (m *mockStore) LeadsByQuery(ctx context.Context, query, location string) ([]model.Lead, error) {
	args := m.Called(ctx, query, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Source Stub ---

type stubSource struct {
	leads []model.Lead
	err   error
	calls int
}

func (s *stubSource) Search(_ context.Context, _, _ string) ([]model.Lead, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.leads, nil
}
