package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withManager swaps the global store for the duration of a test.
func withManager(t *testing.T, s contract.AnalysisStore) {
	t.Helper()
	Manager.Lock()
	prev := Manager.analysis
	Manager.analysis = s
	Manager.Unlock()
	t.Cleanup(func() {
		Manager.Lock()
		Manager.analysis = prev
		Manager.Unlock()
	})
}

func TestExecuteAnalysisExport(t *testing.T) {
	store := newSQLiteStore(t)
	runID, err := store.BeginRun(time.Now(), 30, 1, nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordResult(runID, sampleResult("huangsam/steward")))
	require.NoError(t, store.EndRun(runID, time.Now()))
	withManager(t, store)

	base := filepath.Join(t.TempDir(), "export")
	require.NoError(t, ExecuteAnalysisExport(base))

	for _, suffix := range []string{".analysis_runs.parquet", ".repository_reports.parquet", ".contributors.parquet"} {
		info, err := os.Stat(base + suffix)
		require.NoError(t, err, suffix)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestExecuteAnalysisExportErrors(t *testing.T) {
	assert.ErrorContains(t, ExecuteAnalysisExport(""), "--output-file is required")

	withManager(t, nil)
	assert.ErrorContains(t, ExecuteAnalysisExport("out"), "tracking is disabled")

	mockStore := &contract.MockAnalysisStore{}
	mockStore.On("GetStatus").Return(schema.AnalysisStatus{Backend: "sqlite", Connected: true}, nil)
	withManager(t, mockStore)
	assert.ErrorContains(t, ExecuteAnalysisExport("out"), "no analysis data")
	mockStore.AssertExpectations(t)
}
