package store

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/steward/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *AnalysisStoreImpl {
	t.Helper()
	s, err := NewAnalysisStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "steward.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s.(*AnalysisStoreImpl)
}

func sampleResult(repoID string) schema.RepositoryResult {
	generated := time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)
	median := 6 * time.Hour
	return schema.RepositoryResult{
		RepositoryID: repoID,
		Status:       schema.OKStatus,
		Report: &schema.Report{
			RepositoryID: repoID,
			GeneratedAt:  generated,
			Contributors: []schema.ContributorProfile{
				{
					ContributorID: "alice", DisplayName: "Alice", TotalActivity: 8, ActivityShare: 0.8, Trend: schema.StableTrend,
					Classification: schema.DomainClassification{Domain: "google.com", Category: schema.CompanyDomain},
					FirstActivity:  generated.AddDate(0, 0, -20), LastActivity: generated.AddDate(0, 0, -1),
				},
				{
					ContributorID: "bob", DisplayName: "Bob", TotalActivity: 2, ActivityShare: 0.2, Trend: schema.InsufficientDataTrend,
					Classification: schema.DomainClassification{Category: schema.UnknownDomain, MatchedRule: schema.RuleNoEmail},
					FirstActivity:  generated.AddDate(0, 0, -3), LastActivity: generated.AddDate(0, 0, -2),
				},
			},
			Stats:     schema.RepositoryStats{Commits: 7, CloseRate: 0.5, CommitFrequency: 0.23, MedianResponseLatency: &median},
			Sentiment: &schema.SentimentSummary{MeanScore: -0.1, SampleCount: 3},
			Risk:      schema.RiskAssessment{OverallScore: 41, Severity: schema.MediumSeverity},
		},
	}
}

func TestAnalysisStore_NoneBackend(t *testing.T) {
	store, err := NewAnalysisStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	runID, err := store.BeginRun(time.Now(), 30, 1, map[string]any{"test": "value"})
	assert.NoError(t, err)
	assert.Empty(t, runID)

	assert.NoError(t, store.RecordResult("x", sampleResult("a/b")))
	assert.NoError(t, store.EndRun("x", time.Now()))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)

	runs, err := store.GetAllAnalysisRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)

	assert.NoError(t, store.Close())
}

func TestAnalysisStore_RunLifecycle(t *testing.T) {
	store := newSQLiteStore(t)

	start := time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun(start, 90, 2, map[string]any{"sentiment": true})
	require.NoError(t, err)
	assert.Len(t, runID, 36)

	require.NoError(t, store.RecordResult(runID, sampleResult("huangsam/steward")))
	require.NoError(t, store.RecordResult(runID, schema.RepositoryResult{
		RepositoryID: "huangsam/broken", Status: schema.ErrorStatus, Error: "data source failed",
	}))
	require.NoError(t, store.EndRun(runID, start.Add(1500*time.Millisecond)))

	runs, err := store.GetAllAnalysisRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.True(t, start.Equal(run.StartTime))
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(1500), *run.RunDurationMs)
	assert.Equal(t, int32(90), run.Days)
	assert.Equal(t, int32(2), run.Repositories)
	require.NotNil(t, run.ConfigParams)
	assert.JSONEq(t, `{"sentiment":true}`, *run.ConfigParams)

	reports, err := store.GetAllRepositoryReports()
	require.NoError(t, err)
	require.Len(t, reports, 2)
	broken, ok := reports[0], reports[1]
	assert.Equal(t, "huangsam/broken", broken.RepositoryID)
	assert.Equal(t, "error", broken.Status)
	require.NotNil(t, broken.ErrorMessage)
	assert.Equal(t, "data source failed", *broken.ErrorMessage)
	assert.Nil(t, broken.MedianLatencyH)

	assert.Equal(t, "ok", ok.Status)
	assert.Equal(t, int32(2), ok.Contributors)
	assert.Equal(t, int32(7), ok.Commits)
	require.NotNil(t, ok.MedianLatencyH)
	assert.InDelta(t, 6.0, *ok.MedianLatencyH, 1e-9)
	require.NotNil(t, ok.SentimentMean)
	assert.InDelta(t, -0.1, *ok.SentimentMean, 1e-9)
	assert.InDelta(t, 41.0, ok.RiskScore, 1e-9)
	assert.Equal(t, "medium", ok.Severity)

	contributors, err := store.GetAllContributors()
	require.NoError(t, err)
	require.Len(t, contributors, 2)
	assert.Equal(t, "alice", contributors[0].ContributorID)
	assert.Equal(t, "company", contributors[0].Category)
	assert.Equal(t, "google.com", contributors[0].Domain)
	assert.Equal(t, int32(8), contributors[0].TotalActivity)
	assert.Equal(t, "bob", contributors[1].ContributorID)
	assert.Empty(t, contributors[1].Domain)
}

func TestAnalysisStore_RecordResultIsAtomic(t *testing.T) {
	store := newSQLiteStore(t)
	runID, err := store.BeginRun(time.Now(), 30, 1, nil)
	require.NoError(t, err)

	result := sampleResult("a/dup")
	result.Report.Contributors = append(result.Report.Contributors, result.Report.Contributors[0])
	require.Error(t, store.RecordResult(runID, result), "duplicate contributor should violate the primary key")

	reports, err := store.GetAllRepositoryReports()
	require.NoError(t, err)
	assert.Empty(t, reports, "report row should be rolled back with the contributors")
}

func TestAnalysisStore_EndRunUnknown(t *testing.T) {
	store := newSQLiteStore(t)
	err := store.EndRun("does-not-exist", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get start_time")
}

func TestAnalysisStore_GetStatus(t *testing.T) {
	store := newSQLiteStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Zero(t, status.TotalRuns)

	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 3 {
		runID, err := store.BeginRun(first.AddDate(0, 0, i), 30, 1, nil)
		require.NoError(t, err)
		require.NoError(t, store.RecordResult(runID, sampleResult("huangsam/steward")))
	}

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalRuns)
	assert.True(t, first.Equal(status.OldestRunTime))
	assert.True(t, first.AddDate(0, 0, 2).Equal(status.LastRunTime))
	assert.NotEmpty(t, status.LastRunID)
	assert.Equal(t, 1, status.TotalRepositories)
	assert.Equal(t, 2, status.TotalContributors)
	assert.Equal(t, int64(3), status.TableSizes[analysisRunsTable])
	assert.Equal(t, int64(3), status.TableSizes[repositoryReportsTable])
	assert.Equal(t, int64(6), status.TableSizes[contributorsTable])

	var buf bytes.Buffer
	PrintAnalysisStatus(&buf, status)
	out := buf.String()
	assert.Contains(t, out, "Analysis Backend: sqlite")
	assert.Contains(t, out, "Total Runs: 3")
	assert.Contains(t, out, "Contributors Seen: 2")
	assert.Contains(t, out, "steward_contributors: 6 rows")
}

func TestPrintAnalysisStatusDisconnected(t *testing.T) {
	var buf bytes.Buffer
	PrintAnalysisStatus(&buf, schema.AnalysisStatus{Backend: "none"})
	assert.Equal(t, "Analysis Backend: none\nConnected: false\n", buf.String())
}

func TestParseTime(t *testing.T) {
	as := &AnalysisStoreImpl{backend: schema.MySQLBackend}
	want := time.Date(2026, 6, 30, 12, 30, 0, 0, time.UTC)

	got, err := as.parseTime([]byte("2026-06-30 12:30:00"))
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	got, err = as.parseTime(want.Format(time.RFC3339Nano))
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	got, err = as.parseTime(want.In(time.FixedZone("x", 3600)))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())

	_, err = as.parseTime(nil)
	assert.Error(t, err)
	_, err = as.parseTime(42)
	assert.Error(t, err)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"?", "?"}, placeholders(2, schema.SQLiteBackend))
	assert.Equal(t, []string{"?"}, placeholders(1, schema.MySQLBackend))
	assert.Equal(t, []string{"$1", "$2", "$3"}, placeholders(3, schema.PostgreSQLBackend))
}

func TestQuoteAndValidateTableName(t *testing.T) {
	assert.Equal(t, "`steward_contributors`", quoteTableName(contributorsTable, schema.MySQLBackend))
	assert.Equal(t, `"steward_contributors"`, quoteTableName(contributorsTable, schema.PostgreSQLBackend))
	assert.NoError(t, validateTableName(migrationsTable))
	assert.Error(t, validateTableName("runs; DROP TABLE x"))
}
