// Package contract provides interfaces and shared utilities for steward's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/steward/schema"
)

// DataSource supplies raw activity records for a repository and time window.
// Implementations may return records outside the window or for other repositories;
// the normalizer filters them.
type DataSource interface {
	FetchEvents(ctx context.Context, repoID string, window schema.Window) ([]schema.RawRecord, error)
}

// SentimentScorer maps a text to a scalar in [-1,1].
type SentimentScorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// GitClient defines the git operations needed by the local git data source.
// This allows the source to be tested without needing a real git executable.
type GitClient interface {
	// Run executes a git command and returns its output.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetRemoteURL returns the fetch URL of the named remote.
	GetRemoteURL(ctx context.Context, repoPath, remote string) (string, error)

	// GetCommitLog returns the raw commit log between startTime and endTime.
	GetCommitLog(ctx context.Context, repoPath string, startTime, endTime time.Time) ([]byte, error)
}

// StoreManager defines the interface for managing the analysis store.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetAnalysisStore() AnalysisStore
}

// AnalysisStore defines the interface for tracking analysis runs and storing reports.
type AnalysisStore interface {
	// BeginRun creates a new analysis run and returns its unique ID
	BeginRun(startTime time.Time, days int, repositories int, configParams map[string]any) (string, error)

	// RecordResult stores the outcome of one repository analysis
	RecordResult(runID string, result schema.RepositoryResult) error

	// EndRun updates the analysis run with completion data
	EndRun(runID string, endTime time.Time) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllAnalysisRuns retrieves all analysis runs from the store
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllRepositoryReports retrieves all repository report rows from the store
	GetAllRepositoryReports() ([]schema.RepositoryReportRecord, error)

	// GetAllContributors retrieves all contributor rows from the store
	GetAllContributors() ([]schema.ContributorRecord, error)

	// Close closes the underlying connection
	Close() error
}
