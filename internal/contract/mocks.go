package contract

import (
	"context"
	"time"

	"github.com/huangsam/steward/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock implementation of GitClient for testing.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, args)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	return ret.String(0), ret.Error(1)
}

// GetRemoteURL implements the GitClient interface.
func (m *MockGitClient) GetRemoteURL(ctx context.Context, repoPath, remote string) (string, error) {
	ret := m.Called(ctx, repoPath, remote)
	return ret.String(0), ret.Error(1)
}

// GetCommitLog implements the GitClient interface.
func (m *MockGitClient) GetCommitLog(ctx context.Context, repoPath string, startTime, endTime time.Time) ([]byte, error) {
	ret := m.Called(ctx, repoPath, startTime, endTime)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// MockDataSource is a mock implementation of DataSource for testing.
type MockDataSource struct {
	mock.Mock
}

var _ DataSource = &MockDataSource{} // Compile-time check

// FetchEvents implements the DataSource interface.
func (m *MockDataSource) FetchEvents(ctx context.Context, repoID string, window schema.Window) ([]schema.RawRecord, error) {
	ret := m.Called(ctx, repoID, window)
	records, _ := ret.Get(0).([]schema.RawRecord)
	return records, ret.Error(1)
}

// MockScorer is a mock implementation of SentimentScorer for testing.
type MockScorer struct {
	mock.Mock
}

var _ SentimentScorer = &MockScorer{} // Compile-time check

// Score implements the SentimentScorer interface.
func (m *MockScorer) Score(ctx context.Context, text string) (float64, error) {
	ret := m.Called(ctx, text)
	return ret.Get(0).(float64), ret.Error(1)
}

// MockAnalysisStore is a mock implementation of AnalysisStore for testing.
type MockAnalysisStore struct {
	mock.Mock
}

var _ AnalysisStore = &MockAnalysisStore{} // Compile-time check

// BeginRun implements the AnalysisStore interface.
func (m *MockAnalysisStore) BeginRun(startTime time.Time, days int, repositories int, configParams map[string]any) (string, error) {
	ret := m.Called(startTime, days, repositories, configParams)
	return ret.String(0), ret.Error(1)
}

// RecordResult implements the AnalysisStore interface.
func (m *MockAnalysisStore) RecordResult(runID string, result schema.RepositoryResult) error {
	return m.Called(runID, result).Error(0)
}

// EndRun implements the AnalysisStore interface.
func (m *MockAnalysisStore) EndRun(runID string, endTime time.Time) error {
	return m.Called(runID, endTime).Error(0)
}

// GetStatus implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetStatus() (schema.AnalysisStatus, error) {
	ret := m.Called()
	return ret.Get(0).(schema.AnalysisStatus), ret.Error(1)
}

// GetAllAnalysisRuns implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	ret := m.Called()
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]schema.AnalysisRunRecord), ret.Error(1)
}

// GetAllRepositoryReports implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllRepositoryReports() ([]schema.RepositoryReportRecord, error) {
	ret := m.Called()
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]schema.RepositoryReportRecord), ret.Error(1)
}

// GetAllContributors implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllContributors() ([]schema.ContributorRecord, error) {
	ret := m.Called()
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]schema.ContributorRecord), ret.Error(1)
}

// Close implements the AnalysisStore interface.
func (m *MockAnalysisStore) Close() error {
	return m.Called().Error(0)
}
