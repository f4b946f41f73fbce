package schema

import "time"

// AnalysisRunRecord represents a row from the steward_analysis_runs table.
type AnalysisRunRecord struct {
	RunID         string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	Days          int32
	Repositories  int32
	ConfigParams  *string
}

// RepositoryReportRecord represents a row from the steward_repository_reports table.
type RepositoryReportRecord struct {
	RunID           string
	RepositoryID    string
	AnalysisTime    time.Time
	Status          string
	ErrorMessage    *string
	Contributors    int32
	Commits         int32
	CloseRate       float64
	CommitFrequency float64
	MedianLatencyH  *float64
	SentimentMean   *float64
	RiskScore       float64
	Severity        string
}

// ContributorRecord represents a row from the steward_contributors table.
type ContributorRecord struct {
	RunID         string
	RepositoryID  string
	ContributorID string
	DisplayName   string
	Domain        string
	Category      string
	TotalActivity int32
	ActivityShare float64
	Trend         string
	FirstActivity time.Time
	LastActivity  time.Time
}
