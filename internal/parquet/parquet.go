// Package parquet provides data structures and functions for exporting steward
// analysis data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/steward/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single analysis run with metadata.
// This struct maps to the steward_analysis_runs database table.
type AnalysisRun struct {
	// RunID is the UUID of this analysis run
	RunID string `parquet:"run_id,snappy"`

	// StartTime is when the analysis began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the analysis completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the analysis run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// Days is the length of the analysis window
	Days int32 `parquet:"days,snappy"`

	// Repositories is the number of repositories requested in this run
	Repositories int32 `parquet:"repositories,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RepositoryReport is the flattened outcome of one repository analysis.
// This struct maps to the steward_repository_reports database table.
type RepositoryReport struct {
	RunID           string    `parquet:"run_id,snappy"`
	RepositoryID    string    `parquet:"repository_id,snappy"`
	AnalysisTime    time.Time `parquet:"analysis_time,snappy"`
	Status          string    `parquet:"status,snappy"`
	ErrorMessage    *string   `parquet:"error_message,optional,snappy"`
	Contributors    int32     `parquet:"contributors,snappy"`
	Commits         int32     `parquet:"commits,snappy"`
	CloseRate       float64   `parquet:"close_rate,snappy"`
	CommitFrequency float64   `parquet:"commit_frequency,snappy"`
	MedianLatencyH  *float64  `parquet:"median_latency_hours,optional,snappy"`
	SentimentMean   *float64  `parquet:"sentiment_mean,optional,snappy"`
	RiskScore       float64   `parquet:"risk_score,snappy"`
	Severity        string    `parquet:"severity,snappy"`
}

// Contributor is one contributor profile row.
// This struct maps to the steward_contributors database table.
type Contributor struct {
	RunID         string    `parquet:"run_id,snappy"`
	RepositoryID  string    `parquet:"repository_id,snappy"`
	ContributorID string    `parquet:"contributor_id,snappy"`
	DisplayName   string    `parquet:"display_name,snappy"`
	Domain        string    `parquet:"domain,snappy"`
	Category      string    `parquet:"category,snappy"`
	TotalActivity int32     `parquet:"total_activity,snappy"`
	ActivityShare float64   `parquet:"activity_share,snappy"`
	Trend         string    `parquet:"trend,snappy"`
	FirstActivity time.Time `parquet:"first_activity,snappy"`
	LastActivity  time.Time `parquet:"last_activity,snappy"`
}

// WriteAnalysisRunsParquet writes analysis runs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRepositoryReportsParquet writes repository report rows to a Parquet file.
func WriteRepositoryReportsParquet(data []RepositoryReport, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteContributorsParquet writes contributor rows to a Parquet file.
func WriteContributorsParquet(data []Contributor, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows using struct schema inference from the parquet tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the footer; without it the file is unreadable
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			Days:          record.Days,
			Repositories:  record.Repositories,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertRepositoryReportRecords converts stored report rows for Parquet export.
func ConvertRepositoryReportRecords(records []schema.RepositoryReportRecord) []RepositoryReport {
	result := make([]RepositoryReport, len(records))
	for i, r := range records {
		result[i] = RepositoryReport{
			RunID:           r.RunID,
			RepositoryID:    r.RepositoryID,
			AnalysisTime:    r.AnalysisTime,
			Status:          r.Status,
			ErrorMessage:    r.ErrorMessage,
			Contributors:    r.Contributors,
			Commits:         r.Commits,
			CloseRate:       r.CloseRate,
			CommitFrequency: r.CommitFrequency,
			MedianLatencyH:  r.MedianLatencyH,
			SentimentMean:   r.SentimentMean,
			RiskScore:       r.RiskScore,
			Severity:        r.Severity,
		}
	}
	return result
}

// ConvertContributorRecords converts stored contributor rows for Parquet export.
func ConvertContributorRecords(records []schema.ContributorRecord) []Contributor {
	result := make([]Contributor, len(records))
	for i, c := range records {
		result[i] = Contributor{
			RunID:         c.RunID,
			RepositoryID:  c.RepositoryID,
			ContributorID: c.ContributorID,
			DisplayName:   c.DisplayName,
			Domain:        c.Domain,
			Category:      c.Category,
			TotalActivity: c.TotalActivity,
			ActivityShare: c.ActivityShare,
			Trend:         c.Trend,
			FirstActivity: c.FirstActivity,
			LastActivity:  c.LastActivity,
		}
	}
	return result
}

// ConvertResults flattens in-memory results into report and contributor rows.
// Rows carry no run ID since they were never stored.
func ConvertResults(results []schema.RepositoryResult) ([]RepositoryReport, []Contributor) {
	reports := make([]RepositoryReport, 0, len(results))
	var contributors []Contributor
	for _, res := range results {
		row := RepositoryReport{
			RepositoryID: res.RepositoryID,
			Status:       string(res.Status),
		}
		if res.Error != "" {
			msg := res.Error
			row.ErrorMessage = &msg
		}
		if r := res.Report; r != nil {
			row.AnalysisTime = r.GeneratedAt
			row.Contributors = int32(len(r.Contributors))
			row.Commits = int32(r.Stats.Commits)
			row.CloseRate = r.Stats.CloseRate
			row.CommitFrequency = r.Stats.CommitFrequency
			if r.Stats.MedianResponseLatency != nil {
				h := r.Stats.MedianLatencyHours()
				row.MedianLatencyH = &h
			}
			if r.Sentiment != nil {
				mean := r.Sentiment.MeanScore
				row.SentimentMean = &mean
			}
			row.RiskScore = r.Risk.OverallScore
			row.Severity = string(r.Risk.Severity)
			for _, p := range r.Contributors {
				contributors = append(contributors, Contributor{
					RepositoryID:  r.RepositoryID,
					ContributorID: p.ContributorID,
					DisplayName:   p.DisplayName,
					Domain:        p.Classification.Domain,
					Category:      string(p.Classification.Category),
					TotalActivity: int32(p.TotalActivity),
					ActivityShare: p.ActivityShare,
					Trend:         string(p.Trend),
					FirstActivity: p.FirstActivity,
					LastActivity:  p.LastActivity,
				})
			}
		}
		reports = append(reports, row)
	}
	return reports, contributors
}
