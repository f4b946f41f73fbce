package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
)

// AnalysisStoreImpl implements the AnalysisStore interface.
type AnalysisStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.AnalysisStore = &AnalysisStoreImpl{} // Compile-time check

// NewAnalysisStore creates a new AnalysisStore with the specified backend and
// migrates its schema to the latest version.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (contract.AnalysisStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &AnalysisStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := migrateUp(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create analysis tables: %w", err)
	}
	return &AnalysisStoreImpl{db: db, backend: backend}, nil
}

func (as *AnalysisStoreImpl) disabled() bool {
	return as.backend == schema.NoneBackend || as.db == nil
}

// BeginRun creates a new analysis run and returns its unique ID.
func (as *AnalysisStoreImpl) BeginRun(startTime time.Time, days int, repositories int, configParams map[string]any) (string, error) {
	if as.disabled() {
		return "", nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config params: %w", err)
	}

	runID := uuid.NewString()
	query := fmt.Sprintf(`INSERT INTO %s (run_id, start_time, days, repositories, config_params) VALUES (%s)`,
		quoteTableName(analysisRunsTable, as.backend), strings.Join(placeholders(5, as.backend), ", "))
	if _, err := as.db.Exec(query, runID, as.formatTime(startTime), days, repositories, string(configJSON)); err != nil {
		return "", fmt.Errorf("failed to insert analysis run: %w", err)
	}
	return runID, nil
}

// EndRun updates the analysis run with completion data.
func (as *AnalysisStoreImpl) EndRun(runID string, endTime time.Time) error {
	if as.disabled() {
		return nil
	}

	table := quoteTableName(analysisRunsTable, as.backend)
	ph := placeholders(3, as.backend)

	// First, get the start_time to calculate duration
	row := as.db.QueryRow(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, table, ph[0]), runID)
	startTime, err := as.scanTime(row)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %s: %w", runID, err)
	}
	durationMs := endTime.Sub(startTime).Milliseconds()

	query := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s WHERE run_id = %s`, table, ph[0], ph[1], ph[2])
	if _, err := as.db.Exec(query, as.formatTime(endTime), durationMs, runID); err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}
	return nil
}

// RecordResult stores one repository outcome and, for successful analyses,
// its contributor rows. Everything is written in a single transaction.
func (as *AnalysisStoreImpl) RecordResult(runID string, result schema.RepositoryResult) error {
	if as.disabled() {
		return nil
	}

	tx, err := as.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rec := toReportRecord(runID, result)
	reportQuery := fmt.Sprintf(`
		INSERT INTO %s (run_id, repository_id, analysis_time, status, error_message, contributors, commits,
		                close_rate, commit_frequency, median_latency_hours, sentiment_mean, risk_score, severity)
		VALUES (%s)`, quoteTableName(repositoryReportsTable, as.backend), strings.Join(placeholders(13, as.backend), ", "))
	if _, err := tx.Exec(reportQuery,
		rec.RunID, rec.RepositoryID, as.formatTime(rec.AnalysisTime), rec.Status, rec.ErrorMessage,
		rec.Contributors, rec.Commits, rec.CloseRate, rec.CommitFrequency, rec.MedianLatencyH,
		rec.SentimentMean, rec.RiskScore, rec.Severity,
	); err != nil {
		return fmt.Errorf("failed to insert repository report: %w", err)
	}

	if result.Report != nil {
		contribQuery := fmt.Sprintf(`
			INSERT INTO %s (run_id, repository_id, contributor_id, display_name, domain, category,
			                total_activity, activity_share, trend, first_activity, last_activity)
			VALUES (%s)`, quoteTableName(contributorsTable, as.backend), strings.Join(placeholders(11, as.backend), ", "))
		stmt, err := tx.Prepare(contribQuery)
		if err != nil {
			return fmt.Errorf("failed to prepare contributor insert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, c := range toContributorRecords(runID, result.Report) {
			if _, err := stmt.Exec(
				c.RunID, c.RepositoryID, c.ContributorID, c.DisplayName, c.Domain, c.Category,
				c.TotalActivity, c.ActivityShare, c.Trend, as.formatTime(c.FirstActivity), as.formatTime(c.LastActivity),
			); err != nil {
				return fmt.Errorf("failed to insert contributor %s: %w", c.ContributorID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit repository result: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (as *AnalysisStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// GetStatus returns status information about the analysis store.
func (as *AnalysisStoreImpl) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}
	if as.disabled() {
		return status, nil
	}

	runs := quoteTableName(analysisRunsTable, as.backend)
	if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		// Run IDs are random, so recency comes from start_time
		row := as.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY start_time DESC LIMIT 1", runs))
		var lastStart any
		if err := row.Scan(&status.LastRunID, &lastStart); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		lastTime, err := as.parseTime(lastStart)
		if err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		status.LastRunTime = lastTime

		oldest, err := as.scanTime(as.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY start_time ASC LIMIT 1", runs)))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest

		reports := quoteTableName(repositoryReportsTable, as.backend)
		if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(DISTINCT repository_id) FROM %s", reports)).Scan(&status.TotalRepositories); err != nil {
			return status, fmt.Errorf("failed to get total repositories: %w", err)
		}
		contributors := quoteTableName(contributorsTable, as.backend)
		if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(DISTINCT contributor_id) FROM %s", contributors)).Scan(&status.TotalContributors); err != nil {
			return status, fmt.Errorf("failed to get total contributors: %w", err)
		}
	}

	for _, table := range allTables {
		var count int64
		if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, as.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// GetAllAnalysisRuns retrieves all analysis runs from the store.
func (as *AnalysisStoreImpl) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	if as.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, days, repositories, config_params
		FROM %s ORDER BY start_time, run_id`, quoteTableName(analysisRunsTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnalysisRunRecord
	for rows.Next() {
		var record schema.AnalysisRunRecord
		var start, end any
		if err := rows.Scan(&record.RunID, &start, &end, &record.RunDurationMs, &record.Days, &record.Repositories, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		if record.StartTime, err = as.parseTime(start); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if end != nil {
			endTime, err := as.parseTime(end)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &endTime
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis runs: %w", err)
	}
	return results, nil
}

// GetAllRepositoryReports retrieves all repository report rows from the store.
func (as *AnalysisStoreImpl) GetAllRepositoryReports() ([]schema.RepositoryReportRecord, error) {
	if as.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, repository_id, analysis_time, status, error_message, contributors, commits,
		close_rate, commit_frequency, median_latency_hours, sentiment_mean, risk_score, severity
		FROM %s ORDER BY run_id, repository_id`, quoteTableName(repositoryReportsTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query repository reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RepositoryReportRecord
	for rows.Next() {
		var r schema.RepositoryReportRecord
		var analysisTime any
		if err := rows.Scan(&r.RunID, &r.RepositoryID, &analysisTime, &r.Status, &r.ErrorMessage, &r.Contributors,
			&r.Commits, &r.CloseRate, &r.CommitFrequency, &r.MedianLatencyH, &r.SentimentMean, &r.RiskScore, &r.Severity); err != nil {
			return nil, fmt.Errorf("failed to scan repository report: %w", err)
		}
		if r.AnalysisTime, err = as.parseTime(analysisTime); err != nil {
			return nil, fmt.Errorf("failed to parse analysis_time: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating repository reports: %w", err)
	}
	return results, nil
}

// GetAllContributors retrieves all contributor rows from the store.
func (as *AnalysisStoreImpl) GetAllContributors() ([]schema.ContributorRecord, error) {
	if as.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, repository_id, contributor_id, display_name, domain, category,
		total_activity, activity_share, trend, first_activity, last_activity
		FROM %s ORDER BY run_id, repository_id, contributor_id`, quoteTableName(contributorsTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query contributors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ContributorRecord
	for rows.Next() {
		var c schema.ContributorRecord
		var first, last any
		if err := rows.Scan(&c.RunID, &c.RepositoryID, &c.ContributorID, &c.DisplayName, &c.Domain, &c.Category,
			&c.TotalActivity, &c.ActivityShare, &c.Trend, &first, &last); err != nil {
			return nil, fmt.Errorf("failed to scan contributor: %w", err)
		}
		if c.FirstActivity, err = as.parseTime(first); err != nil {
			return nil, fmt.Errorf("failed to parse first_activity: %w", err)
		}
		if c.LastActivity, err = as.parseTime(last); err != nil {
			return nil, fmt.Errorf("failed to parse last_activity: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contributors: %w", err)
	}
	return results, nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func (as *AnalysisStoreImpl) formatTime(t time.Time) any {
	if as.backend == schema.SQLiteBackend {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t.UTC()
}

func (as *AnalysisStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	var v any
	if err := row.Scan(&v); err != nil {
		return time.Time{}, err
	}
	return as.parseTime(v)
}

// parseTime handles SQLite text timestamps and native datetime values.
func (as *AnalysisStoreImpl) parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return time.Parse(time.RFC3339Nano, t)
	case []byte:
		if parsed, err := time.Parse(time.RFC3339Nano, string(t)); err == nil {
			return parsed, nil
		}
		return time.Parse("2006-01-02 15:04:05.999999", string(t))
	case nil:
		return time.Time{}, errors.New("timestamp is null")
	default:
		return time.Time{}, fmt.Errorf("unexpected timestamp type %T", v)
	}
}

// toReportRecord flattens a repository result into its table row.
func toReportRecord(runID string, result schema.RepositoryResult) schema.RepositoryReportRecord {
	rec := schema.RepositoryReportRecord{
		RunID:        runID,
		RepositoryID: result.RepositoryID,
		AnalysisTime: time.Now().UTC(),
		Status:       string(result.Status),
	}
	if result.Error != "" {
		msg := result.Error
		rec.ErrorMessage = &msg
	}
	r := result.Report
	if r == nil {
		return rec
	}
	rec.AnalysisTime = r.GeneratedAt
	rec.Contributors = int32(len(r.Contributors))
	rec.Commits = int32(r.Stats.Commits)
	rec.CloseRate = r.Stats.CloseRate
	rec.CommitFrequency = r.Stats.CommitFrequency
	if r.Stats.MedianResponseLatency != nil {
		h := r.Stats.MedianLatencyHours()
		rec.MedianLatencyH = &h
	}
	if r.Sentiment != nil {
		mean := r.Sentiment.MeanScore
		rec.SentimentMean = &mean
	}
	rec.RiskScore = r.Risk.OverallScore
	rec.Severity = string(r.Risk.Severity)
	return rec
}

// toContributorRecords flattens the report's contributor profiles into table rows.
func toContributorRecords(runID string, r *schema.Report) []schema.ContributorRecord {
	out := make([]schema.ContributorRecord, 0, len(r.Contributors))
	for _, p := range r.Contributors {
		out = append(out, schema.ContributorRecord{
			RunID:         runID,
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
	return out
}
