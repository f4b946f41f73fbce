// Package schema has models, constants and default lists for all parts of steward.
package schema

import "time"

// RawRecord is a source-specific activity record before normalization.
// Data sources fill whatever fields they know; the normalizer decides what survives.
type RawRecord struct {
	Kind         string   `json:"kind" yaml:"kind"`                                       // Event kind, e.g. commit, issue_opened
	RepositoryID string   `json:"repository_id" yaml:"repository_id"`                     // owner/name of the repository
	Login        string   `json:"login,omitempty" yaml:"login,omitempty"`                 // Explicit author identity
	Name         string   `json:"name,omitempty" yaml:"name,omitempty"`                   // Author display name
	Email        string   `json:"email,omitempty" yaml:"email,omitempty"`                 // Author email
	Timestamp    string   `json:"timestamp" yaml:"timestamp"`                             // Unparsed timestamp
	Text         string   `json:"text,omitempty" yaml:"text,omitempty"`                   // Comment, review or commit text
	LatencyHours *float64 `json:"latency_hours,omitempty" yaml:"latency_hours,omitempty"` // Response latency in hours
}

// ContributorEvent is a normalized activity event. It is never mutated after normalization.
type ContributorEvent struct {
	ContributorID   string         `json:"contributor_id"`
	DisplayName     string         `json:"display_name"`
	Email           string         `json:"email,omitempty"`
	Type            EventType      `json:"type"`
	Timestamp       time.Time      `json:"timestamp"`
	RepositoryID    string         `json:"repository_id"`
	Text            string         `json:"text,omitempty"`
	ResponseLatency *time.Duration `json:"response_latency,omitempty"`
}

// Window is the closed interval [Start, End] of an analysis.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"days"`
}

// Contains reports whether t falls inside the closed window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// NormalizeResult carries normalized events and the counts of records that were dropped.
type NormalizeResult struct {
	Events          []ContributorEvent `json:"-"`
	Total           int                `json:"total"`
	Skipped         int                `json:"skipped"`           // unparseable timestamp, unknown kind or no identity
	OutOfRepository int                `json:"out_of_repository"` // record for a different repository
	OutOfWindow     int                `json:"out_of_window"`     // timestamp outside the window
	BotsFiltered    int                `json:"bots_filtered"`     // automation accounts
}

// DomainClassification is the affiliation verdict for one email domain.
type DomainClassification struct {
	Domain      string         `json:"domain"`
	Category    DomainCategory `json:"category"`
	MatchedRule string         `json:"matched_rule"`
}

// ContributorProfile is the aggregated activity record for one identity within one repository and window.
type ContributorProfile struct {
	RepositoryID   string               `json:"repository_id"`
	ContributorID  string               `json:"contributor_id"`
	DisplayName    string               `json:"display_name"`
	Emails         []string             `json:"emails"`
	Counts         map[EventType]int    `json:"counts"`
	TotalActivity  int                  `json:"total_activity"`
	ActivityShare  float64              `json:"activity_share"`
	FirstActivity  time.Time            `json:"first_activity"`
	LastActivity   time.Time            `json:"last_activity"`
	Buckets        []int                `json:"buckets"`
	Trend          Trend                `json:"trend"`
	Classification DomainClassification `json:"classification"`
	Sentiment      *SentimentSummary    `json:"sentiment,omitempty"`
}

// ScoredText is one sentiment score attributed to a contributor.
type ScoredText struct {
	ContributorID string  `json:"contributor_id"`
	Score         float64 `json:"score"`
}

// SentimentDistribution counts scores per bucket.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// SentimentSummary aggregates sentiment scores for a contributor or a repository.
type SentimentSummary struct {
	MeanScore    float64               `json:"mean_score"`
	Stdev        float64               `json:"stdev"`
	SampleCount  int                   `json:"sample_count"`
	Distribution SentimentDistribution `json:"distribution"`
	Skipped      int                   `json:"skipped,omitempty"` // texts the scorer failed on
}

// NegativeShare returns the fraction of samples in the negative bucket.
func (s *SentimentSummary) NegativeShare() float64 {
	if s == nil || s.SampleCount == 0 {
		return 0
	}
	return float64(s.Distribution.Negative) / float64(s.SampleCount)
}

// RepositoryStats holds repository-level response and throughput statistics.
type RepositoryStats struct {
	MedianResponseLatency *time.Duration `json:"median_response_latency,omitempty"`
	CloseRate             float64        `json:"close_rate"`
	CommitFrequency       float64        `json:"commit_frequency"` // commits per day
	WindowDays            int            `json:"window_days"`
	Commits               int            `json:"commits"`
	Opened                int            `json:"opened"`
	Closed                int            `json:"closed"`
	IssuesOpened          int            `json:"issues_opened"`
	PRsOpened             int            `json:"prs_opened"`
	PRsMerged             int            `json:"prs_merged"`
	LatencySamples        int            `json:"latency_samples"`
	MeanResponseLatency   *time.Duration `json:"mean_response_latency,omitempty"`
}

// MedianLatencyHours returns the median latency in hours, or 0 when absent.
func (s RepositoryStats) MedianLatencyHours() float64 {
	if s.MedianResponseLatency == nil {
		return 0
	}
	return s.MedianResponseLatency.Hours()
}

// ActivityDistribution reports how much activity the top contributors hold.
type ActivityDistribution struct {
	Top1Share float64 `json:"top1_share"`
	Top3Share float64 `json:"top3_share"`
	Top5Share float64 `json:"top5_share"`
}

// RiskFactor is one weighted component of a risk assessment.
type RiskFactor struct {
	Name         FactorName `json:"name"`
	Weight       float64    `json:"weight"`
	SubScore     float64    `json:"sub_score"`
	Contribution float64    `json:"contribution"`
	Observation  string     `json:"observation"`
}

// RiskAssessment is a bounded score plus severity tier summarizing sustainability signals.
type RiskAssessment struct {
	OverallScore        float64      `json:"overall_score"`
	Severity            Severity     `json:"severity"`
	ContributingFactors []RiskFactor `json:"contributing_factors"`
	Recommendations     []string     `json:"recommendations"`
}
