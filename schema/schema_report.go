package schema

import "time"

// Report is the full analysis of a single repository.
type Report struct {
	RepositoryID         string                 `json:"repository_id"`
	GeneratedAt          time.Time              `json:"generated_at"`
	Window               Window                 `json:"window"`
	Contributors         []ContributorProfile   `json:"contributor_profiles"`
	DomainBreakdown      map[DomainCategory]int `json:"domain_breakdown"`
	ActivityDistribution ActivityDistribution   `json:"activity_distribution"`
	Sentiment            *SentimentSummary      `json:"sentiment_summary,omitempty"`
	Stats                RepositoryStats        `json:"repository_stats"`
	Risk                 RiskAssessment         `json:"risk_assessment"`
	Normalization        NormalizeResult        `json:"normalization"`
}

// RepositoryResult is the per-repository outcome of a batch analysis.
type RepositoryResult struct {
	RepositoryID string  `json:"repository_id"`
	Status       Status  `json:"status"`
	Error        string  `json:"error,omitempty"`
	Report       *Report `json:"report,omitempty"`
}

// RankedRepository is one entry of a comparison ranking.
type RankedRepository struct {
	Rank         int     `json:"rank"`
	RepositoryID string  `json:"repository_id"`
	Value        float64 `json:"value"`
}

// ComparisonSummary ranks successful repositories against each other.
type ComparisonSummary struct {
	ByRisk            []RankedRepository `json:"by_risk"`
	ByCommitFrequency []RankedRepository `json:"by_commit_frequency"`
	SeverityCounts    map[Severity]int   `json:"severity_counts"`
	OK                int                `json:"ok"`
	Errors            int                `json:"errors"`
}

// BatchReport is the merged result of analyzing several repositories.
type BatchReport struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Days        int                `json:"days"`
	Results     []RepositoryResult `json:"results"`
	Summary     ComparisonSummary  `json:"summary"`
}
