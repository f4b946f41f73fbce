package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/huangsam/steward/core/classify"
	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/internal/logging"
	"github.com/huangsam/steward/schema"
)

// Request asks for the analysis of a single repository.
type Request struct {
	RepositoryID     string
	Days             int       // zero means contract.DefaultAnalysisDays
	IncludeSentiment bool
	Now              time.Time // zero means time.Now
}

// BatchRequest asks for the analysis and comparison of several repositories.
type BatchRequest struct {
	RepositoryIDs    []string
	Days             int
	IncludeSentiment bool
	Workers          int // zero means contract.DefaultWorkers
	Now              time.Time
}

// Deps are the collaborators of an analysis run.
type Deps struct {
	Source contract.DataSource
	Scorer contract.SentimentScorer // required only when sentiment is requested
	Config contract.AnalysisConfig
	Store  contract.AnalysisStore // optional
	Logger *slog.Logger           // optional
}

func (d Deps) logger() *slog.Logger {
	return logging.OrDefault(d.Logger)
}

// validate checks the collaborators and configuration shared by both entry points.
func (d Deps) validate(includeSentiment bool) error {
	if d.Source == nil {
		return contract.NewInputError("source", "a data source is required")
	}
	if includeSentiment && d.Scorer == nil {
		return contract.NewInputError("scorer", "sentiment requested without a scorer")
	}
	return d.Config.Validate()
}

// AnalyzeRepository runs the full pipeline for one repository. The identifier
// may be owner/name or a repository URL.
// Invalid input is rejected before any collaborator is called.
func AnalyzeRepository(ctx context.Context, req Request, deps Deps) (*schema.Report, error) {
	req.RepositoryID = contract.NormalizeRepositoryID(req.RepositoryID)
	if err := contract.ValidateRepositoryID(req.RepositoryID); err != nil {
		return nil, err
	}
	days := resolveDays(req.Days)
	window, err := contract.NewWindow(resolveNow(req.Now), days)
	if err != nil {
		return nil, err
	}
	if err := deps.validate(req.IncludeSentiment); err != nil {
		return nil, err
	}

	recorder := newRunRecorder(deps.Store, deps.logger())
	recorder.begin(days, 1, runParams(deps.Config, req.IncludeSentiment))
	defer recorder.end()

	classifier := classify.New(deps.Config.Domains)
	report, err := analyzeOne(ctx, req.RepositoryID, window, req.IncludeSentiment, classifier, deps)
	recorder.record(toResult(req.RepositoryID, report, err))
	return report, err
}

// analyzeOne runs the builder chain for one repository.
func analyzeOne(ctx context.Context, repoID string, window schema.Window, includeSentiment bool, classifier *classify.Classifier, deps Deps) (*schema.Report, error) {
	return NewReportBuilder(repoID, window, classifier, deps).
		FetchRecords(ctx).
		Normalize().
		Aggregate().
		ScoreSentiment(ctx, includeSentiment).
		ComputeStats().
		AssessRisk().
		Build()
}

// toResult converts an analysis outcome into a per-repository status.
func toResult(repoID string, report *schema.Report, err error) schema.RepositoryResult {
	if err != nil {
		return schema.RepositoryResult{RepositoryID: repoID, Status: schema.ErrorStatus, Error: err.Error()}
	}
	return schema.RepositoryResult{RepositoryID: repoID, Status: schema.OKStatus, Report: report}
}

func resolveDays(days int) int {
	if days == 0 {
		return contract.DefaultAnalysisDays
	}
	return days
}

func resolveNow(now time.Time) time.Time {
	if now.IsZero() {
		return time.Now()
	}
	return now
}

// runParams summarizes the active configuration for the run store.
func runParams(cfg contract.AnalysisConfig, includeSentiment bool) map[string]any {
	weights := make(map[string]float64, len(cfg.Weights))
	for name, w := range cfg.Weights {
		weights[string(name)] = w
	}
	return map[string]any{
		"sentiment":      includeSentiment,
		"weights":        weights,
		"thresholds":     cfg.Thresholds,
		"trend_buckets":  cfg.Trend.Buckets,
		"trend_ratio":    cfg.Trend.Threshold,
		"bots_filtered":  cfg.Bots.Enabled,
		"custom_domains": len(cfg.Domains.Custom),
	}
}
