// Package core has core logic for analysis, risk scoring and comparison.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/huangsam/steward/core/classify"
	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/internal/outwriter"
	"github.com/huangsam/steward/internal/sentiment"
	"github.com/huangsam/steward/internal/source"
	"github.com/huangsam/steward/schema"
)

// NewDeps builds the collaborators selected in cfg. A scorer is only built
// when sentiment is requested.
func NewDeps(cfg *contract.Config, client contract.GitClient, mgr contract.StoreManager, logger *slog.Logger) (Deps, error) {
	src, err := source.New(cfg, client)
	if err != nil {
		return Deps{}, err
	}
	deps := Deps{Source: src, Config: cfg.Analysis, Logger: logger}
	if cfg.IncludeSentiment {
		scorer, err := sentiment.New(cfg)
		if err != nil {
			return Deps{}, err
		}
		deps.Scorer = scorer
	}
	if mgr != nil {
		deps.Store = mgr.GetAnalysisStore()
	}
	return deps, nil
}

// GetReportResult analyzes one repository with the settings in cfg.
func GetReportResult(ctx context.Context, cfg *contract.Config, repoID string, deps Deps) (*schema.Report, time.Duration, error) {
	start := time.Now()
	logAnalysisHeader(ctx, cfg, repoID)
	report, err := AnalyzeRepository(ctx, Request{
		RepositoryID:     repoID,
		Days:             cfg.Days,
		IncludeSentiment: cfg.IncludeSentiment,
	}, deps)
	return report, time.Since(start), err
}

// GetBatchResult analyzes and compares several repositories with the settings in cfg.
func GetBatchResult(ctx context.Context, cfg *contract.Config, repoIDs []string, deps Deps) (*schema.BatchReport, time.Duration, error) {
	start := time.Now()
	logAnalysisHeader(ctx, cfg, fmt.Sprintf("%d repositories", len(repoIDs)))
	batch, err := AnalyzeRepositories(ctx, BatchRequest{
		RepositoryIDs:    repoIDs,
		Days:             cfg.Days,
		IncludeSentiment: cfg.IncludeSentiment,
		Workers:          cfg.Workers,
	}, deps)
	return batch, time.Since(start), err
}

// ClassifyEmails classifies each address with the configured domain lists.
func ClassifyEmails(cfg *contract.Config, emails []string) []schema.ClassifiedEmail {
	classifier := classify.New(cfg.Analysis.Domains)
	out := make([]schema.ClassifiedEmail, 0, len(emails))
	for _, email := range emails {
		out = append(out, schema.ClassifiedEmail{
			Email:                email,
			DomainClassification: classifier.Classify(email),
		})
	}
	return out
}

// ExecuteAnalyze runs the single repository analysis and prints the report.
// It serves as the main entry point for the 'analyze' command.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, repoID string, deps Deps) error {
	report, duration, err := GetReportResult(ctx, cfg, repoID, deps)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteReport(report, cfg, duration)
}

// ExecuteCompare runs the batch analysis and prints the comparison.
// It serves as the main entry point for the 'compare' command.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, repoIDs []string, deps Deps) error {
	batch, duration, err := GetBatchResult(ctx, cfg, repoIDs, deps)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteBatch(batch, cfg, duration)
}

// ExecuteClassify prints the classification of each email address.
func ExecuteClassify(_ context.Context, cfg *contract.Config, emails []string) error {
	return outwriter.NewOutWriter().WriteClassifications(ClassifyEmails(cfg, emails), cfg)
}

// ExecuteMetrics displays the risk factor definitions with the active weights.
// This is a static display that does not fetch any repository data.
func ExecuteMetrics(_ context.Context, cfg *contract.Config) error {
	return outwriter.NewOutWriter().WriteMetrics(cfg)
}

// logAnalysisHeader prints a concise header to stderr, so reports on stdout stay parseable.
func logAnalysisHeader(ctx context.Context, cfg *contract.Config, subject string) {
	if shouldSuppressHeader(ctx) {
		return
	}
	days := resolveDays(cfg.Days)
	end := time.Now()
	fmt.Fprintf(os.Stderr, "🔎 Repo: %s (Source: %s)\n", subject, sourceName(cfg.Source))
	fmt.Fprintf(os.Stderr, "📅 Range: %s → %s\n",
		end.AddDate(0, 0, -days).Format(time.DateOnly), end.Format(time.DateOnly))
}

func sourceName(kind schema.SourceKind) schema.SourceKind {
	if kind == "" {
		return schema.GitHubSource
	}
	return kind
}
