package core

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/huangsam/steward/core/agg"
	"github.com/huangsam/steward/core/algo"
	"github.com/huangsam/steward/core/classify"
	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
)

// Collaborator names used in CollaboratorFailure errors.
const (
	dataSourceName = "data source"
	scorerName     = "sentiment scorer"
)

// ReportBuilder builds the report for one repository. Each step is a no-op
// once an earlier step failed, and Build returns that first error.
type ReportBuilder struct {
	repoID     string
	window     schema.Window
	deps       Deps
	logger     *slog.Logger
	cache      *classify.Cache
	bots       *agg.BotFilter
	records    []schema.RawRecord
	normalized schema.NormalizeResult
	profiles   map[string]*schema.ContributorProfile
	ranked     []schema.ContributorProfile
	sentiment  *schema.SentimentSummary
	stats      schema.RepositoryStats
	risk       schema.RiskAssessment
	err        error
}

// NewReportBuilder is the starting point for building a repository report.
// The classifier is shared across a batch; the cache belongs to this run only.
func NewReportBuilder(repoID string, window schema.Window, classifier *classify.Classifier, deps Deps) *ReportBuilder {
	return &ReportBuilder{
		repoID: repoID,
		window: window,
		deps:   deps,
		logger: deps.logger().With("repository", repoID),
		cache:  classify.NewCache(classifier),
		bots:   agg.NewBotFilter(deps.Config.Bots),
	}
}

// FetchRecords pulls raw records for the window from the data source.
func (b *ReportBuilder) FetchRecords(ctx context.Context) *ReportBuilder {
	if b.err != nil {
		return b
	}
	if err := ctx.Err(); err != nil {
		b.err = err
		return b
	}
	records, err := b.deps.Source.FetchEvents(ctx, b.repoID, b.window)
	if err != nil {
		b.err = contract.NewCollaboratorFailure(dataSourceName, b.repoID, err)
		return b
	}
	b.records = records
	b.logger.Debug("fetched records", "count", len(records))
	return b
}

// Normalize turns raw records into events and logs what was dropped.
func (b *ReportBuilder) Normalize() *ReportBuilder {
	if b.err != nil {
		return b
	}
	b.normalized = agg.Normalize(b.records, b.repoID, b.window, b.bots)
	if b.normalized.Skipped > 0 {
		partial := &contract.PartialDataError{RepositoryID: b.repoID, Skipped: b.normalized.Skipped, Total: b.normalized.Total}
		b.logger.Warn("partial data", "error", partial)
	}
	b.logger.Debug("normalized records",
		"events", len(b.normalized.Events),
		"out_of_window", b.normalized.OutOfWindow,
		"out_of_repository", b.normalized.OutOfRepository,
		"bots", b.normalized.BotsFiltered)
	return b
}

// Aggregate builds contributor profiles from the normalized events.
func (b *ReportBuilder) Aggregate() *ReportBuilder {
	if b.err != nil {
		return b
	}
	b.profiles = agg.Aggregate(b.normalized.Events, b.window, b.deps.Config.Trend, b.cache)
	b.logger.Debug("aggregated contributors", "contributors", len(b.profiles), "domains_cached", b.cache.Len(), "domain_cache_hits", b.cache.Hits())
	return b
}

// ScoreSentiment scores qualifying texts and attaches per-contributor summaries.
// Nothing happens when sentiment is disabled, so the report carries no summary.
func (b *ReportBuilder) ScoreSentiment(ctx context.Context, enabled bool) *ReportBuilder {
	if b.err != nil || !enabled {
		return b
	}

	var scored []schema.ScoredText
	attempts, failures := 0, 0
	var lastErr error
	for _, ev := range b.normalized.Events {
		if !qualifiesForSentiment(ev, b.deps.Config.SentimentCommits) {
			continue
		}
		if err := ctx.Err(); err != nil {
			b.err = err
			return b
		}
		attempts++
		score, err := b.deps.Scorer.Score(ctx, ev.Text)
		if err == nil && (math.IsNaN(score) || math.IsInf(score, 0)) {
			err = contract.NewComputationError("sentiment score", "scorer returned a non-finite value")
		}
		if err != nil {
			failures++
			lastErr = err
			continue
		}
		scored = append(scored, schema.ScoredText{ContributorID: ev.ContributorID, Score: score})
	}

	if attempts > 0 && failures == attempts {
		b.err = contract.NewCollaboratorFailure(scorerName, b.repoID, lastErr)
		return b
	}
	if failures > 0 {
		b.logger.Warn("sentiment scoring skipped texts", "failed", failures, "attempted", attempts, "error", lastErr)
	}

	perContributor, repo := algo.Summarize(scored, b.deps.Config.Sentiment)
	repo.Skipped = failures
	for id, summary := range perContributor {
		if p, ok := b.profiles[id]; ok {
			p.Sentiment = summary
		}
	}
	b.sentiment = repo
	return b
}

// ComputeStats ranks contributors and derives repository statistics.
func (b *ReportBuilder) ComputeStats() *ReportBuilder {
	if b.err != nil {
		return b
	}
	b.ranked = agg.RankContributors(b.profiles)
	b.stats = algo.ComputeStats(b.normalized.Events, b.window.Days)
	return b
}

// AssessRisk scores the repository and attaches recommendations.
func (b *ReportBuilder) AssessRisk() *ReportBuilder {
	if b.err != nil {
		return b
	}
	in := algo.RiskInput{Ranked: b.ranked, Stats: b.stats, Sentiment: b.sentiment}
	b.risk = algo.AssessRisk(in, b.deps.Config)
	b.risk.Recommendations = algo.Recommend(in, algo.ComputeDistribution(b.ranked), b.deps.Config)
	b.logger.Info("assessed risk", "score", b.risk.OverallScore, "severity", b.risk.Severity)
	return b
}

// Build finalizes the construction and returns the completed report.
func (b *ReportBuilder) Build() (*schema.Report, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &schema.Report{
		RepositoryID:         b.repoID,
		GeneratedAt:          time.Now().UTC(),
		Window:               b.window,
		Contributors:         b.ranked,
		DomainBreakdown:      domainBreakdown(b.ranked),
		ActivityDistribution: algo.ComputeDistribution(b.ranked),
		Sentiment:            b.sentiment,
		Stats:                b.stats,
		Risk:                 b.risk,
		Normalization:        b.normalized,
	}, nil
}

// qualifiesForSentiment reports whether an event's text goes to the scorer.
func qualifiesForSentiment(ev schema.ContributorEvent, includeCommits bool) bool {
	if ev.Text == "" {
		return false
	}
	switch ev.Type {
	case schema.CommentEvent, schema.ReviewEvent:
		return true
	case schema.CommitEvent:
		return includeCommits
	default:
		return false
	}
}

// domainBreakdown counts contributors per domain category, zero-filled.
func domainBreakdown(profiles []schema.ContributorProfile) map[schema.DomainCategory]int {
	counts := make(map[schema.DomainCategory]int, len(schema.AllDomainCategories))
	for _, c := range schema.AllDomainCategories {
		counts[c] = 0
	}
	for _, p := range profiles {
		counts[p.Classification.Category]++
	}
	return counts
}
