package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/huangsam/steward/core/algo"
	"github.com/huangsam/steward/core/classify"
	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
	"golang.org/x/sync/errgroup"
)

// AnalyzeRepositories analyzes each repository concurrently and compares the results.
// Per-repository failures become error statuses; the batch itself only fails on
// invalid request-level input.
func AnalyzeRepositories(ctx context.Context, req BatchRequest, deps Deps) (*schema.BatchReport, error) {
	ids := contract.DedupeRepositoryIDs(req.RepositoryIDs)
	if len(ids) == 0 {
		return nil, contract.NewInputError("repositories", "at least one repository is required")
	}
	if len(ids) > contract.MaxBatchRepositories {
		return nil, contract.NewInputError("repositories", "%d exceeds the limit of %d", len(ids), contract.MaxBatchRepositories)
	}
	days := resolveDays(req.Days)
	window, err := contract.NewWindow(resolveNow(req.Now), days)
	if err != nil {
		return nil, err
	}
	if err := deps.validate(req.IncludeSentiment); err != nil {
		return nil, err
	}

	workers := req.Workers
	if workers <= 0 {
		workers = contract.DefaultWorkers
	}

	logger := deps.logger()
	recorder := newRunRecorder(deps.Store, logger)
	recorder.begin(days, len(ids), runParams(deps.Config, req.IncludeSentiment))
	defer recorder.end()

	classifier := classify.New(deps.Config.Domains)
	results := make([]schema.RepositoryResult, len(ids))

	// Workers never return errors to the group; failures are recorded per slot
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, id := range ids {
		g.Go(func() error {
			results[i] = analyzeSlot(ctx, id, window, req.IncludeSentiment, classifier, deps)
			recorder.record(results[i])
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].RepositoryID < results[j].RepositoryID
	})

	summary := algo.SummarizeComparison(results)
	logger.Info("compared repositories", "ok", summary.OK, "errors", summary.Errors, "workers", workers)

	return &schema.BatchReport{
		GeneratedAt: time.Now().UTC(),
		Days:        days,
		Results:     results,
		Summary:     summary,
	}, nil
}

// analyzeSlot analyzes one batch entry, turning invalid IDs, cancellation and
// panics into error statuses.
func analyzeSlot(ctx context.Context, id string, window schema.Window, includeSentiment bool, classifier *classify.Classifier, deps Deps) (result schema.RepositoryResult) {
	defer func() {
		if r := recover(); r != nil {
			err := contract.NewComputationError("analyze "+id, fmt.Sprint(r))
			result = toResult(id, nil, err)
		}
	}()

	if err := contract.ValidateRepositoryID(id); err != nil {
		return toResult(id, nil, err)
	}
	if err := ctx.Err(); err != nil {
		return toResult(id, nil, fmt.Errorf("analysis abandoned: %w", err))
	}
	report, err := analyzeOne(ctx, id, window, includeSentiment, classifier, deps)
	return toResult(id, report, err)
}
