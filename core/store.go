package core

import (
	"log/slog"
	"sync"
	"time"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
)

// runRecorder writes run tracking rows when a store is configured.
// Store failures are logged and never fail an analysis.
type runRecorder struct {
	store  contract.AnalysisStore
	logger *slog.Logger
	mu     sync.Mutex
	runID  string
}

func newRunRecorder(store contract.AnalysisStore, logger *slog.Logger) *runRecorder {
	return &runRecorder{store: store, logger: logger}
}

func (r *runRecorder) begin(days, repositories int, params map[string]any) {
	if r.store == nil {
		return
	}
	runID, err := r.store.BeginRun(time.Now(), days, repositories, params)
	if err != nil {
		r.logger.Warn("analysis tracking initialization failed", "error", err)
		return
	}
	r.runID = runID
	r.logger.Debug("began analysis run", "run_id", runID)
}

// record is safe for concurrent use by batch workers.
func (r *runRecorder) record(result schema.RepositoryResult) {
	if r.store == nil || r.runID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.RecordResult(r.runID, result); err != nil {
		r.logger.Warn("failed to record repository result", "repository", result.RepositoryID, "error", err)
	}
}

func (r *runRecorder) end() {
	if r.store == nil || r.runID == "" {
		return
	}
	if err := r.store.EndRun(r.runID, time.Now()); err != nil {
		r.logger.Warn("failed to finalize analysis tracking", "run_id", r.runID, "error", err)
	}
}

