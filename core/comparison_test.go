package core

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// commitsFor returns n commits by one contributor in repoID.
func commitsFor(repoID, login string, n int) []schema.RawRecord {
	records := make([]schema.RawRecord, 0, n)
	for i := range n {
		records = append(records, schema.RawRecord{
			Kind:         "commit",
			RepositoryID: repoID,
			Login:        login,
			Email:        login + "@google.com",
			Timestamp:    daysAgo(i + 1),
		})
	}
	return records
}

func TestAnalyzeRepositories(t *testing.T) {
	src := &contract.MockDataSource{}
	src.On("FetchEvents", mock.Anything, "acme/widget", mock.Anything).Return(commitsFor("acme/widget", "alice", 8), nil).Once()
	src.On("FetchEvents", mock.Anything, "acme/gadget", mock.Anything).
		Return(append(commitsFor("acme/gadget", "bob", 3), commitsFor("acme/gadget", "carol", 3)...), nil).Once()
	src.On("FetchEvents", mock.Anything, "acme/gone", mock.Anything).Return(nil, errors.New("404 Not Found")).Once()

	batch, err := AnalyzeRepositories(context.Background(), BatchRequest{
		RepositoryIDs: []string{"acme/widget", "acme/gone", " acme/widget ", "acme/gadget"},
		Days:          30,
		Workers:       2,
		Now:           testNow,
	}, testDeps(src))
	require.NoError(t, err)
	src.AssertExpectations(t)

	assert.Equal(t, 30, batch.Days)
	require.Len(t, batch.Results, 3, "duplicates are analyzed once")
	ids := []string{batch.Results[0].RepositoryID, batch.Results[1].RepositoryID, batch.Results[2].RepositoryID}
	assert.Equal(t, []string{"acme/gadget", "acme/gone", "acme/widget"}, ids)

	gone := batch.Results[1]
	assert.Equal(t, schema.ErrorStatus, gone.Status)
	assert.Nil(t, gone.Report)
	assert.Contains(t, gone.Error, "404 Not Found")

	for _, i := range []int{0, 2} {
		assert.Equal(t, schema.OKStatus, batch.Results[i].Status)
		require.NotNil(t, batch.Results[i].Report)
		assert.Empty(t, batch.Results[i].Error)
	}

	s := batch.Summary
	assert.Equal(t, 2, s.OK)
	assert.Equal(t, 1, s.Errors)
	require.Len(t, s.ByRisk, 2)
	assert.Equal(t, "acme/widget", s.ByRisk[0].RepositoryID, "a single contributor is the riskier repository")
	assert.Equal(t, 1, s.ByRisk[0].Rank)
	assert.Equal(t, 2, s.ByRisk[1].Rank)
}

func TestAnalyzeRepositoriesAllFail(t *testing.T) {
	src := &contract.MockDataSource{}
	src.On("FetchEvents", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	batch, err := AnalyzeRepositories(context.Background(), BatchRequest{RepositoryIDs: []string{"a/b", "c/d"}, Now: testNow}, testDeps(src))
	require.NoError(t, err, "per-repository failures never fail the batch")
	assert.Equal(t, 0, batch.Summary.OK)
	assert.Equal(t, 2, batch.Summary.Errors)
	assert.Empty(t, batch.Summary.ByRisk)
}

func TestAnalyzeRepositoriesInvalidIDBecomesError(t *testing.T) {
	src := &contract.MockDataSource{}
	src.On("FetchEvents", mock.Anything, "acme/widget", mock.Anything).Return(commitsFor("acme/widget", "alice", 2), nil)

	batch, err := AnalyzeRepositories(context.Background(), BatchRequest{RepositoryIDs: []string{"acme/widget", "nope"}, Now: testNow}, testDeps(src))
	require.NoError(t, err)
	require.Len(t, batch.Results, 2)
	assert.Equal(t, "nope", batch.Results[1].RepositoryID)
	assert.Equal(t, schema.ErrorStatus, batch.Results[1].Status)
	src.AssertNotCalled(t, "FetchEvents", mock.Anything, "nope", mock.Anything)
}

func TestAnalyzeRepositoriesNormalizesURLs(t *testing.T) {
	src := &contract.MockDataSource{}
	src.On("FetchEvents", mock.Anything, "acme/widget", mock.Anything).Return(commitsFor("acme/widget", "alice", 2), nil).Once()

	batch, err := AnalyzeRepositories(context.Background(), BatchRequest{
		RepositoryIDs: []string{"https://github.com/acme/widget", "acme/widget", "git@github.com:acme/widget.git"},
		Now:           testNow,
	}, testDeps(src))
	require.NoError(t, err)
	src.AssertExpectations(t)
	require.Len(t, batch.Results, 1)
	assert.Equal(t, "acme/widget", batch.Results[0].RepositoryID)
	assert.Equal(t, schema.OKStatus, batch.Results[0].Status)
}

func TestAnalyzeRepositoriesInvalidRequest(t *testing.T) {
	src := &contract.MockDataSource{}
	tooMany := make([]string, contract.MaxBatchRepositories+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("org/repo%d", i)
	}

	tests := []struct {
		name string
		req  BatchRequest
	}{
		{"empty list", BatchRequest{}},
		{"too many repositories", BatchRequest{RepositoryIDs: tooMany}},
		{"days out of range", BatchRequest{RepositoryIDs: []string{"a/b"}, Days: 366}},
		{"sentiment without scorer", BatchRequest{RepositoryIDs: []string{"a/b"}, IncludeSentiment: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AnalyzeRepositories(context.Background(), tt.req, testDeps(src))
			require.Error(t, err)
			assert.ErrorIs(t, err, contract.ErrInvalidInput)
		})
	}
	src.AssertNotCalled(t, "FetchEvents", mock.Anything, mock.Anything, mock.Anything)
}

// concurrencySource counts the peak number of concurrent fetches.
type concurrencySource struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (s *concurrencySource) FetchEvents(_ context.Context, repoID string, _ schema.Window) ([]schema.RawRecord, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	return commitsFor(repoID, "alice", 1), nil
}

func TestAnalyzeRepositoriesRespectsWorkerLimit(t *testing.T) {
	src := &concurrencySource{}
	ids := make([]string, 8)
	for i := range ids {
		ids[i] = fmt.Sprintf("org/repo%d", i)
	}

	batch, err := AnalyzeRepositories(context.Background(), BatchRequest{RepositoryIDs: ids, Workers: 2, Now: testNow}, testDeps(src))
	require.NoError(t, err)
	assert.Equal(t, 8, batch.Summary.OK)
	assert.LessOrEqual(t, src.peak.Load(), int32(2))
}

func TestAnalyzeRepositoriesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &contract.MockDataSource{}

	batch, err := AnalyzeRepositories(ctx, BatchRequest{RepositoryIDs: []string{"a/b", "c/d"}, Now: testNow}, testDeps(src))
	require.NoError(t, err)
	for _, r := range batch.Results {
		assert.Equal(t, schema.ErrorStatus, r.Status)
		assert.Contains(t, r.Error, context.Canceled.Error())
	}
	src.AssertNotCalled(t, "FetchEvents", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzeRepositoriesRecordsOneRun(t *testing.T) {
	src := &contract.MockDataSource{}
	src.On("FetchEvents", mock.Anything, "a/b", mock.Anything).Return(commitsFor("a/b", "alice", 2), nil)
	src.On("FetchEvents", mock.Anything, "c/d", mock.Anything).Return(nil, errors.New("boom"))
	store := &contract.MockAnalysisStore{}
	store.On("BeginRun", mock.Anything, 365, 2, mock.Anything).Return("run-7", nil).Once()
	store.On("RecordResult", "run-7", mock.Anything).Return(nil).Twice()
	store.On("EndRun", "run-7", mock.Anything).Return(nil).Once()

	deps := testDeps(src)
	deps.Store = store
	_, err := AnalyzeRepositories(context.Background(), BatchRequest{RepositoryIDs: []string{"a/b", "c/d"}, Now: testNow}, deps)
	require.NoError(t, err)
	store.AssertExpectations(t)
}
