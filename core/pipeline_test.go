package core

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/internal/logging"
	"github.com/huangsam/steward/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) string {
	return testNow.AddDate(0, 0, -d).Format(time.RFC3339)
}

func latency(h float64) *float64 { return &h }

// sampleRecords has three contributors in acme/widget plus records that must be dropped.
func sampleRecords() []schema.RawRecord {
	return []schema.RawRecord{
		{Kind: "commit", RepositoryID: "acme/widget", Login: "alice", Email: "alice@google.com", Timestamp: daysAgo(20), Text: "Refactor parser"},
		{Kind: "commit", RepositoryID: "acme/widget", Login: "alice", Email: "alice@google.com", Timestamp: daysAgo(12)},
		{Kind: "commit", RepositoryID: "acme/widget", Login: "alice", Email: "alice@google.com", Timestamp: daysAgo(3)},
		{Kind: "review", RepositoryID: "acme/widget", Login: "alice", Timestamp: daysAgo(2), Text: "This is broken and confusing"},
		{Kind: "commit", RepositoryID: "acme/widget", Login: "bob", Email: "bob@stanford.edu", Timestamp: daysAgo(10)},
		{Kind: "comment", Login: "carol", Email: "carol@gmail.com", Timestamp: daysAgo(5), Text: "Great work, thanks!"},
		{Kind: "issue_opened", RepositoryID: "acme/widget", Login: "carol", Timestamp: daysAgo(9)},
		{Kind: "issue_closed", RepositoryID: "acme/widget", Login: "alice", Timestamp: daysAgo(8), LatencyHours: latency(24)},
		// Dropped: out of window, other repository, bot, unknown kind
		{Kind: "commit", RepositoryID: "acme/widget", Login: "alice", Timestamp: daysAgo(90)},
		{Kind: "commit", RepositoryID: "other/repo", Login: "dave", Timestamp: daysAgo(1)},
		{Kind: "commit", RepositoryID: "acme/widget", Login: "dependabot[bot]", Timestamp: daysAgo(1)},
		{Kind: "deploy", RepositoryID: "acme/widget", Login: "erin", Timestamp: daysAgo(1)},
	}
}

func testDeps(src contract.DataSource) Deps {
	return Deps{Source: src, Config: contract.DefaultAnalysisConfig(), Logger: logging.Discard()}
}

func TestAnalyzeRepository(t *testing.T) {
	src := &contract.MockDataSource{}
	src.On("FetchEvents", mock.Anything, "acme/widget", mock.MatchedBy(func(w schema.Window) bool {
		return w.Days == 30 && w.End.Equal(testNow)
	})).Return(sampleRecords(), nil).Once()

	report, err := AnalyzeRepository(context.Background(), Request{RepositoryID: "acme/widget", Days: 30, Now: testNow}, testDeps(src))
	require.NoError(t, err)
	src.AssertExpectations(t)

	assert.Equal(t, "acme/widget", report.RepositoryID)
	assert.Equal(t, 30, report.Window.Days)

	n := report.Normalization
	assert.Equal(t, 12, n.Total)
	assert.Equal(t, 1, n.OutOfWindow)
	assert.Equal(t, 1, n.OutOfRepository)
	assert.Equal(t, 1, n.BotsFiltered)
	assert.Equal(t, 1, n.Skipped)

	require.Len(t, report.Contributors, 3)
	assert.Equal(t, "alice", report.Contributors[0].ContributorID)
	assert.Equal(t, 5, report.Contributors[0].TotalActivity)
	assert.Equal(t, schema.CompanyDomain, report.Contributors[0].Classification.Category)
	assert.Equal(t, "carol", report.Contributors[1].ContributorID)
	assert.Equal(t, 2, report.Contributors[1].TotalActivity, "records without a repository belong to the requested one")
	assert.Equal(t, schema.PersonalDomain, report.Contributors[1].Classification.Category)
	assert.Equal(t, "bob", report.Contributors[2].ContributorID)
	assert.Equal(t, schema.AcademicDomain, report.Contributors[2].Classification.Category)

	assert.Equal(t, map[schema.DomainCategory]int{
		schema.CompanyDomain:  1,
		schema.AcademicDomain: 1,
		schema.PersonalDomain: 1,
		schema.UnknownDomain:  0,
	}, report.DomainBreakdown)

	assert.Equal(t, 4, report.Stats.Commits)
	assert.Nil(t, report.Sentiment, "sentiment is opt-in")
	for _, p := range report.Contributors {
		assert.Nil(t, p.Sentiment)
	}
	assert.GreaterOrEqual(t, report.Risk.OverallScore, 0.0)
	assert.LessOrEqual(t, report.Risk.OverallScore, 100.0)
	assert.Len(t, report.Risk.ContributingFactors, len(schema.AllFactors))
}

func TestAnalyzeRepositoryWithSentiment(t *testing.T) {
	src := &contract.MockDataSource{}
	src.On("FetchEvents", mock.Anything, "acme/widget", mock.Anything).Return(sampleRecords(), nil)
	scorer := &contract.MockScorer{}
	scorer.On("Score", mock.Anything, "Great work, thanks!").Return(0.8, nil).Once()
	scorer.On("Score", mock.Anything, "This is broken and confusing").Return(-0.6, nil).Once()

	deps := testDeps(src)
	deps.Scorer = scorer
	report, err := AnalyzeRepository(context.Background(), Request{RepositoryID: "acme/widget", Days: 30, IncludeSentiment: true, Now: testNow}, deps)
	require.NoError(t, err)
	scorer.AssertExpectations(t)

	require.NotNil(t, report.Sentiment)
	assert.Equal(t, 2, report.Sentiment.SampleCount)
	assert.InDelta(t, 0.1, report.Sentiment.MeanScore, 1e-9)
	assert.Equal(t, 1, report.Sentiment.Distribution.Positive)
	assert.Equal(t, 1, report.Sentiment.Distribution.Negative)
	require.NotNil(t, report.Contributors[0].Sentiment)
	assert.InDelta(t, -0.6, report.Contributors[0].Sentiment.MeanScore, 1e-9)
	require.NotNil(t, report.Contributors[1].Sentiment)
	assert.InDelta(t, 0.8, report.Contributors[1].Sentiment.MeanScore, 1e-9)
	assert.Nil(t, report.Contributors[2].Sentiment, "bob wrote no scorable text")
}

func TestAnalyzeRepositorySentimentFailures(t *testing.T) {
	src := &contract.MockDataSource{}
	src.On("FetchEvents", mock.Anything, "acme/widget", mock.Anything).Return(sampleRecords(), nil)

	t.Run("partial failure skips texts", func(t *testing.T) {
		scorer := &contract.MockScorer{}
		scorer.On("Score", mock.Anything, "Great work, thanks!").Return(0.8, nil)
		scorer.On("Score", mock.Anything, "This is broken and confusing").Return(0.0, errors.New("rate limited"))
		deps := testDeps(src)
		deps.Scorer = scorer

		report, err := AnalyzeRepository(context.Background(), Request{RepositoryID: "acme/widget", Days: 30, IncludeSentiment: true, Now: testNow}, deps)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Sentiment.SampleCount)
		assert.Equal(t, 1, report.Sentiment.Skipped)
	})

	t.Run("total failure fails the repository", func(t *testing.T) {
		scorer := &contract.MockScorer{}
		scorer.On("Score", mock.Anything, mock.Anything).Return(0.0, errors.New("unauthorized"))
		deps := testDeps(src)
		deps.Scorer = scorer

		_, err := AnalyzeRepository(context.Background(), Request{RepositoryID: "acme/widget", Days: 30, IncludeSentiment: true, Now: testNow}, deps)
		require.Error(t, err)
		assert.ErrorIs(t, err, contract.ErrCollaboratorFailure)
		assert.Contains(t, err.Error(), "unauthorized")
	})
}

func TestAnalyzeRepositoryInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		deps func(Deps) Deps
	}{
		{"malformed repository", Request{RepositoryID: "widget"}, nil},
		{"empty repository", Request{RepositoryID: " "}, nil},
		{"days too large", Request{RepositoryID: "acme/widget", Days: 400}, nil},
		{"negative days", Request{RepositoryID: "acme/widget", Days: -1}, nil},
		{"sentiment without scorer", Request{RepositoryID: "acme/widget", IncludeSentiment: true}, nil},
		{"no source", Request{RepositoryID: "acme/widget"}, func(d Deps) Deps { d.Source = nil; return d }},
		{"weight out of range", Request{RepositoryID: "acme/widget"}, func(d Deps) Deps {
			d.Config.Weights[schema.FactorCloseRate] = 1.5
			return d
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &contract.MockDataSource{}
			deps := testDeps(src)
			if tt.deps != nil {
				deps = tt.deps(deps)
			}
			_, err := AnalyzeRepository(context.Background(), tt.req, deps)
			require.Error(t, err)
			src.AssertNotCalled(t, "FetchEvents", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAnalyzeRepositoryAcceptsURL(t *testing.T) {
	src := &contract.MockDataSource{}
	src.On("FetchEvents", mock.Anything, "acme/widget", mock.Anything).Return(sampleRecords(), nil).Once()

	report, err := AnalyzeRepository(context.Background(), Request{RepositoryID: "https://github.com/acme/widget.git", Days: 30, Now: testNow}, testDeps(src))
	require.NoError(t, err)
	src.AssertExpectations(t)
	assert.Equal(t, "acme/widget", report.RepositoryID)
	assert.Len(t, report.Contributors, 3)
}

func TestAnalyzeRepositorySourceFailure(t *testing.T) {
	cause := errors.New("404 Not Found")
	src := &contract.MockDataSource{}
	src.On("FetchEvents", mock.Anything, "acme/gone", mock.Anything).Return(nil, cause)

	_, err := AnalyzeRepository(context.Background(), Request{RepositoryID: "acme/gone", Now: testNow}, testDeps(src))
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrCollaboratorFailure)
	assert.ErrorIs(t, err, cause)
}

func TestAnalyzeRepositoryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &contract.MockDataSource{}

	_, err := AnalyzeRepository(ctx, Request{RepositoryID: "acme/widget", Now: testNow}, testDeps(src))
	assert.ErrorIs(t, err, context.Canceled)
	src.AssertNotCalled(t, "FetchEvents", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzeRepositoryNoActivity(t *testing.T) {
	src := &contract.MockDataSource{}
	src.On("FetchEvents", mock.Anything, "acme/quiet", mock.Anything).Return([]schema.RawRecord{}, nil)

	report, err := AnalyzeRepository(context.Background(), Request{RepositoryID: "acme/quiet", Now: testNow}, testDeps(src))
	require.NoError(t, err)
	assert.Empty(t, report.Contributors)
	assert.Equal(t, 365, report.Window.Days, "zero days means the default window")
	assert.Zero(t, report.Stats.Commits)
	assert.Zero(t, report.Stats.CommitFrequency)
}

func TestAnalyzeRepositoryRecordsRun(t *testing.T) {
	src := &contract.MockDataSource{}
	src.On("FetchEvents", mock.Anything, "acme/widget", mock.Anything).Return(sampleRecords(), nil)
	store := &contract.MockAnalysisStore{}
	store.On("BeginRun", mock.Anything, 30, 1, mock.Anything).Return("run-1", nil).Once()
	store.On("RecordResult", "run-1", mock.MatchedBy(func(r schema.RepositoryResult) bool {
		return r.RepositoryID == "acme/widget" && r.Status == schema.OKStatus && r.Report != nil
	})).Return(nil).Once()
	store.On("EndRun", "run-1", mock.Anything).Return(nil).Once()

	deps := testDeps(src)
	deps.Store = store
	_, err := AnalyzeRepository(context.Background(), Request{RepositoryID: "acme/widget", Days: 30, Now: testNow}, deps)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestAnalyzeRepositoryStoreFailureIsNotFatal(t *testing.T) {
	src := &contract.MockDataSource{}
	src.On("FetchEvents", mock.Anything, "acme/widget", mock.Anything).Return(sampleRecords(), nil)
	store := &contract.MockAnalysisStore{}
	store.On("BeginRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("disk full"))

	deps := testDeps(src)
	deps.Store = store
	report, err := AnalyzeRepository(context.Background(), Request{RepositoryID: "acme/widget", Now: testNow}, deps)
	require.NoError(t, err)
	assert.NotNil(t, report)
	store.AssertNotCalled(t, "RecordResult", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything)
}

func TestAnalyzeRepositoryLogsDomainCache(t *testing.T) {
	records := append(commitsFor("acme/widget", "alice", 2), commitsFor("acme/widget", "bob", 2)...)
	src := &contract.MockDataSource{}
	src.On("FetchEvents", mock.Anything, "acme/widget", mock.Anything).Return(records, nil)

	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{Level: "debug", Format: logging.JSONFormat, Output: &buf})
	require.NoError(t, err)
	deps := testDeps(src)
	deps.Logger = logger

	_, err = AnalyzeRepository(context.Background(), Request{RepositoryID: "acme/widget", Now: testNow}, deps)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"domains_cached":1`)
	assert.Contains(t, buf.String(), `"domain_cache_hits":1`, "both contributors share google.com")
}

func TestQualifiesForSentiment(t *testing.T) {
	tests := []struct {
		name    string
		ev      schema.ContributorEvent
		commits bool
		want    bool
	}{
		{"comment", schema.ContributorEvent{Type: schema.CommentEvent, Text: "hi"}, false, true},
		{"review", schema.ContributorEvent{Type: schema.ReviewEvent, Text: "ok"}, false, true},
		{"empty text", schema.ContributorEvent{Type: schema.CommentEvent}, false, false},
		{"commit excluded", schema.ContributorEvent{Type: schema.CommitEvent, Text: "fix"}, false, false},
		{"commit included", schema.ContributorEvent{Type: schema.CommitEvent, Text: "fix"}, true, true},
		{"issue", schema.ContributorEvent{Type: schema.IssueOpenedEvent, Text: "bug"}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, qualifiesForSentiment(tt.ev, tt.commits))
		})
	}
}
