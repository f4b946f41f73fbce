package agg

import (
	"testing"
	"time"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(t time.Time) string { return t.Format(time.RFC3339) }

func TestNormalizeCounts(t *testing.T) {
	w := testWindow(30)
	latency := 6.5
	negative := -1.0
	records := []schema.RawRecord{
		{Kind: "commit", Login: "Alice", Name: "Alice  Smith", Email: "alice@gmail.com", Timestamp: ts(w.Start.AddDate(0, 0, 1))},
		{Kind: "issue", Login: "bob", Timestamp: ts(w.Start.AddDate(0, 0, 2)), LatencyHours: &latency},
		{Kind: "pull_request_merged", Name: "Carol Jones", Timestamp: ts(w.Start.AddDate(0, 0, 3)), LatencyHours: &negative},
		{Kind: "commit", Login: "alice", RepositoryID: "other/repo", Timestamp: ts(w.Start.AddDate(0, 0, 4))},
		{Kind: "deployment", Login: "alice", Timestamp: ts(w.Start.AddDate(0, 0, 5))},
		{Kind: "commit", Login: "alice", Timestamp: "yesterday"},
		{Kind: "commit", Timestamp: ts(w.Start.AddDate(0, 0, 6))},
		{Kind: "commit", Login: "alice", Timestamp: ts(w.Start.AddDate(0, 0, -1))},
		{Kind: "commit", Login: "dependabot[bot]", Timestamp: ts(w.Start.AddDate(0, 0, 7))},
	}

	bots := NewBotFilter(contract.DefaultAnalysisConfig().Bots)
	result := Normalize(records, "huangsam/steward", w, bots)

	assert.Equal(t, 9, result.Total)
	assert.Equal(t, 1, result.OutOfRepository)
	assert.Equal(t, 3, result.Skipped)
	assert.Equal(t, 1, result.OutOfWindow)
	assert.Equal(t, 1, result.BotsFiltered)
	require.Len(t, result.Events, 3)

	alice := result.Events[0]
	assert.Equal(t, "alice", alice.ContributorID)
	assert.Equal(t, "Alice Smith", alice.DisplayName)
	assert.Equal(t, schema.CommitEvent, alice.Type)
	assert.Equal(t, "huangsam/steward", alice.RepositoryID)

	bob := result.Events[1]
	assert.Equal(t, schema.IssueOpenedEvent, bob.Type)
	assert.Equal(t, "bob", bob.DisplayName)
	require.NotNil(t, bob.ResponseLatency)
	assert.Equal(t, 6*time.Hour+30*time.Minute, *bob.ResponseLatency)

	carol := result.Events[2]
	assert.Equal(t, "carol jones", carol.ContributorID)
	assert.Equal(t, schema.PRMergedEvent, carol.Type)
	assert.Nil(t, carol.ResponseLatency)
}

func TestNormalizeWindowIsClosed(t *testing.T) {
	w := testWindow(30)
	records := []schema.RawRecord{
		{Kind: "commit", Login: "a", Timestamp: ts(w.Start)},
		{Kind: "commit", Login: "a", Timestamp: ts(w.End)},
		{Kind: "commit", Login: "a", Timestamp: ts(w.End.Add(time.Second))},
		{Kind: "commit", Login: "a", Timestamp: ts(w.Start.Add(-time.Second))},
	}
	result := Normalize(records, "huangsam/steward", w, nil)
	assert.Len(t, result.Events, 2)
	assert.Equal(t, 2, result.OutOfWindow)
}

func TestNormalizeKeepsBotsWithoutFilter(t *testing.T) {
	w := testWindow(30)
	records := []schema.RawRecord{
		{Kind: "commit", Login: "renovate[bot]", Timestamp: ts(w.Start.AddDate(0, 0, 1))},
	}
	result := Normalize(records, "huangsam/steward", w, nil)
	assert.Len(t, result.Events, 1)
	assert.Zero(t, result.BotsFiltered)
}

func TestNormalizeRepositoryMatchIgnoresCase(t *testing.T) {
	w := testWindow(30)
	records := []schema.RawRecord{
		{Kind: "commit", Login: "a", RepositoryID: "HuangSam/Steward", Timestamp: ts(w.Start.AddDate(0, 0, 1))},
	}
	result := Normalize(records, "huangsam/steward", w, nil)
	assert.Len(t, result.Events, 1)
}

func TestParseEventType(t *testing.T) {
	tests := []struct {
		kind string
		want schema.EventType
		ok   bool
	}{
		{"commit", schema.CommitEvent, true},
		{" Issue_Opened ", schema.IssueOpenedEvent, true},
		{"pr", schema.PROpenedEvent, true},
		{"pr_review", schema.ReviewEvent, true},
		{"issue_comment", schema.CommentEvent, true},
		{"pull_request_closed", schema.PRClosedEvent, true},
		{"release", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			got, ok := ParseEventType(tt.kind)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveIdentity(t *testing.T) {
	assert.Equal(t, "octocat", ResolveIdentity(" OctoCat ", "The Octocat"))
	assert.Equal(t, "jane doe", ResolveIdentity("", "  Jane   DOE "))
	assert.Empty(t, ResolveIdentity("", "   "))
}
