package source

import (
	"context"
	"errors"
	"testing"

	"github.com/huangsam/steward/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sampleLog = "--a1\x1fJane Doe\x1fjane@google.com\x1f2026-06-01T10:00:00+02:00\x1fFix: handle | pipes\n" +
	"--a2\x1fBob\x1fbob@gmail.com\x1f2026-06-02T10:00:00Z\x1fDocs\n" +
	"--broken line\n"

func TestParseCommitLog(t *testing.T) {
	records := ParseCommitLog([]byte(sampleLog), "o/r")
	require.Len(t, records, 3)

	assert.Equal(t, "commit", records[0].Kind)
	assert.Equal(t, "Jane Doe", records[0].Name)
	assert.Equal(t, "jane@google.com", records[0].Email)
	assert.Equal(t, "2026-06-01T10:00:00+02:00", records[0].Timestamp)
	assert.Equal(t, "Fix: handle | pipes", records[0].Text)
	assert.Equal(t, "o/r", records[0].RepositoryID)

	// Malformed lines are kept without a timestamp so they are counted as skipped
	assert.Empty(t, records[2].Timestamp)

	assert.Empty(t, ParseCommitLog(nil, "o/r"))
}

func TestGitSourceFetchEvents(t *testing.T) {
	client := &contract.MockGitClient{}
	client.On("GetRemoteURL", mock.Anything, "/repo", "origin").Return("git@github.com:o/r.git", nil)
	client.On("GetCommitLog", mock.Anything, "/repo", mock.Anything, mock.Anything).Return([]byte(sampleLog), nil)

	records, err := NewGitSource(client, "/repo").FetchEvents(context.Background(), "O/R", testWindow())
	require.NoError(t, err)
	assert.Len(t, records, 3)
	client.AssertExpectations(t)
}

func TestGitSourceRejectsOtherRepository(t *testing.T) {
	client := &contract.MockGitClient{}
	client.On("GetRemoteURL", mock.Anything, "/repo", "origin").Return("https://github.com/o/r", nil)

	_, err := NewGitSource(client, "/repo").FetchEvents(context.Background(), "x/y", testWindow())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is o/r, not x/y")
	client.AssertNotCalled(t, "GetCommitLog", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGitSourceWithoutRemote(t *testing.T) {
	client := &contract.MockGitClient{}
	client.On("GetRemoteURL", mock.Anything, "/repo", "origin").Return("", errors.New("no such remote"))
	client.On("GetCommitLog", mock.Anything, "/repo", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, err := NewGitSource(client, "/repo").FetchEvents(context.Background(), "a/b", testWindow())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read commit log")
}
