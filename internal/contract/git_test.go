package contract

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfGitNotAvailable skips the test if git binary is not found in PATH
func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// initTestRepo creates a repository with a single commit authored by Jane Doe.
func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Jane Doe", "GIT_AUTHOR_EMAIL=jane@example.edu",
			"GIT_COMMITTER_NAME=Jane Doe", "GIT_COMMITTER_EMAIL=jane@example.edu",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	run("init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("steward\n"), 0o600))
	run("add", "README.md")
	run("commit", "-q", "-m", "Add readme")
	run("remote", "add", "origin", "https://github.com/huangsam/steward.git")
	return dir
}

// TestMockGitClient_Run ensures the mock correctly records and returns
// expected values when its Run method is called.
func TestMockGitClient_Run(t *testing.T) {
	mockClient := new(MockGitClient)
	ctx := context.Background()
	args := []string{"log", "-1", "--oneline"}
	expectedOutput := []byte("a1b2c3d commit message")
	expectedError := errors.New("mocked git error")

	mockClient.On("Run", ctx, "/path/to/repo", args).Return(expectedOutput, expectedError).Once()

	out, err := mockClient.Run(ctx, "/path/to/repo", args...)
	assert.Equal(t, expectedOutput, out)
	assert.Equal(t, expectedError, err)
	mockClient.AssertExpectations(t)
}

func TestLocalGitClient_Run(t *testing.T) {
	skipIfGitNotAvailable(t)
	client := NewLocalGitClient()
	ctx := context.Background()
	repo := initTestRepo(t)

	_, err := client.Run(ctx, "/nonexistent/path", "status")
	assert.Error(t, err)

	_, err = client.Run(ctx, repo, "invalid-command")
	assert.Error(t, err)

	out, err := client.Run(ctx, repo, "rev-parse", "--is-inside-work-tree")
	require.NoError(t, err)
	assert.Equal(t, "true", strings.TrimSpace(string(out)))
}

func TestLocalGitClient_GetRepoRoot(t *testing.T) {
	skipIfGitNotAvailable(t)
	client := NewLocalGitClient()
	ctx := context.Background()
	repo := initTestRepo(t)

	root, err := client.GetRepoRoot(ctx, repo)
	require.NoError(t, err)
	assert.NotEmpty(t, root)

	_, err = client.GetRepoRoot(ctx, "/nonexistent/path")
	assert.Error(t, err)
}

func TestLocalGitClient_GetRemoteURL(t *testing.T) {
	skipIfGitNotAvailable(t)
	client := NewLocalGitClient()
	ctx := context.Background()
	repo := initTestRepo(t)

	url, err := client.GetRemoteURL(ctx, repo, "origin")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/huangsam/steward.git", url)

	_, err = client.GetRemoteURL(ctx, repo, "upstream")
	assert.Error(t, err)
}

func TestLocalGitClient_GetCommitLog(t *testing.T) {
	skipIfGitNotAvailable(t)
	client := NewLocalGitClient()
	ctx := context.Background()
	repo := initTestRepo(t)

	out, err := client.GetCommitLog(ctx, repo, time.Now().AddDate(0, 0, -1), time.Now().Add(time.Hour))
	require.NoError(t, err)

	line := strings.TrimSpace(string(out))
	require.True(t, strings.HasPrefix(line, "--"))
	fields := strings.Split(strings.TrimPrefix(line, "--"), "\x1f")
	require.Len(t, fields, 5)
	assert.Equal(t, "Jane Doe", fields[1])
	assert.Equal(t, "jane@example.edu", fields[2])
	assert.Equal(t, "Add readme", fields[4])

	out, err = client.GetCommitLog(ctx, repo, time.Now().AddDate(-2, 0, 0), time.Now().AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(string(out)))
}
