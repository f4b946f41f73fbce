//go:build basic || database || integration

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	// sharedStewardPath holds the path to a shared steward binary built once for all tests.
	sharedStewardPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getStewardBinary returns the path to the steward binary, building it once if needed.
func getStewardBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "steward-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		stewardPath := filepath.Join(tempDir, "steward")
		buildCmd := exec.Command("go", "build", "-o", stewardPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build steward: %v\n%s", err, out))
		}

		sharedStewardPath = stewardPath
	})

	return sharedStewardPath
}

// runSteward runs the binary in dir and returns stdout. HOME points at dir so
// the default SQLite file and config lookup stay inside the test.
func runSteward(t *testing.T, dir string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getStewardBinary(), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "HOME="+dir)
	cmd.Env = append(cmd.Env, env...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		t.Logf("Command failed: %s\nStderr: %s", cmd.String(), stderr.String())
	}
	return stdout.String(), err
}

// writeFixture writes a file-source fixture for acme/widget with activity
// spread over the last weeks, so any window of 30 days or more sees all of it.
func writeFixture(t *testing.T, dir string) string {
	t.Helper()
	now := time.Now().UTC()
	ts := func(daysAgo int) string {
		return now.AddDate(0, 0, -daysAgo).Format(time.RFC3339)
	}

	var b strings.Builder
	b.WriteString("records:\n")
	add := func(kind, login, email, when, text, extra string) {
		fmt.Fprintf(&b, "  - kind: %s\n    repository_id: acme/widget\n    login: %s\n", kind, login)
		if email != "" {
			fmt.Fprintf(&b, "    email: %s\n", email)
		}
		fmt.Fprintf(&b, "    timestamp: %q\n", when)
		if text != "" {
			fmt.Fprintf(&b, "    text: %q\n", text)
		}
		b.WriteString(extra)
	}
	for i := range 6 {
		add("commit", "alice", "alice@google.com", ts(20-i), "Refactor the parser", "")
	}
	add("commit", "bob", "bob@stanford.edu", ts(18), "Fix typo", "")
	add("commit", "dependabot[bot]", "", ts(17), "Bump deps", "")
	add("issue_opened", "carol", "carol@gmail.com", ts(16), "", "")
	add("issue_closed", "alice", "", ts(15), "", "    latency_hours: 24\n")
	add("pr_opened", "bob", "", ts(14), "", "")
	add("pr_merged", "alice", "", ts(13), "", "    latency_hours: 6\n")
	add("comment", "carol", "", ts(12), "Great work, thanks!", "")
	add("review", "alice", "", ts(11), "Looks good to me", "")

	path := filepath.Join(dir, "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}
