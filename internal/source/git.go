package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
)

// commitFieldSep separates the fields of one CommitLogFormat line.
const commitFieldSep = "\x1f"

// GitSource reads commit records from a local clone with the git binary.
// It only knows commits, so issue and review signals stay empty.
type GitSource struct {
	client   contract.GitClient
	repoPath string
}

var _ contract.DataSource = &GitSource{} // Compile-time check

// NewGitSource creates a source for the repository checked out at repoPath.
func NewGitSource(client contract.GitClient, repoPath string) *GitSource {
	return &GitSource{client: client, repoPath: repoPath}
}

// FetchEvents implements the DataSource interface.
// When the origin remote names a different repository, the request is refused.
func (s *GitSource) FetchEvents(ctx context.Context, repoID string, window schema.Window) ([]schema.RawRecord, error) {
	if remote, err := s.client.GetRemoteURL(ctx, s.repoPath, "origin"); err == nil {
		if local := contract.RepositoryIDFromURL(remote); local != "" && !strings.EqualFold(local, repoID) {
			return nil, fmt.Errorf("local repository at %s is %s, not %s", s.repoPath, local, repoID)
		}
	}

	out, err := s.client.GetCommitLog(ctx, s.repoPath, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("read commit log: %w", err)
	}
	return ParseCommitLog(out, repoID), nil
}

// ParseCommitLog turns CommitLogFormat output into commit records.
// Malformed lines become records with an empty timestamp, which the normalizer counts as skipped.
func ParseCommitLog(out []byte, repoID string) []schema.RawRecord {
	var records []schema.RawRecord
	for line := range strings.SplitSeq(string(out), "\n") {
		line, ok := strings.CutPrefix(strings.TrimRight(line, "\r"), "--")
		if !ok {
			continue
		}
		fields := strings.SplitN(line, commitFieldSep, 5)
		rec := schema.RawRecord{Kind: string(schema.CommitEvent), RepositoryID: repoID}
		if len(fields) == 5 {
			rec.Name = fields[1]
			rec.Email = fields[2]
			rec.Timestamp = fields[3]
			rec.Text = fields[4]
		}
		records = append(records, rec)
	}
	return records
}
