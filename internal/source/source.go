// Package source implements the data sources that supply raw activity records.
package source

import (
	"fmt"
	"time"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
)

// New returns the data source selected in cfg. The git client is only used by the git source.
func New(cfg *contract.Config, client contract.GitClient) (contract.DataSource, error) {
	switch cfg.Source {
	case schema.GitHubSource, "":
		return NewGitHubSource(cfg.GitHubAPIURL, cfg.RateLimit)
	case schema.GitSource:
		return NewGitSource(client, cfg.SourcePath), nil
	case schema.FileSource:
		return NewFileSource(cfg.SourcePath), nil
	default:
		return nil, fmt.Errorf("unsupported source: %s", cfg.Source)
	}
}

// formatTimestamp renders a timestamp the way raw records carry it.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
