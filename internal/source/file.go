package source

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
	"gopkg.in/yaml.v3"
)

// Fixture is the on-disk layout read by FileSource. JSON files parse as well.
type Fixture struct {
	Records []schema.RawRecord `yaml:"records"`
}

// FileSource serves raw records from a YAML or JSON fixture for offline analysis.
// The file is read once and shared by every request.
type FileSource struct {
	path    string
	once    sync.Once
	records []schema.RawRecord
	err     error
}

var _ contract.DataSource = &FileSource{} // Compile-time check

// NewFileSource creates a source backed by the fixture at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// FetchEvents implements the DataSource interface. Every record in the fixture is
// returned; a repository with no records at all is reported as not found.
func (s *FileSource) FetchEvents(ctx context.Context, repoID string, _ schema.Window) ([]schema.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.once.Do(s.load)
	if s.err != nil {
		return nil, s.err
	}

	for _, rec := range s.records {
		if rec.RepositoryID == "" || strings.EqualFold(rec.RepositoryID, repoID) {
			return s.records, nil
		}
	}
	return nil, fmt.Errorf("repository %s not found in %s", repoID, s.path)
}

func (s *FileSource) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.err = fmt.Errorf("read fixture: %w", err)
		return
	}
	fixture, err := ParseFixture(data)
	if err != nil {
		s.err = fmt.Errorf("parse fixture %s: %w", s.path, err)
		return
	}
	s.records = fixture.Records
}

// ParseFixture decodes a YAML or JSON fixture.
func ParseFixture(data []byte) (Fixture, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return Fixture{}, err
	}
	return fixture, nil
}
