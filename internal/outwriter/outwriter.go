// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints a single repository report using the configured output format.
func (ow *OutWriter) WriteReport(report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	return WriteReport(report, cfg, duration)
}

// WriteBatch prints a multi-repository comparison using the configured output format.
func (ow *OutWriter) WriteBatch(batch *schema.BatchReport, cfg *contract.Config, duration time.Duration) error {
	return WriteBatch(batch, cfg, duration)
}

// WriteClassifications prints email domain classifications using the configured output format.
func (ow *OutWriter) WriteClassifications(results []schema.ClassifiedEmail, cfg *contract.Config) error {
	return WriteClassifications(results, cfg)
}

// WriteMetrics prints the risk factor definitions using the configured output format.
func (ow *OutWriter) WriteMetrics(cfg *contract.Config) error {
	return PrintMetricsDefinitions(cfg)
}
