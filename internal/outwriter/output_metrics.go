package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
)

// factorDocs holds the purpose and sub-score formula of each risk factor.
var factorDocs = map[schema.FactorName][2]string{
	schema.FactorConcentration:     {"Bus factor - one contributor holds most of the activity", "clamp((top_share-0.5)/0.5)*100"},
	schema.FactorTrendDecline:      {"Waning engagement - trended contributors slowing down", "decreasing/trended*100"},
	schema.FactorResponseLatency:   {"Slow responses - time until issues and PRs are closed", "clamp(median_hours/ceiling)*100"},
	schema.FactorCloseRate:         {"Backlog growth - opened items left unresolved", "(1-min(close_rate,1))*100"},
	schema.FactorNegativeSentiment: {"Friction - negative tone in comments and reviews", "negative/scored*100"},
}

// getDisplayNameForFactor returns the display name with emoji for a factor.
func getDisplayNameForFactor(name schema.FactorName) string {
	switch name {
	case schema.FactorConcentration:
		return "👤 CONCENTRATION"
	case schema.FactorTrendDecline:
		return "📉 TREND DECLINE"
	case schema.FactorResponseLatency:
		return "⏱️  RESPONSE LATENCY"
	case schema.FactorCloseRate:
		return "📬 CLOSE RATE"
	case schema.FactorNegativeSentiment:
		return "💬 NEGATIVE SENTIMENT"
	default:
		return string(name)
	}
}

// PrintMetricsDefinitions displays the risk factor definitions with the active weights.
// This is a static display that does not fetch any repository data.
func PrintMetricsDefinitions(cfg *contract.Config) error {
	renderModel := buildMetricsRenderModel(cfg.Analysis)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, renderModel)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVMetrics(w, renderModel)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printMetricsText(w, renderModel, cfg)
		}, "Wrote text")
	}
}

// buildMetricsRenderModel constructs the complete render model from the active configuration.
func buildMetricsRenderModel(analysis contract.AnalysisConfig) *schema.MetricsRenderModel {
	factors := make([]schema.MetricsFactor, 0, len(schema.AllFactors))
	for _, name := range schema.AllFactors {
		doc := factorDocs[name]
		factors = append(factors, schema.MetricsFactor{
			Name:    name,
			Purpose: doc[0],
			Weight:  analysis.Weights[name],
			Formula: doc[1],
		})
	}

	return &schema.MetricsRenderModel{
		Title:       "Steward Risk Factors",
		Description: "Risk score = weighted sum of factor sub-scores (each 0-100), clipped to 0-100",
		Factors:     factors,
		Overall:     formatWeights(factors),
		Thresholds:  analysis.Thresholds,
		Trend: fmt.Sprintf("%d buckets, first half vs second half, change > %.0f%% leaves stable, fewer than %d events is insufficient_data",
			analysis.Trend.Buckets, analysis.Trend.Threshold*100, analysis.Trend.MinEvents),
	}
}

// formatWeights formats the weighted sum for display.
// Factors with zero weight are left out.
func formatWeights(factors []schema.MetricsFactor) string {
	var out string
	for _, f := range factors {
		if f.Weight <= 0 {
			continue
		}
		if out != "" {
			out += " + "
		}
		out += fmt.Sprintf("%.2f*%s", f.Weight, f.Name)
	}
	return out
}

// printMetricsText displays metrics in human-readable text format.
func printMetricsText(w io.Writer, m *schema.MetricsRenderModel, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "%s\n", decorate(cfg, "🩺", m.Title)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "========================\n\n%s\n\n", m.Description); err != nil {
		return err
	}

	for _, f := range m.Factors {
		name := string(f.Name)
		if cfg.UseEmojis {
			name = getDisplayNameForFactor(f.Name)
		}
		if _, err := fmt.Fprintf(w, "%s (weight %.2f): %s\n", name, f.Weight, f.Purpose); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Sub-score = %s\n\n", f.Formula); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Score = %s\n", m.Overall); err != nil {
		return err
	}
	t := m.Thresholds
	if _, err := fmt.Fprintf(w, "Severity: low < %.0f <= medium < %.0f <= high < %.0f <= critical\n", t.Low, t.Medium, t.High); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Trend: %s\n", m.Trend); err != nil {
		return err
	}
	return nil
}

// writeCSVMetrics writes the metrics definitions in CSV format.
func writeCSVMetrics(w io.Writer, m *schema.MetricsRenderModel) error {
	header := []string{"factor", "purpose", "weight", "formula"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, f := range m.Factors {
			record := []string{string(f.Name), f.Purpose, fmt.Sprintf("%.2f", f.Weight), f.Formula}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
