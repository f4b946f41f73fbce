package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteBatch outputs a batch report, dispatching based on the output format configured.
func WriteBatch(batch *schema.BatchReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, batch)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVBatch(w, batch, cfg.IncludeSentiment, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetResults(batch.Results, cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchText(w, batch, cfg, fmtFloat, intFmt, duration)
		}, "Wrote text")
	}
}

// writeBatchText writes the comparison table in risk order followed by failed repositories.
func writeBatchText(w io.Writer, batch *schema.BatchReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	byID := make(map[string]*schema.Report, len(batch.Results))
	for _, res := range batch.Results {
		if res.Report != nil {
			byID[res.RepositoryID] = res.Report
		}
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Repository", "Risk", "Severity", "Contrib", "Commits/Day", "Close Rate", "Latency (h)", "Top Factor"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg, 95)
	var data [][]string
	for _, ranked := range batch.Summary.ByRisk {
		r := byID[ranked.RepositoryID]
		if r == nil {
			continue
		}
		data = append(data, []string{
			strconv.Itoa(ranked.Rank),
			contract.TruncateText(r.RepositoryID, nameWidth),
			fmtFloat(r.Risk.OverallScore),
			contract.GetColorLabel(r.Risk.Severity),
			fmt.Sprintf(intFmt, len(r.Contributors)),
			fmtFloat(r.Stats.CommitFrequency),
			fmtFloat(r.Stats.CloseRate),
			formatOptionalHours(r.Stats, fmtFloat),
			topFactor(r.Risk),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, res := range batch.Results {
		if res.Status != schema.ErrorStatus {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s %s: %s\n", color.RedString("error"), res.RepositoryID, res.Error); err != nil {
			return err
		}
	}

	s := batch.Summary
	counts := make([]string, 0, len(schema.AllSeverities))
	for _, sev := range schema.AllSeverities {
		counts = append(counts, fmt.Sprintf("%s %d", sev, s.SeverityCounts[sev]))
	}
	if _, err := fmt.Fprintf(w, "Compared %d repositories (%d ok, %d errors) over %d days. Severities: %s\n",
		len(batch.Results), s.OK, s.Errors, batch.Days, strings.Join(counts, ", ")); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Analysis completed in %v with %d workers. Store backend: %s\n", duration, cfg.Workers, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// topFactor names the factor with the largest contribution.
func topFactor(risk schema.RiskAssessment) string {
	if len(risk.ContributingFactors) == 0 || risk.ContributingFactors[0].Contribution == 0 {
		return "-"
	}
	return string(risk.ContributingFactors[0].Name)
}

// writeCSVBatch writes one row per repository in input order, including failures.
// The sentiment_mean column exists only when sentiment was requested.
func writeCSVBatch(w io.Writer, batch *schema.BatchReport, includeSentiment bool, fmtFloat func(float64) string, intFmt string) error {
	riskRank := make(map[string]int, len(batch.Summary.ByRisk))
	for _, r := range batch.Summary.ByRisk {
		riskRank[r.RepositoryID] = r.Rank
	}

	header := []string{
		"repository_id",
		"status",
		"error",
		"risk_rank",
		"risk_score",
		"severity",
		"contributors",
		"commits",
		"commit_frequency",
		"close_rate",
		"median_latency_hours",
	}
	if includeSentiment {
		header = append(header, "sentiment_mean")
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, res := range batch.Results {
			rec := []string{res.RepositoryID, string(res.Status), res.Error}
			if r := res.Report; r != nil {
				rec = append(rec,
					strconv.Itoa(riskRank[res.RepositoryID]),
					fmtFloat(r.Risk.OverallScore),
					string(r.Risk.Severity),
					fmt.Sprintf(intFmt, len(r.Contributors)),
					fmt.Sprintf(intFmt, r.Stats.Commits),
					fmtFloat(r.Stats.CommitFrequency),
					fmtFloat(r.Stats.CloseRate),
					formatOptionalHours(r.Stats, fmtFloat),
				)
				if includeSentiment {
					rec = append(rec, formatOptionalSentiment(r.Sentiment, fmtFloat))
				}
			} else {
				for len(rec) < len(header) {
					rec = append(rec, "")
				}
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
