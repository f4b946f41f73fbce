package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// maxTableContributors caps the contributor rows of the text report.
const maxTableContributors = 25

// WriteReport outputs a single repository report, dispatching based on the output format configured.
func WriteReport(report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVReport(w, report, cfg.IncludeSentiment, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		result := schema.RepositoryResult{RepositoryID: report.RepositoryID, Status: schema.OKStatus, Report: report}
		return writeParquetResults([]schema.RepositoryResult{result}, cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportText(w, report, cfg, fmtFloat, intFmt, duration)
		}, "Wrote text")
	}
}

// writeReportText writes the human-readable report.
func writeReportText(w io.Writer, r *schema.Report, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "%s (%s to %s, %d days)\n",
		decorate(cfg, "📦", r.RepositoryID),
		r.Window.Start.Format(time.DateOnly), r.Window.End.Format(time.DateOnly), r.Window.Days); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Risk score: %s %s\n\n", fmtFloat(r.Risk.OverallScore), contract.GetColorLabel(r.Risk.Severity)); err != nil {
		return err
	}

	if err := writeFactorTable(w, r.Risk.ContributingFactors, fmtFloat); err != nil {
		return err
	}
	if err := writeContributorTable(w, r.Contributors, cfg, fmtFloat, intFmt); err != nil {
		return err
	}

	s := r.Stats
	if _, err := fmt.Fprintf(w, "Activity: %d commits (%s/day), %d opened, %d closed (close rate %s), median latency %sh\n",
		s.Commits, fmtFloat(s.CommitFrequency), s.Opened, s.Closed, fmtFloat(s.CloseRate), formatOptionalHours(s, fmtFloat)); err != nil {
		return err
	}
	d := r.ActivityDistribution
	if _, err := fmt.Fprintf(w, "Distribution: top1 %s%%, top3 %s%%, top5 %s%%\n",
		fmtFloat(d.Top1Share*100), fmtFloat(d.Top3Share*100), fmtFloat(d.Top5Share*100)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Domains: %s\n", formatDomainBreakdown(r.DomainBreakdown)); err != nil {
		return err
	}
	if r.Sentiment != nil {
		sd := r.Sentiment.Distribution
		if _, err := fmt.Fprintf(w, "Sentiment: mean %s over %d texts (%d positive, %d neutral, %d negative)\n",
			fmtFloat(r.Sentiment.MeanScore), r.Sentiment.SampleCount, sd.Positive, sd.Neutral, sd.Negative); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", decorate(cfg, "💡", "Recommendations")); err != nil {
		return err
	}
	for _, rec := range r.Risk.Recommendations {
		if _, err := fmt.Fprintf(w, "  - %s\n", rec); err != nil {
			return err
		}
	}

	n := r.Normalization
	if _, err := fmt.Fprintf(w, "\nRecords: %d total, %d skipped, %d other repository, %d out of window, %d bots\n",
		n.Total, n.Skipped, n.OutOfRepository, n.OutOfWindow, n.BotsFiltered); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Analysis completed in %v. Store backend: %s\n", duration, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeFactorTable renders the risk factors in contribution order.
func writeFactorTable(w io.Writer, factors []schema.RiskFactor, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Factor", "Weight", "Sub-score", "Contribution", "Observation"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignLeft
	})

	data := make([][]string, 0, len(factors))
	for _, f := range factors {
		data = append(data, []string{
			string(f.Name),
			fmtFloat(f.Weight),
			fmtFloat(f.SubScore),
			fmtFloat(f.Contribution),
			f.Observation,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeContributorTable renders the ranked contributors, capped at maxTableContributors.
func writeContributorTable(w io.Writer, profiles []schema.ContributorProfile, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	withSentiment := cfg.IncludeSentiment
	headers := []string{"Rank", "Contributor", "Category", "Activity", "Share", "Trend", "Label"}
	if withSentiment {
		headers = append(headers, "Sentiment")
	}

	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg, 70)
	shown := profiles[:min(len(profiles), maxTableContributors)]
	var data [][]string
	for _, c := range schema.EnrichContributors(shown) {
		row := []string{
			strconv.Itoa(c.Rank),
			contract.TruncateText(c.DisplayName, nameWidth),
			string(c.Classification.Category),
			fmt.Sprintf(intFmt, c.TotalActivity),
			fmtFloat(c.ActivityShare*100) + "%",
			contract.GetColorTrend(c.Trend),
			c.Label,
		}
		if withSentiment {
			row = append(row, formatOptionalSentiment(c.Sentiment, fmtFloat))
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if hidden := len(profiles) - len(shown); hidden > 0 {
		if _, err := fmt.Fprintf(w, "... and %d more contributors\n", hidden); err != nil {
			return err
		}
	}
	return nil
}

// formatDomainBreakdown renders category counts in display order.
func formatDomainBreakdown(breakdown map[schema.DomainCategory]int) string {
	parts := make([]string, 0, len(schema.AllDomainCategories))
	for _, cat := range schema.AllDomainCategories {
		parts = append(parts, fmt.Sprintf("%s %d", cat, breakdown[cat]))
	}
	return strings.Join(parts, ", ")
}

// writeCSVReport writes one row per contributor. The sentiment_mean column
// exists only when sentiment was requested for the run.
func writeCSVReport(w io.Writer, r *schema.Report, includeSentiment bool, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank",
		"repository_id",
		"contributor_id",
		"display_name",
		"domain",
		"category",
		"total_activity",
		"activity_share",
		"trend",
		"label",
		"first_activity",
		"last_activity",
	}
	if includeSentiment {
		header = append(header, "sentiment_mean")
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, c := range schema.EnrichContributors(r.Contributors) {
			rec := []string{
				strconv.Itoa(c.Rank),
				r.RepositoryID,
				c.ContributorID,
				c.DisplayName,
				c.Classification.Domain,
				string(c.Classification.Category),
				fmt.Sprintf(intFmt, c.TotalActivity),
				fmtFloat(c.ActivityShare),
				string(c.Trend),
				c.Label,
				c.FirstActivity.Format(contract.DateTimeFormat),
				c.LastActivity.Format(contract.DateTimeFormat),
			}
			if includeSentiment {
				rec = append(rec, formatOptionalSentiment(c.Sentiment, fmtFloat))
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
