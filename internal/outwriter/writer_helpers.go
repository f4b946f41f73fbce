package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/internal/parquet"
	"github.com/huangsam/steward/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// writeParquetResults writes report and contributor rows next to each other,
// using outputFile as the file prefix.
func writeParquetResults(results []schema.RepositoryResult, outputFile string) error {
	if outputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	prefix := strings.TrimSuffix(outputFile, ".parquet")
	reports, contributors := parquet.ConvertResults(results)

	reportsFile := prefix + ".repository_reports.parquet"
	if err := parquet.WriteRepositoryReportsParquet(reports, reportsFile); err != nil {
		return fmt.Errorf("failed to write repository reports: %w", err)
	}
	contributorsFile := prefix + ".contributors.parquet"
	if err := parquet.WriteContributorsParquet(contributors, contributorsFile); err != nil {
		return fmt.Errorf("failed to write contributors: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote %d reports to %s\n", len(reports), reportsFile)
	fmt.Fprintf(os.Stderr, "💾 Wrote %d contributors to %s\n", len(contributors), contributorsFile)
	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// formatOptionalHours formats a latency in hours, or "-" when there were no samples.
func formatOptionalHours(stats schema.RepositoryStats, fmtFloat func(float64) string) string {
	if stats.MedianResponseLatency == nil {
		return "-"
	}
	return fmtFloat(stats.MedianLatencyHours())
}

// formatOptionalSentiment formats a sentiment mean, or "-" when sentiment was not computed.
func formatOptionalSentiment(s *schema.SentimentSummary, fmtFloat func(float64) string) string {
	if s == nil || s.SampleCount == 0 {
		return "-"
	}
	return fmtFloat(s.MeanScore)
}

// decorate prefixes text with an emoji when emojis are enabled.
func decorate(cfg *contract.Config, emoji, text string) string {
	if cfg.UseEmojis {
		return emoji + " " + text
	}
	return text
}
