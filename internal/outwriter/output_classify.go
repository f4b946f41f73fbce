package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
	"github.com/olekukonko/tablewriter"
)

// WriteClassifications outputs email classifications, dispatching based on the output format configured.
// Parquet has no classification table, so it falls back to text.
func WriteClassifications(results []schema.ClassifiedEmail, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, results)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVClassifications(w, results)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeClassificationTable(w, results, cfg)
		}, "Wrote text")
	}
}

func writeClassificationTable(w io.Writer, results []schema.ClassifiedEmail, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Email", "Domain", "Category", "Rule"})

	width := getMaxNameWidth(cfg, 50)
	data := make([][]string, 0, len(results))
	for _, r := range results {
		data = append(data, []string{
			contract.TruncateText(r.Email, width),
			r.Domain,
			string(r.Category),
			r.MatchedRule,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeCSVClassifications(w io.Writer, results []schema.ClassifiedEmail) error {
	header := []string{"email", "domain", "category", "matched_rule"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range results {
			if err := cw.Write([]string{r.Email, r.Domain, string(r.Category), r.MatchedRule}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
