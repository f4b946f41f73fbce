package store

import (
	"errors"
	"fmt"

	"github.com/huangsam/steward/internal/parquet"
)

// ExecuteAnalysisExport exports every stored run, report and contributor row to
// Parquet files named after outputFile.
func ExecuteAnalysisExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetAnalysisStore()
	if store == nil {
		return errors.New("analysis tracking is disabled; set --store-backend to export")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total analysis runs: %d\n", status.TotalRuns)
	fmt.Printf("Total repository reports: %d\n", status.TableSizes[repositoryReportsTable])

	runs, err := store.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}
	reports, err := store.GetAllRepositoryReports()
	if err != nil {
		return fmt.Errorf("failed to retrieve repository reports: %w", err)
	}
	contributors, err := store.GetAllContributors()
	if err != nil {
		return fmt.Errorf("failed to retrieve contributors: %w", err)
	}

	runsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(parquet.ConvertAnalysisRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	fmt.Printf("Exported %d analysis runs to: %s\n", len(runs), runsFile)

	reportsFile := outputFile + ".repository_reports.parquet"
	if err := parquet.WriteRepositoryReportsParquet(parquet.ConvertRepositoryReportRecords(reports), reportsFile); err != nil {
		return fmt.Errorf("failed to write repository reports: %w", err)
	}
	fmt.Printf("Exported %d repository reports to: %s\n", len(reports), reportsFile)

	contributorsFile := outputFile + ".contributors.parquet"
	if err := parquet.WriteContributorsParquet(parquet.ConvertContributorRecords(contributors), contributorsFile); err != nil {
		return fmt.Errorf("failed to write contributors: %w", err)
	}
	fmt.Printf("Exported %d contributor rows to: %s\n", len(contributors), contributorsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	return nil
}
