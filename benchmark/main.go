// Package main provides a performance benchmarking tool for the Steward CLI.
// It measures execution times of analyze and compare against local clones
// through the git source, once without the run store and once with SQLite
// tracking, and writes a CSV summary for documentation.
//
// Prerequisites:
// - steward binary installed and available in PATH
// - Test repositories cloned to the specified base directory with an origin remote
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory containing test repositories
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"time"
)

// BenchmarkResult holds the averaged timings of one command on one repository.
type BenchmarkResult struct {
	Repository string
	Command    string
	NoStore    string
	SQLite     string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase  string
	Timeout   time.Duration
	Workers   int
	Runs      int
	Days      []int
	TestRepos map[string]string // clone directory -> owner/name
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase: os.Args[1],
		Timeout:  5 * time.Minute,
		Workers:  8,
		Runs:     3,
		Days:     []int{90, 365},
		TestRepos: map[string]string{
			"cobra":      "spf13/cobra",
			"fd":         "sharkdp/fd",
			"git":        "git/git",
			"kubernetes": "kubernetes/kubernetes",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	dbPath := filepath.Join(os.TempDir(), "steward_benchmark.db")
	defer func() { _ = os.Remove(dbPath) }()

	results := runBenchmarks(config, dbPath)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that steward binary and test repositories exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("steward"); err != nil {
		return fmt.Errorf("steward binary not found in PATH")
	}
	for dir := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, dir)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", dir, repoPath)
		}
	}
	return nil
}

// runBenchmarks executes all benchmark tests across configured repositories.
func runBenchmarks(config BenchmarkConfig, dbPath string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, %d workers, %d runs\n",
		len(config.TestRepos), config.Timeout, config.Workers, config.Runs)

	for dir, repoID := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, dir)
		fmt.Printf("Benchmarking %s (%s)\n", dir, repoID)

		for _, days := range config.Days {
			args := []string{"analyze", repoID, "--days", fmt.Sprint(days)}
			results = append(results, runBenchmarkSuite(config, dir, repoPath, fmt.Sprintf("analyze-%dd", days), args, dbPath))
		}

		// The git source serves one checkout, so compare covers a single repository
		args := []string{"compare", repoID, "--workers", fmt.Sprint(config.Workers)}
		results = append(results, runBenchmarkSuite(config, dir, repoPath, "compare", args, dbPath))
	}

	return results
}

// runBenchmarkSuite runs a command without and with the SQLite run store.
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath, label string, args []string, dbPath string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", label, repo)

	base := slices.Concat(args, []string{"--source", "git", "--source-path", repoPath, "--output", "json"})
	noStore := runBenchmark(config, slices.Concat(base, []string{"--store-backend", "none"}))
	sqlite := runBenchmark(config, slices.Concat(base, []string{"--store-backend", "sqlite", "--store-db-connect", dbPath}))

	fmt.Printf("  No store: %s, SQLite store: %s\n", noStore, sqlite)
	return BenchmarkResult{Repository: repo, Command: label, NoStore: noStore, SQLite: sqlite}
}

// runBenchmark executes steward several times and returns the average duration.
func runBenchmark(config BenchmarkConfig, args []string) string {
	var times []float64
	for range config.Runs {
		start := time.Now()

		cmd := exec.Command("steward", args...)
		done := make(chan error, 1)
		go func() {
			_, err := cmd.Output()
			done <- err
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("steward_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"repo", "cmd", "no_store_avg", "sqlite_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.Command, result.NoStore, result.SQLite}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-12s %-12s: No store: %s, SQLite: %s\n", result.Repository, result.Command, result.NoStore, result.SQLite)
	}
}
