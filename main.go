// Package main is the entry point of the steward CLI.
package main

import (
	"os"

	"github.com/huangsam/steward/cmd"
	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/internal/store"
)

func main() {
	err := cmd.Execute()

	// Deferred calls are skipped by os.Exit, so clean up explicitly
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	store.CloseStore()

	if err != nil {
		contract.LogWarn("Command failed", err)
		os.Exit(1)
	}
}
