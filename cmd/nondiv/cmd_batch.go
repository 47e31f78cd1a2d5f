package main

import (
	"encoding/json"
	"fmt"
	"time"

	"nondiv/internal/batch"
	"nondiv/internal/problem"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var batchConcurrency int

// batchCmd solves every problem in a file concurrently
var batchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "Solve every problem in a file concurrently",
	Long: `Solves all problems of a YAML file ({problems: [...]}) or a text file.
Problems that fail (invalid modulus, duplicates under --strict) are reported
individually and do not stop the others.

Example:
  nondiv batch problems.yaml --concurrency 8`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "Worker count (default: batch.concurrency from config)")
	batchCmd.Flags().BoolVar(&strict, "strict", false, "Reject duplicate elements instead of removing them")
	batchCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	batchCmd.Flags().BoolVar(&record, "record", false, "Record solved problems in history")
}

type batchEntry struct {
	Name  string            `json:"name"`
	Size  *int              `json:"size,omitempty"`
	Error string            `json:"error,omitempty"`
	Sol   *problem.Solution `json:"solution,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	problems, err := problem.LoadFile(args[0])
	if err != nil {
		return err
	}
	opts, err := solverOptions(strict)
	if err != nil {
		return err
	}

	concurrency := batchConcurrency
	if concurrency <= 0 {
		concurrency = currentConfig().Batch.Concurrency
	}

	start := time.Now()
	results, err := batch.Run(commandContext(cmd), problems, opts, concurrency)
	if err != nil {
		return err
	}
	summary := batch.Summarize(results, time.Since(start))
	if logger != nil {
		logger.Info("batch complete",
			zap.Int("solved", summary.Solved),
			zap.Int("failed", summary.Failed),
			zap.Duration("elapsed", summary.Duration))
	}

	var solved []problem.Solution
	for _, r := range results {
		if r.Err == nil {
			solved = append(solved, r.Solution)
		}
	}
	if err := recordSolutions(cmd, solved); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		entries := make([]batchEntry, 0, len(results))
		for _, r := range results {
			e := batchEntry{Name: r.Problem.Name}
			if r.Err != nil {
				e.Error = r.Err.Error()
			} else {
				size := r.Solution.Size
				e.Size = &size
				e.Sol = &r.Solution
			}
			entries = append(entries, e)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(out, "%s: error: %v\n", r.Problem.Name, r.Err)
			continue
		}
		fmt.Fprintf(out, "%s: %d\n", r.Problem.Name, r.Solution.Size)
	}
	fmt.Fprintf(out, "\n%d solved, %d failed\n", summary.Solved, summary.Failed)
	return nil
}
