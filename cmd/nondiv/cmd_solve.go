package main

import (
	"encoding/json"
	"fmt"

	"nondiv/internal/problem"
	"nondiv/internal/report"
	"nondiv/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Problem input flags shared by solve and explain
	modulus    int
	inputFile  string
	strict     bool
	jsonOutput bool
	record     bool

	// Report flags shared by explain and watch
	maxElements int
)

// solveCmd prints the maximal subset size
var solveCmd = &cobra.Command{
	Use:   "solve [elements...]",
	Short: "Print the maximal non-divisible subset size",
	Long: `Computes the size of the largest subset in which no two elements sum to a
multiple of k.

Duplicates are removed before solving unless --strict is given, in which case
they are rejected.

Examples:
  nondiv solve -k 4 19 10 12 10 24 25 22
  nondiv solve --file problems.yaml
  echo "4 3
  1 7 2 4" | nondiv solve --file -`,
	Args: cobra.ArbitraryArgs,
	RunE: runSolve,
}

// explainCmd prints the full remainder breakdown
var explainCmd = &cobra.Command{
	Use:   "explain [elements...]",
	Short: "Show remainders, remainder groups and the selection rationale",
	Long: `Prints every element's remainder, the remainder groups and the reasoning
behind each selection step, followed by the maximal subset size.

Example:
  nondiv explain -k 4 19 10 12 10 24 25 22`,
	Args: cobra.ArbitraryArgs,
	RunE: runExplain,
}

func init() {
	for _, cmd := range []*cobra.Command{solveCmd, explainCmd} {
		addProblemFlags(cmd)
		cmd.Flags().BoolVar(&record, "record", false, "Record the run in history")
	}
	addReportFlags(explainCmd)
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&maxElements, "max-elements", 0, "List at most N per-element remainders (0 lists all)")
}

func reportOptions() report.Options {
	return report.Options{Color: useColor(), MaxElements: maxElements}
}

func addProblemFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&modulus, "modulus", "k", 0, "Modulus k (>= 1)")
	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read problems from a YAML or text file ('-' for stdin)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject duplicate elements instead of removing them")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
}

// loadProblems reads problems from --file, or from -k and positional elements.
func loadProblems(cmd *cobra.Command, args []string) ([]problem.Problem, error) {
	if inputFile != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("elements cannot be combined with --file")
		}
		if inputFile == "-" {
			p, err := problem.ParseText(cmd.InOrStdin())
			if err != nil {
				return nil, fmt.Errorf("stdin: %w", err)
			}
			return []problem.Problem{p}, nil
		}
		return problem.LoadFile(inputFile)
	}

	if f := cmd.Flags().Lookup("modulus"); f == nil || !f.Changed {
		return nil, fmt.Errorf("modulus required: pass -k or --file")
	}
	elements, err := problem.ParseElements(args)
	if err != nil {
		return nil, err
	}
	return []problem.Problem{{K: modulus, Elements: elements}}, nil
}

func solveAll(cmd *cobra.Command, args []string) ([]problem.Solution, error) {
	problems, err := loadProblems(cmd, args)
	if err != nil {
		return nil, err
	}
	opts, err := solverOptions(strict)
	if err != nil {
		return nil, err
	}

	solutions := make([]problem.Solution, 0, len(problems))
	for _, p := range problems {
		sol, err := problem.Solve(p, opts)
		if err != nil {
			return nil, err
		}
		solutions = append(solutions, sol)
	}

	if err := recordSolutions(cmd, solutions); err != nil {
		return nil, err
	}
	return solutions, nil
}

// recordSolutions stores solutions when --record is set or history is enabled.
func recordSolutions(cmd *cobra.Command, solutions []problem.Solution) error {
	if !record && !currentConfig().History.Enabled {
		return nil
	}

	s, err := store.Open(currentConfig().HistoryPath(workspace))
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer s.Close()

	ctx := commandContext(cmd)
	for _, sol := range solutions {
		run, err := s.Record(ctx, sol)
		if err != nil {
			return err
		}
		if logger != nil {
			logger.Debug("recorded run", zap.String("id", run.ID))
		}
	}
	return nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	solutions, err := solveAll(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if len(solutions) == 1 {
			return enc.Encode(solutions[0])
		}
		return enc.Encode(solutions)
	}

	if len(solutions) == 1 {
		fmt.Fprintln(out, solutions[0].Size)
		return nil
	}
	for _, sol := range solutions {
		fmt.Fprintf(out, "%s: %d\n", sol.Problem.Name, sol.Size)
	}
	return nil
}

func runExplain(cmd *cobra.Command, args []string) error {
	solutions, err := solveAll(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return report.RenderJSON(out, solutions...)
	}
	for i, sol := range solutions {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := report.Render(out, sol, reportOptions()); err != nil {
			return err
		}
	}
	return nil
}
