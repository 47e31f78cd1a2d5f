package main

import (
	"fmt"
	"io"
	"time"

	"nondiv/internal/problem"
	"nondiv/internal/report"
	"nondiv/internal/watch"

	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

// watchCmd re-renders the report whenever the problem file changes
var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Re-solve a problem file whenever it changes",
	Long: `Renders the explain report for FILE, then re-renders it each time the file
is saved. Runs until interrupted.

Example:
  nondiv watch problem.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "Delay after the last change before re-solving (default: watch.debounce from config)")
	watchCmd.Flags().BoolVar(&strict, "strict", false, "Reject duplicate elements instead of removing them")
	addReportFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	opts, err := solverOptions(strict)
	if err != nil {
		return err
	}

	debounce := watchDebounce
	if debounce <= 0 {
		debounce = currentConfig().GetDebounce()
	}

	out := cmd.OutOrStdout()
	ropts := reportOptions()
	w, err := watch.New(args[0], opts, debounce, func(solutions []problem.Solution, err error) {
		printWatchUpdate(out, solutions, err, ropts)
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	ctx := commandContext(cmd)
	w.Reload()
	if err := w.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	fmt.Fprintln(out, "stopped watching")
	return nil
}

func printWatchUpdate(out io.Writer, solutions []problem.Solution, err error, opts report.Options) {
	fmt.Fprintf(out, "--- %s ---\n", time.Now().Format(time.TimeOnly))
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	for _, sol := range solutions {
		if rerr := report.Render(out, sol, opts); rerr != nil {
			fmt.Fprintf(out, "error: %v\n", rerr)
		}
	}
}
