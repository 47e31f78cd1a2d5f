package main

import (
	"encoding/json"
	"fmt"
	"time"

	"nondiv/internal/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd lists recorded runs
var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded runs, or show one run",
	Long: `Lists runs recorded with --record (or with history.enabled in the config),
newest first. With a run ID, prints that run including its bucket counts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to list")
	historyCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := store.Open(currentConfig().HistoryPath(workspace))
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer s.Close()

	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		run, err := s.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return encodeJSON(cmd, run)
		}
		fmt.Fprintf(out, "ID:         %s\n", run.ID)
		fmt.Fprintf(out, "Name:       %s\n", run.Name)
		fmt.Fprintf(out, "Recorded:   %s\n", run.CreatedAt.Local().Format(time.DateTime))
		fmt.Fprintf(out, "k:          %d\n", run.K)
		fmt.Fprintf(out, "Elements:   %d (%d duplicates removed)\n", run.N, run.Duplicates)
		fmt.Fprintf(out, "Counts:     %v\n", []int(run.Counts))
		fmt.Fprintf(out, "Size:       %d\n", run.Size)
		return nil
	}

	runs, err := s.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return encodeJSON(cmd, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"ID", "Recorded", "Name", "K", "N", "Size"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.ID[:8],
			run.CreatedAt.Local().Format(time.DateTime),
			run.Name,
			run.K,
			run.N,
			run.Size,
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, AutoMerge: true},
	})

	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
	return nil
}

func encodeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
