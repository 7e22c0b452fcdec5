package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"subrecon/internal/faults"
	"subrecon/internal/history"
	"subrecon/internal/reconcile"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded reconciliation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(cmd, ctx, func(store *history.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				fmt.Fprintln(out, renderRunsTable(runs))
				return nil
			})
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 shows all)")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryRemoveCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a run and its mappings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(cmd, ctx, func(store *history.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return historyLookupError(args[0], err)
				}
				mappings, err := store.Mappings(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printRunDetails(out, run, shouldColorize(out))
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderMappingsTable(mappings))
				return nil
			})
		},
	}
}

func newHistoryRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <run-id>",
		Short: "Delete a run from history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(cmd, ctx, func(store *history.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return historyLookupError(args[0], err)
				}
				if err := store.DeleteRun(cmd.Context(), run.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed run %s\n", run.ID)
				return nil
			})
		},
	}
}

// withHistoryStore opens the configured history database. A database that
// was never created is reported instead of being created empty.
func withHistoryStore(cmd *cobra.Command, ctx *commandContext, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	path := cfg.History.Path
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(cmd.OutOrStdout(), "No history database at %s (enable [history] in the config to record runs)\n", path)
		return nil
	}
	store, err := history.Open(cmd.Context(), path)
	if err != nil {
		return faults.Wrap(faults.ErrInput, "history", "open", path, err)
	}
	defer store.Close()
	return fn(store)
}

func historyLookupError(id string, err error) error {
	switch {
	case errors.Is(err, history.ErrRunNotFound), errors.Is(err, history.ErrAmbiguousRun):
		return faults.Wrap(faults.ErrNotFound, "history", "lookup", id, err)
	default:
		return faults.Wrap(faults.ErrInput, "history", "lookup", id, err)
	}
}

func renderRunsTable(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.CreatedAt.Local().Format(time.DateTime),
			filepath.Base(run.TextSource),
			filepath.Base(run.TimingSource),
			strconv.Itoa(run.Summary.Rank),
			strconv.Itoa(run.Summary.Gap),
			strconv.Itoa(run.Summary.Spread),
			run.Duration.Round(time.Millisecond).String(),
		})
	}
	return renderTable(tableSpec{
		headers: []string{"Run", "Created", "Text", "Timing", "Rank", "Gap", "Spread", "Took"},
		rows:    rows,
		aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	})
}

func printRunDetails(out io.Writer, run *history.Run, colorize bool) {
	p := run.Params
	printLines(out, renderSectionHeader("Run "+run.ID, colorize)...)
	printLines(out,
		renderStatusLine("Created", statusInfo, run.CreatedAt.Local().Format(time.RFC3339), colorize),
		renderStatusLine("Text source", statusInfo, run.TextSource, colorize),
		renderStatusLine("Timing source", statusInfo, run.TimingSource, colorize),
		renderStatusLine("Output", statusInfo, run.Output, colorize),
		renderStatusLine("Metric", statusInfo, string(p.Metric), colorize),
		renderStatusLine("Thresholds", statusInfo, fmt.Sprintf("min_similarity=%.2f top_k=%d max_avg_rank=%.1f", p.MinSimilarity, p.TopK, p.MaxAvgRank), colorize),
		renderStatusLine("Tolerance", statusInfo, fmt.Sprintf("%d ms -> %d ms", p.ToleranceStartMS, p.ToleranceEndMS), colorize),
		renderStatusLine("Monotonic", statusInfo, yesNo(p.EnforceMonotonic), colorize),
		renderStatusLine("Matched", coverageKind(run.Summary), fmt.Sprintf("rank=%d gap=%d spread=%d fallbacks=%d",
			run.Summary.Rank, run.Summary.Gap, run.Summary.Spread, run.Summary.Fallback), colorize),
	)
}

func renderMappingsTable(mappings []reconcile.Mapping) string {
	rows := make([][]string, 0, len(mappings))
	for _, m := range mappings {
		timeIdx := "-"
		if m.Timed() {
			timeIdx = strconv.Itoa(m.TimeIdx + 1)
		}
		rows = append(rows, []string{
			strconv.Itoa(m.TextIdx + 1),
			timeIdx,
			formatSeconds(m.Start),
			formatSeconds(m.End),
			string(m.Origin),
		})
	}
	return renderTable(tableSpec{
		headers: []string{"Text cue", "Timing cue", "Start", "End", "Origin"},
		rows:    rows,
		aligns:  []columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft},
		footer:  []string{strconv.Itoa(len(mappings)) + " cues"},
	})
}
