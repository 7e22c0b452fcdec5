package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"subrecon/internal/config"
	"subrecon/internal/faults"
	"subrecon/internal/fileutil"
	"subrecon/internal/history"
	"subrecon/internal/logging"
	"subrecon/internal/reconcile"
	"subrecon/internal/report"
	"subrecon/internal/srt"
)

type reconcileFlags struct {
	text           string
	timing         string
	output         string
	encoding       string
	metric         string
	minSimilarity  float64
	maxAvgRank     float64
	spreadWindow   float64
	topK           int
	workers        int
	toleranceStart int64
	toleranceEnd   int64
	shiftStart     int64
	shiftEnd       int64
	noMonotonic    bool
	noAnnotate     bool
	cleanAds       bool
	noHistory      bool
}

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	var flags reconcileFlags

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Retime a subtitle text track using a better-timed track",
		Long: `Reconcile pairs every cue of the text source with a time window taken from
the timing source. Cues that match by wording borrow their partner's timing;
the rest are placed between matched neighbours.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *base
			if err := flags.apply(cmd, &cfg); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return runReconcile(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), logger, &cfg, ctx.quiet())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.text, "text", "t", "", "Subtitle file whose wording is kept")
	f.StringVarP(&flags.timing, "timing", "T", "", "Subtitle file whose timing is trusted")
	f.StringVarP(&flags.output, "output", "o", "", "Destination for the reconciled subtitles")
	f.StringVar(&flags.encoding, "encoding", "", "Character encoding of both sources (default utf-8)")
	f.StringVar(&flags.metric, "metric", "", "Similarity metric: ratio, jaro_winkler, levenshtein, diff, cosine")
	f.Float64Var(&flags.minSimilarity, "min-similarity", 0, "Minimum similarity for a partner to be ranked")
	f.Float64Var(&flags.maxAvgRank, "max-avg-rank", 0, "Loosest average rank accepted as a match")
	f.Float64Var(&flags.spreadWindow, "spread-window", 0, "Seconds used to place cues before the first or after the last match")
	f.IntVar(&flags.topK, "top-k", 0, "Number of ranked partners kept per cue")
	f.IntVar(&flags.workers, "workers", 0, "Rank-building workers (0 uses every CPU)")
	f.Int64Var(&flags.toleranceStart, "tolerance-start-ms", 0, "Overlap tolerance at the start of the timing track")
	f.Int64Var(&flags.toleranceEnd, "tolerance-end-ms", 0, "Overlap tolerance at the end of the timing track")
	f.Int64Var(&flags.shiftStart, "shift-start-ms", 0, "Linear shift applied to the first text cue before matching")
	f.Int64Var(&flags.shiftEnd, "shift-end-ms", 0, "Linear shift applied to the last text cue before matching")
	f.BoolVar(&flags.noMonotonic, "no-monotonic", false, "Keep greedy matches even when they cross each other")
	f.BoolVar(&flags.noAnnotate, "no-annotate", false, "Write plain cues without summary or origin comments")
	f.BoolVar(&flags.cleanAds, "clean-ads", false, "Drop advertisement cues from both sources before matching")
	f.BoolVar(&flags.noHistory, "no-history", false, "Do not record this run in the history database")
	return cmd
}

func (f *reconcileFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	paths := []struct {
		flag   string
		value  string
		target *string
	}{
		{"text", f.text, &cfg.Files.TextSource},
		{"timing", f.timing, &cfg.Files.TimingSource},
		{"output", f.output, &cfg.Files.Output},
	}
	for _, p := range paths {
		if !changed(p.flag) {
			continue
		}
		expanded, err := config.ExpandPath(p.value)
		if err != nil {
			return faults.Wrap(faults.ErrValidation, "flags", p.flag, "", err)
		}
		*p.target = expanded
	}
	if changed("encoding") {
		cfg.Files.Encoding = strings.ToLower(strings.TrimSpace(f.encoding))
	}
	if changed("metric") {
		cfg.Matching.Metric = strings.ToLower(strings.TrimSpace(f.metric))
	}
	if changed("min-similarity") {
		cfg.Matching.MinSimilarity = f.minSimilarity
	}
	if changed("max-avg-rank") {
		cfg.Matching.MaxAvgRank = f.maxAvgRank
	}
	if changed("spread-window") {
		cfg.Matching.SpreadWindowSeconds = f.spreadWindow
	}
	if changed("top-k") {
		cfg.Matching.TopK = f.topK
	}
	if changed("workers") {
		cfg.Matching.Workers = f.workers
	}
	if changed("tolerance-start-ms") {
		cfg.Matching.ToleranceStartMS = f.toleranceStart
	}
	if changed("tolerance-end-ms") {
		cfg.Matching.ToleranceEndMS = f.toleranceEnd
	}
	if changed("shift-start-ms") {
		cfg.Shift.StartMS = f.shiftStart
	}
	if changed("shift-end-ms") {
		cfg.Shift.EndMS = f.shiftEnd
	}
	if f.noMonotonic {
		cfg.Matching.EnforceMonotonic = false
	}
	if f.noAnnotate {
		cfg.Output.Annotate = false
	}
	if f.cleanAds {
		cfg.Output.CleanAds = true
	}
	if f.noHistory {
		cfg.History.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return faults.Wrap(faults.ErrConfiguration, "flags", "validate", "", err)
	}
	if err := cfg.RequireFiles(); err != nil {
		return faults.Wrap(faults.ErrValidation, "flags", "files", "", err)
	}
	return nil
}

func (c *commandContext) quiet() bool {
	return c.quietFlag != nil && *c.quietFlag
}

func runReconcile(ctx context.Context, out, errOut io.Writer, logger *slog.Logger, cfg *config.Config, quiet bool) error {
	runID := uuid.NewString()
	ctx = logging.WithCommand(logging.WithRunID(ctx, runID), "reconcile")
	base := logger
	logger = logging.WithContext(ctx, base)
	started := time.Now()

	text, err := loadTrack(logger, "text", cfg.Files.TextSource, cfg.Files.Encoding)
	if err != nil {
		return err
	}
	timing, err := loadTrack(logger, "timing", cfg.Files.TimingSource, cfg.Files.Encoding)
	if err != nil {
		return err
	}

	if cfg.Output.CleanAds {
		var textStats, timingStats srt.CleanStats
		text, textStats = srt.StripAdvertisements(text)
		timing, timingStats = srt.StripAdvertisements(timing)
		logger.Info("advertisements removed",
			logging.Int("text_removed", textStats.RemovedCues),
			logging.Int("timing_removed", timingStats.RemovedCues),
		)
		if textStats.FirstRemovedMS >= 0 && timingStats.RemovedCues == 0 {
			logger.Debug("text source carried credits the timing source lacks",
				logging.String("first_removed", srt.FormatTimestamp(textStats.FirstRemovedMS)),
			)
		}
	}
	if cfg.ShiftEnabled() {
		text = srt.LinearShift(text, cfg.Shift.StartMS, cfg.Shift.EndMS)
		logger.Info("linear shift applied",
			logging.Int64("start_ms", cfg.Shift.StartMS),
			logging.Int64("end_ms", cfg.Shift.EndMS),
		)
	}

	progress := newRankProgress(logger, errOut, shouldColorize(errOut) && !quiet)
	engine, err := reconcile.New(cfg.MatchingParams(),
		reconcile.WithLogger(base),
		reconcile.WithProgress(progress.update),
	)
	if err != nil {
		return faults.Wrap(faults.ErrConfiguration, "reconcile", "params", "", err)
	}
	result, err := engine.Reconcile(ctx, toEngineCues(text), toEngineCues(timing))
	progress.finish()
	if err != nil {
		switch {
		case errors.Is(err, reconcile.ErrNoAnchors):
			return faults.Wrap(faults.ErrInput, "reconcile", "match", "no cue pairs matched; check that both files cover the same content", err)
		case errors.Is(err, reconcile.ErrCoverage):
			return faults.Wrap(faults.ErrInvariant, "reconcile", "assemble", "", err)
		default:
			return faults.Wrap(faults.ErrInput, "reconcile", "match", "", err)
		}
	}

	written, err := report.Write(ctx, cfg.Files.Output, result, text, timing, report.Options{Annotate: cfg.Output.Annotate})
	if err != nil {
		if errors.Is(err, fileutil.ErrLocked) {
			return outputError(cfg.Files.Output, fmt.Errorf("another subrecon process is writing it: %w", err))
		}
		return outputError(cfg.Files.Output, err)
	}
	elapsed := time.Since(started)
	logger.Info("output written",
		logging.Path("path", cfg.Files.Output),
		logging.Int("cues", len(written)),
		logging.Duration("elapsed", elapsed),
	)

	historyStatus := recordHistory(ctx, logger, cfg, runID, result, elapsed)
	printReconcileSummary(out, runID, cfg.Files.Output, result, historyStatus, shouldColorize(out))
	return nil
}

type historyOutcome struct {
	kind    statusKind
	message string
}

func recordHistory(ctx context.Context, logger *slog.Logger, cfg *config.Config, runID string, result *reconcile.Result, elapsed time.Duration) historyOutcome {
	if !cfg.History.Enabled {
		return historyOutcome{kind: statusInfo, message: "disabled"}
	}
	store, err := history.Open(ctx, cfg.History.Path)
	if err == nil {
		defer store.Close()
		_, err = store.RecordRun(ctx, history.Run{
			ID:           runID,
			TextSource:   cfg.Files.TextSource,
			TimingSource: cfg.Files.TimingSource,
			Output:       cfg.Files.Output,
			Params:       cfg.MatchingParams(),
			Summary:      result.Summary,
			Candidates:   result.Candidates,
			Discarded:    result.Discarded,
			Duration:     elapsed,
		}, result.Mappings)
	}
	if err != nil {
		logging.WarnWithContext(logger, "run history not recorded", "history_record_failed",
			logging.Path("path", cfg.History.Path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "the output file was written; only the history entry is missing"),
		)
		return historyOutcome{kind: statusWarn, message: err.Error()}
	}
	return historyOutcome{kind: statusOK, message: "recorded in " + cfg.History.Path}
}

func printReconcileSummary(out io.Writer, runID, output string, result *reconcile.Result, hist historyOutcome, colorize bool) {
	s := result.Summary
	total := s.Total() + s.Fallback

	printLines(out, renderSectionHeader("Reconciliation", colorize)...)
	printLines(out,
		renderStatusLine("Run ID", statusInfo, runID, colorize),
		renderStatusLine("Output", statusOK, output, colorize),
		renderStatusLine("Coverage", coverageKind(s), fmt.Sprintf("%d of %d text cues mapped", s.Total(), total), colorize),
	)
	if result.Discarded > 0 {
		fmt.Fprintln(out, renderStatusLine("Anchors", statusWarn,
			fmt.Sprintf("%d of %d candidates kept, %d out-of-order discarded", s.Rank, result.Candidates, result.Discarded), colorize))
	} else {
		fmt.Fprintln(out, renderStatusLine("Anchors", statusOK,
			fmt.Sprintf("%d of %d candidates kept", s.Rank, result.Candidates), colorize))
	}
	fmt.Fprintln(out, renderStatusLine("History", hist.kind, hist.message, colorize))
	fmt.Fprintln(out)

	rows := [][]string{
		{"rank", fmt.Sprintf("%d", s.Rank), share(s.Rank, total)},
		{"gap", fmt.Sprintf("%d", s.Gap), share(s.Gap, total)},
		{"spread", fmt.Sprintf("%d", s.Spread), share(s.Spread, total)},
		{"fallback", fmt.Sprintf("%d", s.Fallback), share(s.Fallback, total)},
	}
	fmt.Fprintln(out, renderTable(tableSpec{
		headers: []string{"Origin", "Cues", "Share"},
		rows:    rows,
		aligns:  []columnAlignment{alignLeft, alignRight, alignRight},
		footer:  []string{"total", fmt.Sprintf("%d", total), share(total, total)},
	}))
}

func coverageKind(s reconcile.Summary) statusKind {
	if s.Fallback > 0 {
		return statusError
	}
	if s.Rank == 0 {
		return statusWarn
	}
	return statusOK
}

func share(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
}

// rankProgress draws a progress bar on terminals and otherwise logs sampled
// progress lines.
type rankProgress struct {
	logger  *slog.Logger
	out     io.Writer
	tty     bool
	bar     *progressbar.ProgressBar
	sampler *logging.ProgressSampler
}

func newRankProgress(logger *slog.Logger, out io.Writer, tty bool) *rankProgress {
	return &rankProgress{
		logger:  logger,
		out:     out,
		tty:     tty,
		sampler: logging.NewProgressSampler(25),
	}
}

func (p *rankProgress) update(done, total int) {
	if p.tty {
		if p.bar == nil {
			p.bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(p.out),
				progressbar.OptionSetDescription("ranking cues"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionThrottle(65*time.Millisecond),
			)
		}
		_ = p.bar.Set(done)
		return
	}
	if !p.sampler.ShouldLog(done, total) {
		return
	}
	p.logger.Info("rank progress",
		logging.Stage("rank"),
		logging.Int("done", done),
		logging.Int("total", total),
	)
}

func (p *rankProgress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
