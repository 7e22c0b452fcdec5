package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"subrecon/internal/logging"
)

// Engine runs the reconciliation stages with fixed parameters.
type Engine struct {
	params   Params
	scorer   Scorer
	logger   *slog.Logger
	progress ProgressFunc
}

// Option customizes an Engine.
type Option func(*Engine)

// WithScorer overrides the scorer selected by Params.Metric.
func WithScorer(scorer Scorer) Option {
	return func(e *Engine) {
		if scorer != nil {
			e.scorer = scorer
		}
	}
}

// WithLogger attaches a logger; the engine logs one line per stage.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithProgress reports rank-building progress.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// New validates params and builds an engine.
func New(params Params, opts ...Option) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	scorer, err := ScorerFor(params.Metric)
	if err != nil {
		return nil, err
	}
	e := &Engine{params: params, scorer: scorer}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "reconcile")
	return e, nil
}

// Params returns the engine's parameters.
func (e *Engine) Params() Params {
	return e.params
}

// Reconcile maps every text cue to a time window. Sources must be in
// ascending time order. It returns ErrNoAnchors when rank fusion accepts no
// pair, including when either source is empty.
func (e *Engine) Reconcile(ctx context.Context, text, timing []Cue) (*Result, error) {
	logger := logging.WithContext(ctx, e.logger)
	started := time.Now()

	timingRanks, textRanks, err := BuildRanks(ctx, text, timing, e.params, e.scorer, e.progress)
	if err != nil {
		return nil, fmt.Errorf("build ranks: %w", err)
	}
	logger.Info("ranks built",
		logging.Stage("rank"),
		logging.Int("text_cues", len(text)),
		logging.Int("timing_cues", len(timing)),
		logging.Int("ranked_timing", countRanked(timingRanks)),
		logging.Int("ranked_text", countRanked(textRanks)),
		logging.Duration("elapsed", time.Since(started)),
	)

	candidates := FuseRanks(timingRanks, textRanks, e.params.MaxAvgRank)
	anchors := SelectAnchors(candidates)
	discarded := 0
	if e.params.EnforceMonotonic {
		kept := MonotonicAnchors(anchors)
		discarded = len(anchors) - len(kept)
		anchors = kept
	}
	logger.Info("anchors selected",
		logging.Stage("fusion"),
		logging.Int("candidates", len(candidates)),
		logging.Int("anchors", len(anchors)),
		logging.Int("discarded", discarded),
	)
	if discarded > 0 {
		logging.WarnWithContext(logger, "anchors out of order were discarded", "anchors_discarded",
			logging.Int("discarded", discarded),
			logging.String(logging.FieldErrorHint, "lower max_avg_rank or min_similarity to tighten matching"),
			logging.String(logging.FieldImpact, "discarded cues are gap-filled or spread instead"),
		)
	}
	if len(anchors) == 0 {
		return nil, fmt.Errorf("%w: %d text cues, %d timing cues, %d candidates", ErrNoAnchors, len(text), len(timing), len(candidates))
	}

	ranked := AnchorMappings(anchors, timing)
	gaps := FillGaps(ranked, timing)
	anchored := make([]Mapping, 0, len(ranked)+len(gaps))
	anchored = append(anchored, ranked...)
	anchored = append(anchored, gaps...)
	sortByTextIdx(anchored)
	logger.Debug("gaps filled",
		logging.Stage("gap"),
		logging.Int("gap_mappings", len(gaps)),
	)

	spread := Spread(anchored, text, e.params.SpreadWindow)
	logger.Debug("remaining cues spread",
		logging.Stage("spread"),
		logging.Int("spread_mappings", len(spread)),
	)

	result, err := Assemble(len(text), ranked, gaps, spread)
	if err != nil {
		return nil, err
	}
	result.Candidates = len(candidates)
	result.Discarded = discarded

	logger.Info("reconciliation complete",
		logging.Int("matched_rank", result.Summary.Rank),
		logging.Int("matched_gap", result.Summary.Gap),
		logging.Int("matched_spread", result.Summary.Spread),
		logging.Int("fallbacks", result.Summary.Fallback),
		logging.Duration("elapsed", time.Since(started)),
	)
	return &result, nil
}

// Reconcile runs a single reconciliation with params.
func Reconcile(ctx context.Context, text, timing []Cue, params Params) (*Result, error) {
	engine, err := New(params)
	if err != nil {
		return nil, err
	}
	return engine.Reconcile(ctx, text, timing)
}

func countRanked(table RankTable) int {
	n := 0
	for _, ranks := range table {
		if len(ranks) > 0 {
			n++
		}
	}
	return n
}
