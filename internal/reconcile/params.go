package reconcile

import (
	"fmt"
	"runtime"
)

// Params tunes a reconciliation run.
type Params struct {
	// ToleranceStartMS and ToleranceEndMS bound the dynamic overlap
	// tolerance at the first and last timing cue.
	ToleranceStartMS int64
	ToleranceEndMS   int64
	// MinSimilarity is the score floor for a partner to be ranked.
	MinSimilarity float64
	// TopK caps each rank list.
	TopK int
	// MaxAvgRank is the loosest average rank accepted as a candidate.
	MaxAvgRank float64
	// Metric selects the similarity algorithm.
	Metric Metric
	// EnforceMonotonic keeps only the longest order-preserving subset of the
	// greedy anchors.
	EnforceMonotonic bool
	// SpreadWindow is the open window, in seconds, used before the first
	// anchor and after the last one.
	SpreadWindow float64
	// Workers bounds rank-building parallelism; 0 uses every CPU.
	Workers int
}

// DefaultParams returns the tuning used when nothing is configured.
func DefaultParams() Params {
	return Params{
		ToleranceStartMS: 20000,
		ToleranceEndMS:   160000,
		MinSimilarity:    0.55,
		TopK:             5,
		MaxAvgRank:       3.0,
		Metric:           MetricRatio,
		EnforceMonotonic: true,
		SpreadWindow:     10.0,
	}
}

// Validate rejects parameters the engine cannot run with.
func (p Params) Validate() error {
	switch {
	case p.ToleranceStartMS < 0 || p.ToleranceEndMS < 0:
		return fmt.Errorf("%w: tolerances must be >= 0 (start=%d end=%d)", ErrInvalidParams, p.ToleranceStartMS, p.ToleranceEndMS)
	case p.MinSimilarity < 0 || p.MinSimilarity > 1:
		return fmt.Errorf("%w: min_similarity must be between 0 and 1 (got %v)", ErrInvalidParams, p.MinSimilarity)
	case p.TopK < 1:
		return fmt.Errorf("%w: top_k must be >= 1 (got %d)", ErrInvalidParams, p.TopK)
	case p.MaxAvgRank < 1:
		return fmt.Errorf("%w: max_avg_rank must be >= 1 (got %v)", ErrInvalidParams, p.MaxAvgRank)
	case p.SpreadWindow <= 0:
		return fmt.Errorf("%w: spread window must be positive (got %v)", ErrInvalidParams, p.SpreadWindow)
	case p.Workers < 0:
		return fmt.Errorf("%w: workers must be >= 0 (got %d)", ErrInvalidParams, p.Workers)
	}
	if _, err := ScorerFor(p.Metric); err != nil {
		return err
	}
	return nil
}

func (p Params) workerCount(rows int) int {
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > rows {
		workers = rows
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
