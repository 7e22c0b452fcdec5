package reconcile

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Metric names a similarity algorithm.
type Metric string

const (
	// MetricRatio is the classic sequence-matching ratio 2*M/(len(a)+len(b)),
	// where M sums greedily found longest matching blocks.
	MetricRatio Metric = "ratio"
	// MetricJaroWinkler favours shared prefixes; suited to short cues.
	MetricJaroWinkler Metric = "jaro_winkler"
	// MetricLevenshtein is 1 - edit distance / longer length.
	MetricLevenshtein Metric = "levenshtein"
	// MetricDiff is the ratio of characters in equal runs of a minimal diff.
	MetricDiff Metric = "diff"
	// MetricCosine compares word frequencies and ignores word order.
	MetricCosine Metric = "cosine"
)

// Metrics lists the supported metrics, default first.
func Metrics() []Metric {
	return []Metric{MetricRatio, MetricJaroWinkler, MetricLevenshtein, MetricDiff, MetricCosine}
}

// Scorer compares two normalized strings and returns a similarity in [0,1].
// Implementations must be safe for concurrent use.
type Scorer interface {
	Score(a, b string) float64
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(a, b string) float64

// Score implements Scorer.
func (f ScorerFunc) Score(a, b string) float64 { return f(a, b) }

// ScorerFor returns the scorer for metric. An empty metric selects MetricRatio.
func ScorerFor(metric Metric) (Scorer, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(string(metric)))) {
	case MetricRatio, "":
		return symmetric(sequenceRatio), nil
	case MetricJaroWinkler:
		return symmetric(jaroWinkler), nil
	case MetricLevenshtein:
		return symmetric(levenshtein), nil
	case MetricDiff:
		return symmetric(diffRatio), nil
	case MetricCosine:
		return symmetric(wordCosine), nil
	default:
		return nil, fmt.Errorf("%w: unknown similarity metric %q", ErrInvalidParams, metric)
	}
}

// Similarity normalizes both strings and returns their sequence-matching
// ratio. Two strings that normalize to the same value score 1.0.
func Similarity(a, b string) float64 {
	return symmetric(sequenceRatio).Score(Normalize(a), Normalize(b))
}

// symmetric wraps a raw metric so identical inputs score 1 and argument order
// never changes the result.
func symmetric(score func(a, b string) float64) ScorerFunc {
	return func(a, b string) float64 {
		if a == b {
			return 1
		}
		if a > b {
			a, b = b, a
		}
		return clampUnit(score(a, b))
	}
}

func sequenceRatio(a, b string) float64 {
	matcher := difflib.NewMatcher(runeTokens(a), runeTokens(b))
	return matcher.Ratio()
}

func runeTokens(s string) []string {
	tokens := make([]string, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		tokens = append(tokens, string(r))
	}
	return tokens
}

func jaroWinkler(a, b string) float64 {
	return float64(edlib.JaroWinklerSimilarity(a, b))
}

func levenshtein(a, b string) float64 {
	score, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return float64(score)
}

func diffRatio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1
	}
	dmp := diffmatchpatch.New()
	matched := 0
	for _, d := range dmp.DiffMain(a, b, false) {
		if d.Type == diffmatchpatch.DiffEqual {
			matched += utf8.RuneCountInString(d.Text)
		}
	}
	return 2 * float64(matched) / float64(total)
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
