package reconcile

import (
	"errors"
	"math"
	"testing"
)

var similarityPairs = [][2]string{
	{"", ""},
	{"", "hello"},
	{"hello", "hello"},
	{"abcd", "bcde"},
	{"I'm going home now", "im going home"},
	{"The quick brown fox", "A quick brown dog"},
	{"Bonjour tout le monde", "Hello everyone"},
	{"tactical, stand by on torpedoes", "stand by on torpedoes"},
	{"aaab", "abaa"},
}

func TestSimilarityBounds(t *testing.T) {
	if got := Similarity("", ""); got != 1 {
		t.Fatalf("Similarity of empty strings = %v, want 1", got)
	}
	if got := Similarity("Hello there!", "hello there"); got != 1 {
		t.Fatalf("Similarity of normalized-equal strings = %v, want 1", got)
	}
	for _, pair := range similarityPairs {
		if got := Similarity(pair[0], pair[0]); got != 1 {
			t.Errorf("Similarity(%q, itself) = %v, want 1", pair[0], got)
		}
		got := Similarity(pair[0], pair[1])
		if got < 0 || got > 1 {
			t.Errorf("Similarity(%q, %q) = %v, out of [0,1]", pair[0], pair[1], got)
		}
	}
}

func TestSimilarityRatio(t *testing.T) {
	if got := Similarity("abcd", "bcde"); math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("Similarity(abcd, bcde) = %v, want 0.75", got)
	}
	if got := Similarity("abc", "xyz"); got != 0 {
		t.Fatalf("Similarity of disjoint strings = %v, want 0", got)
	}
}

func TestScorersAreSymmetric(t *testing.T) {
	for _, metric := range Metrics() {
		scorer, err := ScorerFor(metric)
		if err != nil {
			t.Fatalf("ScorerFor(%q): %v", metric, err)
		}
		for _, pair := range similarityPairs {
			a, b := Normalize(pair[0]), Normalize(pair[1])
			ab, ba := scorer.Score(a, b), scorer.Score(b, a)
			if ab != ba {
				t.Errorf("%s: score(%q, %q) = %v but reversed = %v", metric, a, b, ab, ba)
			}
			if ab < 0 || ab > 1 {
				t.Errorf("%s: score(%q, %q) = %v, out of [0,1]", metric, a, b, ab)
			}
			if self := scorer.Score(a, a); self != 1 {
				t.Errorf("%s: score(%q, itself) = %v, want 1", metric, a, self)
			}
		}
	}
}

func TestAlternateMetrics(t *testing.T) {
	lev, err := ScorerFor(MetricLevenshtein)
	if err != nil {
		t.Fatalf("ScorerFor levenshtein: %v", err)
	}
	if got := lev.Score("kitten", "sitting"); math.Abs(got-4.0/7.0) > 1e-4 {
		t.Errorf("levenshtein(kitten, sitting) = %v, want %v", got, 4.0/7.0)
	}

	jw, err := ScorerFor(MetricJaroWinkler)
	if err != nil {
		t.Fatalf("ScorerFor jaro_winkler: %v", err)
	}
	if got := jw.Score("martha", "marhta"); got < 0.9 {
		t.Errorf("jaro_winkler(martha, marhta) = %v, want > 0.9", got)
	}

	diff, err := ScorerFor(MetricDiff)
	if err != nil {
		t.Fatalf("ScorerFor diff: %v", err)
	}
	if got := diff.Score("abc", "xyz"); got != 0 {
		t.Errorf("diff(abc, xyz) = %v, want 0", got)
	}
}

func TestCosineIgnoresWordOrder(t *testing.T) {
	cos, err := ScorerFor(MetricCosine)
	if err != nil {
		t.Fatalf("ScorerFor cosine: %v", err)
	}
	if got := cos.Score("stand by tactical", "tactical stand by"); math.Abs(got-1) > 1e-9 {
		t.Errorf("cosine of reordered words = %v, want 1", got)
	}
	if got := cos.Score("go home now", "go away"); math.Abs(got-1/math.Sqrt(6)) > 1e-9 {
		t.Errorf("cosine(go home now, go away) = %v, want %v", got, 1/math.Sqrt(6))
	}
	if got := cos.Score("", "hello"); got != 0 {
		t.Errorf("cosine with empty side = %v, want 0", got)
	}
}

func TestScorerForDefaultsAndRejectsUnknown(t *testing.T) {
	scorer, err := ScorerFor("")
	if err != nil {
		t.Fatalf("ScorerFor(\"\"): %v", err)
	}
	if got := scorer.Score("abcd", "bcde"); math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("default scorer is not the ratio metric: got %v", got)
	}
	if _, err := ScorerFor(" Jaro_Winkler "); err != nil {
		t.Fatalf("ScorerFor should trim and fold case: %v", err)
	}
	if _, err := ScorerFor("soundex"); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams for unknown metric, got %v", err)
	}
}
