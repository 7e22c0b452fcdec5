package reconcile

import "testing"

// exactScorer scores 1 for identical normalized text and 0 otherwise.
var exactScorer = ScorerFunc(func(a, b string) float64 {
	if a == b {
		return 1
	}
	return 0
})

// constScorer scores every pair the same.
func constScorer(score float64) Scorer {
	return ScorerFunc(func(string, string) float64 { return score })
}

// sequentialCues builds cues of 1s each separated by 1s of silence,
// starting at offsetMS.
func sequentialCues(offsetMS int64, texts ...string) []Cue {
	cues := make([]Cue, len(texts))
	for i, text := range texts {
		start := offsetMS + int64(i)*2000
		cues[i] = Cue{StartMS: start, EndMS: start + 1000, Text: text}
	}
	return cues
}

func tightParams() Params {
	params := DefaultParams()
	params.ToleranceStartMS = 0
	params.ToleranceEndMS = 0
	params.MinSimilarity = 0.5
	params.Workers = 2
	return params
}

func assertCoverage(t *testing.T, mappings []Mapping, textCount int) {
	t.Helper()
	if len(mappings) != textCount {
		t.Fatalf("expected %d mappings, got %d", textCount, len(mappings))
	}
	for i, m := range mappings {
		if m.TextIdx != i {
			t.Fatalf("mapping %d has text index %d", i, m.TextIdx)
		}
		if m.End < m.Start {
			t.Fatalf("mapping %d ends before it starts: %+v", i, m)
		}
	}
}

func assertTimedMonotonic(t *testing.T, mappings []Mapping) {
	t.Helper()
	last := -1
	for _, m := range mappings {
		if !m.Timed() {
			continue
		}
		if m.TimeIdx <= last {
			t.Fatalf("timing indexes not strictly increasing at text %d: %d after %d", m.TextIdx, m.TimeIdx, last)
		}
		last = m.TimeIdx
	}
}
