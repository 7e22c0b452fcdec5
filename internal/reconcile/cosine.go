package reconcile

import (
	"math"
	"strings"
)

// wordVector is a term-frequency vector over the words of a normalized cue.
type wordVector struct {
	counts map[string]float64
	norm   float64
}

func newWordVector(text string) wordVector {
	words := strings.Fields(text)
	counts := make(map[string]float64, len(words))
	for _, w := range words {
		counts[w]++
	}
	var norm float64
	for _, c := range counts {
		norm += c * c
	}
	return wordVector{counts: counts, norm: math.Sqrt(norm)}
}

// wordCosine scores word overlap regardless of order, so reordered lines
// such as "stand by, tactical" and "tactical, stand by" match fully.
func wordCosine(a, b string) float64 {
	va, vb := newWordVector(a), newWordVector(b)
	if va.norm == 0 || vb.norm == 0 {
		return 0
	}
	if len(vb.counts) < len(va.counts) {
		va, vb = vb, va
	}
	var dot float64
	for w, c := range va.counts {
		dot += c * vb.counts[w]
	}
	return dot / (va.norm * vb.norm)
}
