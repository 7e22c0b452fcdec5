package reconcile

import "fmt"

// Assemble merges mapping groups into one sequence ordered by text index and
// counts them per origin. It returns ErrCoverage, together with the merged
// result, when the sequence does not cover 0..textCount-1 exactly once.
func Assemble(textCount int, groups ...[]Mapping) (Result, error) {
	size := 0
	for _, g := range groups {
		size += len(g)
	}
	merged := make([]Mapping, 0, size)
	for _, g := range groups {
		merged = append(merged, g...)
	}
	sortByTextIdx(merged)

	var summary Summary
	for _, m := range merged {
		switch m.Origin {
		case OriginRank:
			summary.Rank++
		case OriginGap:
			summary.Gap++
		case OriginSpread:
			summary.Spread++
		}
	}
	summary.Fallback = max(textCount-len(merged), 0)

	result := Result{Mappings: merged, Summary: summary}
	return result, checkCoverage(merged, textCount)
}

func checkCoverage(merged []Mapping, textCount int) error {
	for i, m := range merged {
		if i >= textCount {
			return fmt.Errorf("%w: %d mappings for %d text cues", ErrCoverage, len(merged), textCount)
		}
		if m.TextIdx != i {
			return fmt.Errorf("%w: text cue %d mapped at position %d", ErrCoverage, m.TextIdx, i)
		}
	}
	if len(merged) != textCount {
		return fmt.Errorf("%w: %d of %d text cues mapped", ErrCoverage, len(merged), textCount)
	}
	return nil
}
