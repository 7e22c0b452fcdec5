package reconcile

import (
	"cmp"
	"slices"
)

// FuseRanks pairs every timing/text combination ranked in both directions
// and keeps those whose average rank is at most maxAvgRank. Candidates are
// returned in ascending average rank; ties keep discovery order (timing
// index, then rank within the timing cue's list).
func FuseRanks(timingRanks, textRanks RankTable, maxAvgRank float64) []Candidate {
	var candidates []Candidate
	for _, timeIdx := range timingRanks.Items() {
		for _, textIdx := range timingRanks.Partners(timeIdx) {
			textRank, ok := textRanks.Rank(textIdx, timeIdx)
			if !ok {
				continue
			}
			avg := float64(timingRanks[timeIdx][textIdx]+textRank) / 2
			if avg > maxAvgRank {
				continue
			}
			candidates = append(candidates, Candidate{AvgRank: avg, TextIdx: textIdx, TimeIdx: timeIdx})
		}
	}
	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Compare(a.AvgRank, b.AvgRank)
	})
	return candidates
}

// claims tracks the indexes taken by accepted anchors within one selection.
type claims struct {
	text map[int]struct{}
	time map[int]struct{}
}

func newClaims(capacity int) claims {
	return claims{
		text: make(map[int]struct{}, capacity),
		time: make(map[int]struct{}, capacity),
	}
}

func (c claims) free(cand Candidate) bool {
	_, textTaken := c.text[cand.TextIdx]
	_, timeTaken := c.time[cand.TimeIdx]
	return !textTaken && !timeTaken
}

func (c claims) take(cand Candidate) {
	c.text[cand.TextIdx] = struct{}{}
	c.time[cand.TimeIdx] = struct{}{}
}

// SelectAnchors greedily accepts candidates in order, skipping any whose text
// or timing index is already claimed. It never backtracks, so the result is
// a one-to-one matching but not a maximum-weight one.
func SelectAnchors(candidates []Candidate) []Candidate {
	claimed := newClaims(len(candidates))
	var anchors []Candidate
	for _, cand := range candidates {
		if !claimed.free(cand) {
			continue
		}
		claimed.take(cand)
		anchors = append(anchors, cand)
	}
	return anchors
}

// MonotonicAnchors keeps the longest subset of anchors whose timing indexes
// strictly increase with their text indexes. Among equally long subsets the
// one with the lowest total average rank wins. The result is ordered by text
// index.
func MonotonicAnchors(anchors []Candidate) []Candidate {
	if len(anchors) < 2 {
		return slices.Clone(anchors)
	}
	sorted := slices.Clone(anchors)
	slices.SortFunc(sorted, func(a, b Candidate) int {
		return cmp.Compare(a.TextIdx, b.TextIdx)
	})

	n := len(sorted)
	length := make([]int, n)
	cost := make([]float64, n)
	prev := make([]int, n)
	best := 0
	for i := range sorted {
		length[i], cost[i], prev[i] = 1, sorted[i].AvgRank, -1
		for j := 0; j < i; j++ {
			if sorted[j].TimeIdx >= sorted[i].TimeIdx {
				continue
			}
			l, c := length[j]+1, cost[j]+sorted[i].AvgRank
			if l > length[i] || (l == length[i] && c < cost[i]) {
				length[i], cost[i], prev[i] = l, c, j
			}
		}
		if length[i] > length[best] || (length[i] == length[best] && cost[i] < cost[best]) {
			best = i
		}
	}

	kept := make([]Candidate, length[best])
	for i, k := best, length[best]-1; i >= 0; i, k = prev[i], k-1 {
		kept[k] = sorted[i]
	}
	return kept
}

// AnchorMappings converts anchors into rank mappings that borrow the timing
// cue's interval, sorted by text index.
func AnchorMappings(anchors []Candidate, timing []Cue) []Mapping {
	mappings := make([]Mapping, 0, len(anchors))
	for _, a := range anchors {
		mappings = append(mappings, timedMapping(a.TextIdx, a.TimeIdx, timing[a.TimeIdx], OriginRank))
	}
	sortByTextIdx(mappings)
	return mappings
}
