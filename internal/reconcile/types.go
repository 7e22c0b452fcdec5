package reconcile

import (
	"cmp"
	"slices"
)

// Cue is a timed span of subtitle text. Times are milliseconds.
type Cue struct {
	StartMS int64
	EndMS   int64
	Text    string
}

// Origin records which stage produced a mapping.
type Origin string

const (
	OriginRank   Origin = "rank"
	OriginGap    Origin = "gap"
	OriginSpread Origin = "spread"
)

// NoTiming is the TimeIdx of a mapping without a timing-source partner.
const NoTiming = -1

// Mapping assigns a text cue to a time window in seconds.
type Mapping struct {
	TextIdx int
	TimeIdx int
	Start   float64
	End     float64
	Origin  Origin
}

// Timed reports whether the mapping borrows a timing-source cue.
func (m Mapping) Timed() bool {
	return m.TimeIdx != NoTiming
}

// RankTable maps an item index to its ranked partners (partner index -> rank,
// 1 = best). Ranks are dense from 1 and capped at top_k entries.
type RankTable map[int]map[int]int

// Rank returns the rank of partner in item's list.
func (t RankTable) Rank(item, partner int) (int, bool) {
	ranks, ok := t[item]
	if !ok {
		return 0, false
	}
	rank, ok := ranks[partner]
	return rank, ok
}

// Partners returns item's partners ordered from best to worst rank.
func (t RankTable) Partners(item int) []int {
	ranks := t[item]
	partners := make([]int, 0, len(ranks))
	for partner := range ranks {
		partners = append(partners, partner)
	}
	slices.SortFunc(partners, func(a, b int) int {
		return cmp.Compare(ranks[a], ranks[b])
	})
	return partners
}

// Items returns the indexes present in the table in ascending order.
func (t RankTable) Items() []int {
	items := make([]int, 0, len(t))
	for item := range t {
		items = append(items, item)
	}
	slices.Sort(items)
	return items
}

// Candidate is a mutually ranked text/timing pair.
type Candidate struct {
	AvgRank float64
	TextIdx int
	TimeIdx int
}

// Summary counts assembled mappings per origin. Fallback is the number of
// text cues that no stage mapped; it is zero whenever assembly succeeds.
type Summary struct {
	Rank     int
	Gap      int
	Spread   int
	Fallback int
}

// Total returns the number of mapped text cues.
func (s Summary) Total() int {
	return s.Rank + s.Gap + s.Spread
}

// Result is the outcome of a reconciliation run.
type Result struct {
	Mappings []Mapping
	Summary  Summary
	// Candidates is the number of mutually ranked pairs within max_avg_rank.
	Candidates int
	// Discarded counts greedy anchors dropped by the monotonic filter.
	Discarded int
}

func sortByTextIdx(mappings []Mapping) {
	slices.SortStableFunc(mappings, func(a, b Mapping) int {
		return cmp.Compare(a.TextIdx, b.TextIdx)
	})
}

func timedMapping(textIdx, timeIdx int, cue Cue, origin Origin) Mapping {
	return Mapping{
		TextIdx: textIdx,
		TimeIdx: timeIdx,
		Start:   msToSeconds(cue.StartMS),
		End:     msToSeconds(cue.EndMS),
		Origin:  origin,
	}
}

func msToSeconds(ms int64) float64 {
	return float64(ms) / 1000
}
