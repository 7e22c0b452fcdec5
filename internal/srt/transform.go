package srt

import (
	"cmp"
	"slices"
)

// SortByTime returns a copy of cues ordered by start then end time. Equal
// cues keep their relative order.
func SortByTime(cues []Cue) []Cue {
	sorted := slices.Clone(cues)
	slices.SortStableFunc(sorted, func(a, b Cue) int {
		if c := cmp.Compare(a.StartMS, b.StartMS); c != 0 {
			return c
		}
		return cmp.Compare(a.EndMS, b.EndMS)
	})
	return sorted
}

// Reindex returns a copy of cues numbered sequentially from 1.
func Reindex(cues []Cue) []Cue {
	out := slices.Clone(cues)
	for i := range out {
		out[i].Index = i + 1
	}
	return out
}

// LinearShift moves every cue by an offset interpolated from startMS to endMS
// according to where the cue's centre falls between the first cue's start
// and the last cue's end. Shifted times are truncated to whole milliseconds
// and never negative.
func LinearShift(cues []Cue, startMS, endMS int64) []Cue {
	out := slices.Clone(cues)
	if len(out) == 0 {
		return out
	}
	firstStart := out[0].StartMS
	lastEnd := out[len(out)-1].EndMS
	total := float64(max(lastEnd-firstStart, 1))

	for i, cue := range out {
		center := float64(cue.StartMS+cue.EndMS) / 2
		ratio := (center - float64(firstStart)) / total
		shift := float64(startMS) + ratio*float64(endMS-startMS)
		out[i].StartMS = max(int64(float64(cue.StartMS)+shift), 0)
		out[i].EndMS = max(int64(float64(cue.EndMS)+shift), 0)
	}
	return out
}
