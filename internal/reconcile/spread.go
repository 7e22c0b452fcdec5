package reconcile

import "math"

// minSpan is the smallest duration, window, or clamp margin in seconds.
const minSpan = 0.001

type span struct {
	start float64
	end   float64
}

// Spread synthesizes timings for text cues that anchored (rank and gap
// mappings sorted by text index) does not cover. Cues before the first
// anchor fill the window seconds ending at its start; cues between anchors
// fill the gap between them; cues after the last anchor start at its end and
// may run past window. anchored must not be empty.
func Spread(anchored []Mapping, text []Cue, window float64) []Mapping {
	if len(anchored) == 0 {
		return nil
	}
	mapped := make(map[int]struct{}, len(anchored))
	for _, m := range anchored {
		mapped[m.TextIdx] = struct{}{}
	}
	missingIn := func(from, to int) []int {
		var missing []int
		for idx := from; idx < to; idx++ {
			if _, ok := mapped[idx]; !ok {
				missing = append(missing, idx)
			}
		}
		return missing
	}

	var out []Mapping
	first, last := anchored[0], anchored[len(anchored)-1]

	t1 := first.Start
	out = append(out, spreadRegion(missingIn(0, first.TextIdx), text, math.Max(t1-window, 0), t1, true)...)

	for i := 1; i < len(anchored); i++ {
		left, right := anchored[i-1], anchored[i]
		out = append(out, spreadRegion(missingIn(left.TextIdx+1, right.TextIdx), text, left.End, right.Start, true)...)
	}

	out = append(out, spreadRegion(missingIn(last.TextIdx+1, len(text)), text, last.End, last.End+window, false)...)
	return out
}

// spreadRegion rescales the missing cues' original durations and gaps into
// [t0, t1]. With clamp, no cue ends later than t1 - minSpan.
func spreadRegion(missing []int, text []Cue, t0, t1 float64, clamp bool) []Mapping {
	if len(missing) == 0 {
		return nil
	}
	durations, gaps := pacing(missing, text)
	total := 0.0
	for _, d := range durations {
		total += d
	}
	for _, g := range gaps {
		total += g
	}
	scale := 1.0
	if total > 0 {
		scale = math.Max(t1-t0, minSpan) / total
	}

	spans := placeSpans(durations, gaps, scale, t0, t1, clamp)
	out := make([]Mapping, len(missing))
	for i, textIdx := range missing {
		out[i] = Mapping{
			TextIdx: textIdx,
			TimeIdx: NoTiming,
			Start:   spans[i].start,
			End:     spans[i].end,
			Origin:  OriginSpread,
		}
	}
	return out
}

// pacing returns each cue's original duration (floor minSpan) and the
// original gap to the next missing cue (floor 0), in seconds.
func pacing(missing []int, text []Cue) ([]float64, []float64) {
	durations := make([]float64, len(missing))
	gaps := make([]float64, 0, len(missing)-1)
	for i, textIdx := range missing {
		cue := text[textIdx]
		durations[i] = math.Max(msToSeconds(cue.EndMS-cue.StartMS), minSpan)
		if i < len(missing)-1 {
			next := text[missing[i+1]]
			gaps = append(gaps, math.Max(msToSeconds(next.StartMS-cue.EndMS), 0))
		}
	}
	return durations, gaps
}

// placeSpans folds scaled durations and gaps into consecutive spans starting
// at t0. A span never ends before it starts, even in degenerate windows.
func placeSpans(durations, gaps []float64, scale, t0, t1 float64, clamp bool) []span {
	spans := make([]span, 0, len(durations))
	cursor := t0
	for i, d := range durations {
		start := cursor
		end := start + d*scale
		if clamp {
			end = math.Min(end, t1-minSpan)
		}
		end = math.Max(end, start)
		spans = append(spans, span{start: start, end: end})
		cursor = end
		if i < len(gaps) {
			cursor += gaps[i] * scale
		}
	}
	return spans
}
