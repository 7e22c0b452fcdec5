package reconcile

// FillGaps completes runs between consecutive anchors when both sequences
// advanced by the same count. anchors must be sorted by text index. Only the
// new gap mappings are returned; runs whose counts differ are left for
// Spread.
func FillGaps(anchors []Mapping, timing []Cue) []Mapping {
	var gaps []Mapping
	for i := 1; i < len(anchors); i++ {
		left, right := anchors[i-1], anchors[i]
		dt := right.TextIdx - left.TextIdx
		ds := right.TimeIdx - left.TimeIdx
		if dt <= 1 || dt != ds {
			continue
		}
		for k := 1; k < dt; k++ {
			timeIdx := left.TimeIdx + k
			gaps = append(gaps, timedMapping(left.TextIdx+k, timeIdx, timing[timeIdx], OriginGap))
		}
	}
	return gaps
}
