package reconcile

// Overlaps reports whether b lies within toleranceMS of a.
func Overlaps(a, b Cue, toleranceMS int64) bool {
	return b.EndMS >= a.StartMS-toleranceMS && b.StartMS <= a.EndMS+toleranceMS
}

// DynamicTolerance interpolates linearly from startMS at timing position 0
// to endMS at position n-1. The result is truncated to whole milliseconds.
func DynamicTolerance(pos, n int, startMS, endMS int64) int64 {
	if n <= 1 {
		return startMS
	}
	progress := float64(pos) / float64(n-1)
	return int64(float64(startMS) + progress*float64(endMS-startMS))
}
