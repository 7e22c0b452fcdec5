package srt

// Cue is one numbered SubRip block.
type Cue struct {
	Index   int
	StartMS int64
	EndMS   int64
	Text    string
}

// Duration returns the cue length in milliseconds.
func (c Cue) Duration() int64 {
	return c.EndMS - c.StartMS
}
