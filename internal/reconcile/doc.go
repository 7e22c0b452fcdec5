// Package reconcile aligns a text subtitle track with a timing subtitle track.
//
// The text source carries the wording that should survive; the timing source
// carries the cue boundaries that should be reused wherever possible. The
// engine ranks plausible partners in both directions, fuses the two rankings
// into one-to-one anchors, fills contiguous runs between anchors, and spreads
// every remaining text cue proportionally into the time that is left. The
// assembled result covers every text cue exactly once, ordered by text index.
//
// Each stage consumes and produces Mapping records, so the stages can be run
// and tested independently. The package performs no I/O; loading and writing
// subtitle files belongs to the srt and report packages.
package reconcile
