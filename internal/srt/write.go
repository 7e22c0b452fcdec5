package srt

import (
	"context"
	"strconv"
	"strings"

	"subrecon/internal/fileutil"
)

// Format renders cues as SubRip text using each cue's stored index.
func Format(cues []Cue) string {
	var b strings.Builder
	for _, cue := range cues {
		b.WriteString(strconv.Itoa(cue.Index))
		b.WriteByte('\n')
		b.WriteString(FormatTimestamp(cue.StartMS))
		b.WriteString(" --> ")
		b.WriteString(FormatTimestamp(cue.EndMS))
		b.WriteByte('\n')
		if cue.Text != "" {
			b.WriteString(cue.Text)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteFile atomically writes cues to path as UTF-8 SubRip.
func WriteFile(ctx context.Context, path string, cues []Cue) error {
	return fileutil.WriteFileAtomic(ctx, path, []byte(Format(cues)), 0o644)
}
