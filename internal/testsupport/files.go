package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"subrecon/internal/srt"
)

// WriteFile writes raw content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteSRT renders cues as SubRip and writes them to path. Cue indexes are
// assigned from 1 in the given order.
func WriteSRT(t testing.TB, path string, cues ...srt.Cue) {
	t.Helper()

	WriteFile(t, path, srt.Format(srt.Reindex(cues)))
}

// Dialogue builds one-second cues two seconds apart, starting at offsetMS.
func Dialogue(offsetMS int64, lines ...string) []srt.Cue {
	cues := make([]srt.Cue, len(lines))
	for i, line := range lines {
		start := offsetMS + int64(i)*2000
		cues[i] = srt.Cue{Index: i + 1, StartMS: start, EndMS: start + 1000, Text: line}
	}
	return cues
}

// ReadSRT parses the SubRip file at path and fails on any read error.
func ReadSRT(t testing.TB, path string) srt.Document {
	t.Helper()

	doc, err := srt.ReadFile(path, "")
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return doc
}
