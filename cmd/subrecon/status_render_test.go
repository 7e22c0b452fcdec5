package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"subrecon/internal/reconcile"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Coverage", statusError, "3 of 4 text cues mapped", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Coverage:", "[ERROR] 3 of 4 text cues mapped")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Output", statusOK, "out.srt", true)
	if !strings.HasPrefix(got, "\x1b[32m") {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, "\x1b[0m") {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestCoverageKind(t *testing.T) {
	tests := []struct {
		summary reconcile.Summary
		want    statusKind
	}{
		{reconcile.Summary{Rank: 3, Gap: 1}, statusOK},
		{reconcile.Summary{Spread: 2}, statusWarn},
		{reconcile.Summary{Rank: 1, Fallback: 1}, statusError},
	}
	for _, tt := range tests {
		if got := coverageKind(tt.summary); got != tt.want {
			t.Errorf("coverageKind(%+v) = %v, want %v", tt.summary, got, tt.want)
		}
	}
}

func TestRenderTableAlignsColumns(t *testing.T) {
	out := renderTable(tableSpec{
		headers: []string{"Origin", "Cues", "Share"},
		rows:    [][]string{{"rank", "12", share(12, 16)}, {"gap"}},
		aligns:  []columnAlignment{alignLeft, alignRight, alignRight},
		footer:  []string{"total", "16"},
	})
	for _, want := range []string{"Origin", "Cues", "rank", "75.0%", "gap", "total"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "ORIGIN") || strings.Contains(out, "TOTAL") {
		t.Fatalf("headers and footers should render as written:\n%s", out)
	}
	if renderTable(tableSpec{}) != "" {
		t.Fatal("expected empty table for no headers")
	}
}

func TestSuffixedPath(t *testing.T) {
	if got, want := suffixedPath("/subs/Show.S01E01.en.srt", shiftedSuffix), "/subs/Show.S01E01.en_linear_shifted.srt"; got != want {
		t.Fatalf("suffixedPath = %q, want %q", got, want)
	}
}
