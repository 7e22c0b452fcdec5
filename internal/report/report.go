// Package report turns a reconciliation result into the output subtitle
// track.
package report

import (
	"context"
	"fmt"
	"strings"

	"subrecon/internal/reconcile"
	"subrecon/internal/srt"
)

// Options controls output rendering.
type Options struct {
	// Annotate adds a summary header cue and per-cue comments naming the
	// mapping origin and the borrowed timing wording.
	Annotate bool
}

// Build renders one output cue per mapping, carrying the text source's
// wording at the mapped time. Cues are ordered by time and numbered from 1.
func Build(result *reconcile.Result, text, timing []srt.Cue, opts Options) ([]srt.Cue, error) {
	if result == nil {
		return nil, fmt.Errorf("build output: no result")
	}
	cues := make([]srt.Cue, 0, len(result.Mappings)+1)
	if opts.Annotate {
		cues = append(cues, srt.Cue{Text: SummaryHeader(result.Summary)})
	}
	for _, m := range result.Mappings {
		if m.TextIdx < 0 || m.TextIdx >= len(text) {
			return nil, fmt.Errorf("build output: mapping references text cue %d of %d", m.TextIdx, len(text))
		}
		body := text[m.TextIdx].Text
		if opts.Annotate {
			body = appendComments(body, annotations(m, timing))
		}
		cues = append(cues, srt.Cue{
			StartMS: srt.SecondsToMS(m.Start),
			EndMS:   srt.SecondsToMS(m.End),
			Text:    body,
		})
	}
	return srt.Reindex(srt.SortByTime(cues)), nil
}

// Write builds the output track and writes it atomically to path.
func Write(ctx context.Context, path string, result *reconcile.Result, text, timing []srt.Cue, opts Options) ([]srt.Cue, error) {
	cues, err := Build(result, text, timing, opts)
	if err != nil {
		return nil, err
	}
	if err := srt.WriteFile(ctx, path, cues); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	return cues, nil
}

// SummaryHeader renders the per-origin counts as SubRip comments.
func SummaryHeader(s reconcile.Summary) string {
	return strings.Join([]string{
		comment(fmt.Sprintf("Matched (rank)  : %d", s.Rank)),
		comment(fmt.Sprintf("Matched (gap)   : %d", s.Gap)),
		comment(fmt.Sprintf("Matched (spread): %d", s.Spread)),
		comment(fmt.Sprintf("Fallbacks       : %d", s.Fallback)),
	}, "\n")
}

func annotations(m reconcile.Mapping, timing []srt.Cue) []string {
	notes := []string{comment(fmt.Sprintf("O (%s)", m.Origin))}
	if m.Timed() && m.TimeIdx < len(timing) {
		if wording := strings.TrimSpace(timing[m.TimeIdx].Text); wording != "" {
			notes = append(notes, comment("T: "+wording))
		}
	}
	return notes
}

func appendComments(body string, notes []string) string {
	joined := strings.Join(notes, "\n")
	if body == "" {
		return joined
	}
	return body + "\n" + joined
}

func comment(text string) string {
	return `{\ ` + text + `}`
}
