package srt

import (
	"regexp"
	"strings"
)

// adMarkers matches release-group, download-site and sync credits. Cue text
// is whitespace-folded to one line before matching.
var adMarkers = regexp.MustCompile(`(?i)` + strings.Join([]string{
	`opensubtitles`,
	`addic7ed`,
	`\bsubscene\b`,
	`\byts\b`,
	`\byify\b`,
	`subtitles? by`,
	`synced? (and|&) corrected`,
	`advertise (your|yours?) product`,
	`become (a )?vip member`,
	`https?://`,
	`\bwww\.`,
}, "|"))

// CleanStats reports the effects of advertisement stripping.
type CleanStats struct {
	RemovedCues int
	// FirstRemovedMS is the start of the earliest removed cue, or -1.
	FirstRemovedMS int64
}

// IsAdvertisement reports whether text looks like a release-group or
// download-site credit rather than dialogue.
func IsAdvertisement(text string) bool {
	folded := strings.Join(strings.Fields(text), " ")
	return folded != "" && adMarkers.MatchString(folded)
}

// StripAdvertisements drops advertisement cues, keeping the order and
// indexes of the rest.
func StripAdvertisements(cues []Cue) ([]Cue, CleanStats) {
	stats := CleanStats{FirstRemovedMS: -1}
	kept := cues[:0:0]
	for _, cue := range cues {
		if !IsAdvertisement(cue.Text) {
			kept = append(kept, cue)
			continue
		}
		if stats.RemovedCues == 0 || cue.StartMS < stats.FirstRemovedMS {
			stats.FirstRemovedMS = cue.StartMS
		}
		stats.RemovedCues++
	}
	return kept, stats
}
