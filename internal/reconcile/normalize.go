package reconcile

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var normalizeReplacer = strings.NewReplacer(
	"\n", " ",
	"…", "",
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"—", "-",
	"–", "-",
)

// Normalize canonicalizes cue text for comparison. The result is only used
// for scoring and never appears in output text.
func Normalize(text string) string {
	// Compose decomposed accents so keepWordRune does not strip their combining marks.
	text = norm.NFC.String(text)
	text = normalizeReplacer.Replace(text)
	// Casers keep state, so each call gets its own.
	text = cases.Lower(language.Und).String(text)
	text = strings.TrimSpace(text)
	return strings.Map(keepWordRune, text)
}

func keepWordRune(r rune) rune {
	if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
		return r
	}
	return -1
}

func normalizeAll(cues []Cue) []string {
	out := make([]string, len(cues))
	for i, cue := range cues {
		out[i] = Normalize(cue.Text)
	}
	return out
}
