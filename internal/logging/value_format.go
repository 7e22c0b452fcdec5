package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// renderValue formats a console attribute value. Seconds-valued floats keep
// full precision; durations are rounded to milliseconds.
func renderValue(v slog.Value, quote bool) string {
	var s string
	switch v = v.Resolve(); v.Kind() {
	case slog.KindFloat64:
		s = strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		s = v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		s = v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			s = x.Error()
		case fmt.Stringer:
			s = x.String()
		default:
			s = fmt.Sprint(x)
		}
	default:
		s = v.String()
	}
	if quote && (s == "" || strings.ContainsFunc(s, unsafeBare)) {
		return strconv.Quote(s)
	}
	return s
}

func unsafeBare(r rune) bool {
	return r <= ' ' || r == '=' || r == '"'
}
