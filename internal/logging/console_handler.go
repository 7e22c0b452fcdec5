package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

type prettyHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     *slog.LevelVar
	// attrs are flattened when added so they keep the groups open at the time.
	attrs     []kv
	groups    []string
	addSource bool
	palette   palette
}

// palette colours the level tag and dims timestamps and keys. Disabled
// colours render plain text.
type palette struct {
	levels map[slog.Level]*color.Color
	dim    *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		levels: map[slog.Level]*color.Color{
			slog.LevelDebug: color.New(color.FgHiBlack),
			slog.LevelInfo:  color.New(color.FgCyan),
			slog.LevelWarn:  color.New(color.FgYellow, color.Bold),
			slog.LevelError: color.New(color.FgRed, color.Bold),
		},
		dim: color.New(color.Faint),
	}
	for _, c := range append(slices.Collect(maps.Values(p.levels)), p.dim) {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource, useColor bool) slog.Handler {
	return &prettyHandler{
		mu:        &sync.Mutex{},
		writer:    w,
		level:     lvl,
		addSource: addSource,
		palette:   newPalette(useColor),
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}

	fields := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	fields = append(fields, h.attrs...)
	prefix := strings.Join(h.groups, ".")
	record.Attrs(func(attr slog.Attr) bool {
		flattenInto(&fields, prefix, attr)
		return true
	})
	component, fields := takeComponent(fields)

	when := record.Time
	if when.IsZero() {
		when = time.Now()
	}
	tier := levelTier(record.Level)

	var buf bytes.Buffer
	buf.Grow(128 + len(fields)*24)
	fmt.Fprintf(&buf, "%s %s ", h.palette.dim.Sprint(when.UTC().Format(time.RFC3339)), h.palette.levels[tier].Sprint(levelLabel(tier)))
	if component != "" {
		buf.WriteString(component + ": ")
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	buf.WriteString(msg)
	if h.addSource {
		if src := record.Source(); src != nil {
			fmt.Fprintf(&buf, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	for _, f := range fields {
		if f.key != "" {
			buf.WriteString(" " + h.palette.dim.Sprint(f.key+"=") + renderValue(f.value, true))
		}
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

// takeComponent removes the component field, which the console prints as a
// message prefix, and collapses repeated keys.
func takeComponent(fields []kv) (string, []kv) {
	var component string
	rest := fields[:0]
	for _, f := range fields {
		if f.key != FieldComponent {
			rest = append(rest, f)
		} else if component == "" {
			component = renderValue(f.value, false)
		}
	}
	return component, dedupeKVsByKey(rest)
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	flattenAttrs(&clone.attrs, clone.groups, attrs)
	return clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *prettyHandler) clone() *prettyHandler {
	c := *h
	c.attrs = slices.Clone(h.attrs)
	c.groups = slices.Clone(h.groups)
	return &c
}

type kv struct {
	key   string
	value slog.Value
}

func flattenAttrs(dst *[]kv, groups []string, attrs []slog.Attr) {
	prefix := strings.Join(groups, ".")
	for _, attr := range attrs {
		flattenInto(dst, prefix, attr)
	}
}

// flattenInto appends attr as dotted keys under prefix; empty attrs are
// dropped and unnamed groups are inlined.
func flattenInto(dst *[]kv, prefix string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	key := attr.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}
	value := attr.Value.Resolve()
	if value.Kind() != slog.KindGroup {
		*dst = append(*dst, kv{key: key, value: value})
		return
	}
	for _, member := range value.Group() {
		flattenInto(dst, key, member)
	}
}

// dedupeKVsByKey keeps the last value for each key, in first-seen order.
func dedupeKVsByKey(kvs []kv) []kv {
	index := make(map[string]int, len(kvs))
	out := make([]kv, 0, len(kvs))
	for _, item := range kvs {
		if pos, ok := index[item.key]; ok {
			out[pos] = item
			continue
		}
		index[item.key] = len(out)
		out = append(out, item)
	}
	return out
}

// levelTier maps custom levels onto the four labelled tiers.
func levelTier(level slog.Level) slog.Level {
	switch {
	case level >= slog.LevelError:
		return slog.LevelError
	case level >= slog.LevelWarn:
		return slog.LevelWarn
	case level >= slog.LevelInfo:
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

func levelLabel(tier slog.Level) string {
	if tier == slog.LevelDebug {
		return "DEBUG"
	}
	return fmt.Sprintf("%-5s", tier.String())
}
