package logging

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler sends every record to the primary handler and a copy to the
// log file handler. Each side applies its own level.
type teeHandler struct {
	primary slog.Handler
	file    slog.Handler
}

func newTeeHandler(primary, file slog.Handler) slog.Handler {
	switch {
	case primary == nil && file == nil:
		return NoopHandler{}
	case file == nil:
		return primary
	case primary == nil:
		return file
	}
	return &teeHandler{primary: primary, file: file}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.primary.Enabled(ctx, level) || h.file.Enabled(ctx, level)
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var primaryErr, fileErr error
	if h.primary.Enabled(ctx, record.Level) {
		primaryErr = h.primary.Handle(ctx, record.Clone())
	}
	if h.file.Enabled(ctx, record.Level) {
		fileErr = h.file.Handle(ctx, record)
	}
	return errors.Join(primaryErr, fileErr)
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{primary: h.primary.WithAttrs(attrs), file: h.file.WithAttrs(attrs)}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{primary: h.primary.WithGroup(name), file: h.file.WithGroup(name)}
}
