package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"subrecon/internal/config"
	"subrecon/internal/faults"
	"subrecon/internal/logging"
	"subrecon/internal/reconcile"
	"subrecon/internal/srt"
)

// loadTrack reads a SubRip file, logging skipped blocks. An unordered track
// is sorted by time with a warning.
func loadTrack(logger *slog.Logger, role, path, encoding string) ([]srt.Cue, error) {
	doc, err := srt.ReadFile(path, encoding)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, faults.Wrap(faults.ErrNotFound, "load", role, path, err)
		}
		return nil, faults.Wrap(faults.ErrInput, "load", role, path, err)
	}
	if len(doc.Issues) > 0 {
		logging.WarnWithContext(logger, "skipped malformed subtitle blocks", "srt_malformed",
			logging.String("role", role),
			logging.Path("path", path),
			logging.Int("skipped", len(doc.Issues)),
			logging.String("first_issue", doc.Issues[0].String()),
			logging.String(logging.FieldErrorHint, "run `subrecon validate "+path+"` for the full list"),
		)
	}
	cues := doc.Cues
	if !srt.Ordered(cues) {
		logging.WarnWithContext(logger, "subtitle cues out of time order", "srt_unordered",
			logging.String("role", role),
			logging.Path("path", path),
			logging.String(logging.FieldImpact, "cues were sorted by start time before matching"),
		)
		cues = srt.SortByTime(cues)
	}
	logger.Debug("track loaded",
		logging.String("role", role),
		logging.Path("path", path),
		logging.Int("cues", len(cues)),
	)
	return cues, nil
}

func toEngineCues(cues []srt.Cue) []reconcile.Cue {
	out := make([]reconcile.Cue, len(cues))
	for i, cue := range cues {
		out[i] = reconcile.Cue{StartMS: cue.StartMS, EndMS: cue.EndMS, Text: cue.Text}
	}
	return out
}

func resolvePathArg(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", faults.Wrap(faults.ErrValidation, "args", "path", "path is required", nil)
	}
	path, err := config.ExpandPath(arg)
	if err != nil {
		return "", faults.Wrap(faults.ErrValidation, "args", "path", arg, err)
	}
	return path, nil
}

// suffixedPath returns "<dir>/<stem><suffix>.srt" for path.
func suffixedPath(path, suffix string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+suffix+".srt")
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func formatSeconds(seconds float64) string {
	return srt.FormatTimestamp(srt.SecondsToMS(seconds))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func outputError(path string, err error) error {
	return faults.Wrap(faults.ErrOutput, "write", "output", path, err)
}
