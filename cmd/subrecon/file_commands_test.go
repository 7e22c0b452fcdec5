package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"subrecon/internal/faults"
	"subrecon/internal/srt"
	"subrecon/internal/testsupport"
)

func TestShiftCommandWritesSuffixedFile(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "episode.srt")
	testsupport.WriteSRT(t, input, testsupport.Dialogue(1000, "One", "Two", "Three")...)

	out, _, err := runCLI(t, []string{"shift", input, "--start-ms", "500", "--end-ms", "500"}, env.configPath)
	if err != nil {
		t.Fatalf("shift: %v", err)
	}
	target := filepath.Join(env.baseDir, "episode_linear_shifted.srt")
	requireContains(t, out, "Shifted 3 cues")
	requireContains(t, out, target)

	doc := testsupport.ReadSRT(t, target)
	if len(doc.Cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(doc.Cues))
	}
	for i, cue := range doc.Cues {
		want := 1500 + int64(i)*2000
		if cue.StartMS != want {
			t.Fatalf("cue %d start = %d, want %d", i, cue.StartMS, want)
		}
	}
	original := testsupport.ReadSRT(t, input)
	if original.Cues[0].StartMS != 1000 {
		t.Fatalf("input should be unchanged, first start = %d", original.Cues[0].StartMS)
	}
}

func TestShiftCommandInPlaceKeepsBackup(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "episode.srt")
	testsupport.WriteSRT(t, input, testsupport.Dialogue(0, "One", "Two")...)

	if _, _, err := runCLI(t, []string{"shift", input, "--start-ms", "0", "--end-ms", "2000", "-o", input}, env.configPath); err != nil {
		t.Fatalf("shift: %v", err)
	}
	backup := testsupport.ReadSRT(t, input+".bak")
	if backup.Cues[1].StartMS != 2000 {
		t.Fatalf("backup should hold original timing, got %d", backup.Cues[1].StartMS)
	}
	shifted := testsupport.ReadSRT(t, input)
	if shifted.Cues[1].StartMS <= 2000 {
		t.Fatalf("expected last cue to move later, got %d", shifted.Cues[1].StartMS)
	}
}

func TestReindexCommandSortsAndRenumbers(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "messy.srt")
	testsupport.WriteFile(t, input, "7\n00:00:05,000 --> 00:00:06,000\nLater\n\n3\n00:00:01,000 --> 00:00:02,000\nEarlier\n")

	out, _, err := runCLI(t, []string{"reindex", input, "--sort"}, env.configPath)
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	requireContains(t, out, "Reindexed 2 cues")

	doc := testsupport.ReadSRT(t, input)
	if len(doc.Cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(doc.Cues))
	}
	if doc.Cues[0].Index != 1 || doc.Cues[0].Text != "Earlier" || doc.Cues[1].Index != 2 {
		t.Fatalf("unexpected cues %+v", doc.Cues)
	}
	if _, err := os.Stat(input + ".bak"); err != nil {
		t.Fatalf("expected backup: %v", err)
	}
}

func TestReindexCommandKeepsOrderWithoutSort(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "messy.srt")
	output := filepath.Join(env.baseDir, "fixed.srt")
	testsupport.WriteFile(t, input, "7\n00:00:05,000 --> 00:00:06,000\nLater\n\n3\n00:00:01,000 --> 00:00:02,000\nEarlier\n")

	if _, _, err := runCLI(t, []string{"reindex", input, "-o", output}, env.configPath); err != nil {
		t.Fatalf("reindex: %v", err)
	}
	doc := testsupport.ReadSRT(t, output)
	if doc.Cues[0].Text != "Later" || doc.Cues[0].Index != 1 || doc.Cues[1].Index != 2 {
		t.Fatalf("unexpected cues %+v", doc.Cues)
	}
	if _, err := os.Stat(input + ".bak"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("no backup expected when writing elsewhere, stat err = %v", err)
	}
}

func TestValidateCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	good := filepath.Join(env.baseDir, "good.srt")
	bad := filepath.Join(env.baseDir, "bad.srt")
	testsupport.WriteSRT(t, good, testsupport.Dialogue(0, "One", "Two")...)
	testsupport.WriteSRT(t, bad,
		srt.Cue{StartMS: 5000, EndMS: 4000, Text: "Backwards"},
		srt.Cue{StartMS: 1000, EndMS: 2000, Text: "Too early"},
	)

	out, _, err := runCLI(t, []string{"validate", good}, env.configPath)
	if err != nil {
		t.Fatalf("validate good file: %v", err)
	}
	requireContains(t, out, "[OK] 2 cues")

	out, _, err = runCLI(t, []string{"validate", good, bad}, env.configPath)
	if !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	requireContains(t, out, "[WARN] 2 cues, 2 issues")
	requireContains(t, out, string(srt.IssueEndBeforeStart))
	requireContains(t, out, string(srt.IssueOutOfOrder))
	requireContains(t, err.Error(), "1 of 2 files")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestInvalidConfigExitsWithUsageCode(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, env.configPath, "[matching]\ntop_k = 0\n")

	_, _, err := runCLI(t, []string{"validate", env.configPath}, env.configPath)
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if code := faults.ExitCode(err); code != faults.ExitUsage {
		t.Fatalf("exit code = %d, want %d", code, faults.ExitUsage)
	}
}

func TestHistoryWithoutDatabase(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No history database")
}

func TestHistoryShowUnknownRun(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistory())
	testsupport.MustOpenHistory(t, env.cfg)

	_, _, err := runCLI(t, []string{"history", "show", "deadbeef"}, env.configPath)
	if !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
