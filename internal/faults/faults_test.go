package faults

import (
	"errors"
	"io/fs"
	"testing"
)

func TestWrapKeepsMarkerAndCause(t *testing.T) {
	err := Wrap(ErrInput, "load", "read text source", "episode.srt", fs.ErrNotExist)
	if !errors.Is(err, ErrInput) {
		t.Fatalf("expected ErrInput marker, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	want := "input error: load: read text source: episode.srt: file does not exist"
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
}

func TestWrapDefaults(t *testing.T) {
	err := Wrap(nil, " ", "", "", nil)
	if !errors.Is(err, ErrInput) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if err.Error() != "input error: command failure" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"validation", Wrap(ErrValidation, "config", "", "top_k", nil), ExitUsage},
		{"configuration", Wrap(ErrConfiguration, "config", "load", "", errors.New("bad toml")), ExitUsage},
		{"invariant", Wrap(ErrInvariant, "assemble", "", "", nil), ExitFailure},
		{"plain", errors.New("boom"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Fatalf("ExitCode = %d, want %d", got, tt.want)
			}
		})
	}
}
