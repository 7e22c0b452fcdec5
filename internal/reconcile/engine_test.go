package reconcile

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestReconcileDirectMatches(t *testing.T) {
	timing := []Cue{{0, 2000, "Hola"}, {3000, 5000, "Mundo"}}
	text := []Cue{{0, 2100, "Hello"}, {2900, 5200, "World"}}

	engine, err := New(DefaultParams(), WithScorer(constScorer(1)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := engine.Reconcile(context.Background(), text, timing)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	assertCoverage(t, result.Mappings, 2)
	want := []Mapping{
		{TextIdx: 0, TimeIdx: 0, Start: 0, End: 2, Origin: OriginRank},
		{TextIdx: 1, TimeIdx: 1, Start: 3, End: 5, Origin: OriginRank},
	}
	for i, m := range result.Mappings {
		if m != want[i] {
			t.Fatalf("mapping %d = %+v, want %+v", i, m, want[i])
		}
	}
	if result.Summary != (Summary{Rank: 2}) {
		t.Fatalf("summary = %+v", result.Summary)
	}
}

func TestReconcileFillsGaps(t *testing.T) {
	text := sequentialCues(0, "alpha", "b1", "b2", "b3", "b4", "omega")
	timing := sequentialCues(0, "alpha", "x1", "x2", "x3", "x4", "omega")

	engine, err := New(tightParams(), WithScorer(exactScorer))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := engine.Reconcile(context.Background(), text, timing)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	assertCoverage(t, result.Mappings, len(text))
	assertTimedMonotonic(t, result.Mappings)
	if result.Summary != (Summary{Rank: 2, Gap: 4}) {
		t.Fatalf("summary = %+v, want 2 rank and 4 gap", result.Summary)
	}
	for i := 1; i <= 4; i++ {
		if m := result.Mappings[i]; m.Origin != OriginGap || m.TimeIdx != i {
			t.Fatalf("mapping %d = %+v, want gap to timing %d", i, m, i)
		}
	}
}

func TestReconcileSpreadsUnmatched(t *testing.T) {
	text := sequentialCues(0, "alpha", "mid", "omega")
	timing := []Cue{{0, 1000, "alpha"}, {4000, 5000, "omega"}}

	engine, err := New(tightParams(), WithScorer(exactScorer))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := engine.Reconcile(context.Background(), text, timing)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	assertCoverage(t, result.Mappings, 3)
	if result.Summary != (Summary{Rank: 2, Spread: 1}) {
		t.Fatalf("summary = %+v", result.Summary)
	}
	mid := result.Mappings[1]
	if mid.Origin != OriginSpread || mid.Timed() {
		t.Fatalf("middle mapping = %+v, want untimed spread", mid)
	}
	if !approx(mid.Start, 1) || !approx(mid.End, 3.999) {
		t.Fatalf("middle window = [%v, %v], want [1, 3.999]", mid.Start, mid.End)
	}
}

func TestReconcileNoAnchors(t *testing.T) {
	timing := sequentialCues(0, "a", "b")
	if _, err := Reconcile(context.Background(), nil, timing, DefaultParams()); !errors.Is(err, ErrNoAnchors) {
		t.Fatalf("empty text: expected ErrNoAnchors, got %v", err)
	}
	if _, err := Reconcile(context.Background(), timing, nil, DefaultParams()); !errors.Is(err, ErrNoAnchors) {
		t.Fatalf("empty timing: expected ErrNoAnchors, got %v", err)
	}

	engine, err := New(DefaultParams(), WithScorer(constScorer(0)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := engine.Reconcile(context.Background(), timing, timing); !errors.Is(err, ErrNoAnchors) {
		t.Fatalf("dissimilar sources: expected ErrNoAnchors, got %v", err)
	}
}

func TestNewRejectsInvalidParams(t *testing.T) {
	params := DefaultParams()
	params.TopK = 0
	if _, err := New(params); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}
}

var dialogue = []string{
	"Where were you last night?",
	"I told you, I was at the harbour.",
	"Nobody saw you there.",
	"Then nobody was looking.",
	"Captain, sonar contact bearing two seven zero.",
	"Tactical, stand by on torpedoes.",
	"Range closing, eight thousand yards.",
	"Hold your fire until my order.",
	"They are flooding tubes one and two.",
	"Take us down to four hundred feet.",
	"Rig for silent running.",
	"All stop, quiet the boat.",
	"Can they still hear us?",
	"Only if someone drops a wrench.",
	"Conn, sonar, contact is turning away.",
	"Well done, everyone.",
	"Bring us back to periscope depth.",
	"Coffee for the control room, please.",
	"Log the time of contact.",
	"That was closer than I like.",
}

func TestReconcileCoverageAndOrder(t *testing.T) {
	var text, timing []Cue
	for i, line := range dialogue {
		start := int64(i) * 3000
		text = append(text, Cue{start, start + 2000, line})
		if i%7 == 3 {
			continue
		}
		timed := line
		if i%5 == 2 {
			timed = fmt.Sprintf("[music %d]", i)
		}
		timing = append(timing, Cue{start + 400, start + 2300, timed})
	}

	result, err := Reconcile(context.Background(), text, timing, DefaultParams())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	assertCoverage(t, result.Mappings, len(text))
	assertTimedMonotonic(t, result.Mappings)
	if result.Summary.Total() != len(text) || result.Summary.Fallback != 0 {
		t.Fatalf("summary = %+v", result.Summary)
	}
	if result.Summary.Rank == 0 {
		t.Fatal("expected rank anchors")
	}
	for i := 1; i < len(result.Mappings); i++ {
		if result.Mappings[i].Start < result.Mappings[i-1].Start {
			t.Fatalf("start times decrease at %d: %+v after %+v", i, result.Mappings[i], result.Mappings[i-1])
		}
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	text := sequentialCues(0, "alpha", "mid", "omega")
	timing := []Cue{{0, 1000, "alpha"}, {4000, 5000, "omega"}}

	first, err := Reconcile(context.Background(), text, timing, tightParams())
	if err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}
	output := make([]Cue, len(first.Mappings))
	for i, m := range first.Mappings {
		output[i] = Cue{
			StartMS: int64(math.Round(m.Start * 1000)),
			EndMS:   int64(math.Round(m.End * 1000)),
			Text:    text[m.TextIdx].Text,
		}
	}

	second, err := Reconcile(context.Background(), output, output, tightParams())
	if err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	if second.Summary != (Summary{Rank: len(output)}) {
		t.Fatalf("second pass summary = %+v, want all rank", second.Summary)
	}
	for i, m := range second.Mappings {
		if math.Abs(m.Start-msToSeconds(output[i].StartMS)) > 1e-3 || math.Abs(m.End-msToSeconds(output[i].EndMS)) > 1e-3 {
			t.Fatalf("mapping %d moved: %+v vs %+v", i, m, output[i])
		}
	}
}
