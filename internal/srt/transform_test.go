package srt

import (
	"reflect"
	"testing"
)

func TestLinearShift(t *testing.T) {
	cues := []Cue{
		{Index: 1, StartMS: 0, EndMS: 1000, Text: "a"},
		{Index: 2, StartMS: 7000, EndMS: 8000, Text: "b"},
	}
	got := LinearShift(cues, 0, 1600)
	want := []Cue{
		{Index: 1, StartMS: 100, EndMS: 1100, Text: "a"},
		{Index: 2, StartMS: 8500, EndMS: 9500, Text: "b"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("LinearShift = %+v, want %+v", got, want)
	}
	if cues[0].StartMS != 0 {
		t.Fatal("LinearShift must not modify its input")
	}
}

func TestLinearShiftConstantAndClamped(t *testing.T) {
	cues := []Cue{{StartMS: 200, EndMS: 900}, {StartMS: 4000, EndMS: 5000}}
	got := LinearShift(cues, -500, -500)
	if got[0].StartMS != 0 || got[0].EndMS != 400 {
		t.Fatalf("first cue = %+v, want clamped start 0 and end 400", got[0])
	}
	if got[1].StartMS != 3500 || got[1].EndMS != 4500 {
		t.Fatalf("second cue = %+v, want 3500-4500", got[1])
	}
}

func TestLinearShiftDegenerate(t *testing.T) {
	if got := LinearShift(nil, 10, 20); len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
	single := []Cue{{StartMS: 1000, EndMS: 1000}}
	got := LinearShift(single, 0, 100)
	if got[0].StartMS != 1000 {
		t.Fatalf("zero-length track should use a 1ms span, got %+v", got[0])
	}
}

func TestSortByTimeAndReindex(t *testing.T) {
	cues := []Cue{
		{Index: 9, StartMS: 3000, EndMS: 4000, Text: "c"},
		{Index: 0, StartMS: 0, EndMS: 0, Text: "header"},
		{Index: 5, StartMS: 3000, EndMS: 3500, Text: "b"},
		{Index: 7, StartMS: 1000, EndMS: 2000, Text: "a"},
	}
	got := Reindex(SortByTime(cues))
	wantText := []string{"header", "a", "b", "c"}
	for i, cue := range got {
		if cue.Text != wantText[i] || cue.Index != i+1 {
			t.Fatalf("cue %d = %+v, want %q with index %d", i, cue, wantText[i], i+1)
		}
	}
	if cues[0].Index != 9 {
		t.Fatal("Reindex must not modify its input")
	}
}
