package srt

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	content := "1\r\n00:00:01,000 --> 00:00:02,500\r\nHello there!\r\n\r\n" +
		"2\n00:00:03,000 --> 00:00:05,000 X1:10 X2:20\nFirst line  \nSecond line\n\n\n" +
		"00:00:06,000 --> 00:00:07,000\nNo index\n"

	doc := Parse(content)
	if len(doc.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", doc.Issues)
	}
	want := []Cue{
		{Index: 1, StartMS: 1000, EndMS: 2500, Text: "Hello there!"},
		{Index: 2, StartMS: 3000, EndMS: 5000, Text: "First line\nSecond line"},
		{Index: 0, StartMS: 6000, EndMS: 7000, Text: "No index"},
	}
	if !reflect.DeepEqual(doc.Cues, want) {
		t.Fatalf("cues = %+v, want %+v", doc.Cues, want)
	}
}

func TestParseSkipsMalformedBlocks(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:02,000
Good

garbage line
more garbage

3
not a timing line

4
00:00:xx,000 --> 00:00:05,000
Bad time

5
00:00:06,000 --> 00:00:07,000
Also good
`
	doc := Parse(content)
	if len(doc.Cues) != 2 {
		t.Fatalf("expected 2 cues, got %+v", doc.Cues)
	}
	if doc.Cues[1].Text != "Also good" {
		t.Fatalf("unexpected second cue %+v", doc.Cues[1])
	}
	if len(doc.Issues) != 3 {
		t.Fatalf("expected 3 issues, got %v", doc.Issues)
	}
	wantLines := []int{5, 8, 11}
	for i, issue := range doc.Issues {
		if issue.Kind != IssueMalformed || issue.Line != wantLines[i] {
			t.Fatalf("issue %d = %+v, want malformed at line %d", i, issue, wantLines[i])
		}
	}
}

func TestParseEmpty(t *testing.T) {
	for _, content := range []string{"", "\n\n", "   \r\n"} {
		doc := Parse(content)
		if len(doc.Cues) != 0 || len(doc.Issues) != 0 {
			t.Fatalf("Parse(%q) = %+v", content, doc)
		}
	}
}

func TestReadFileWithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.srt")
	data := "\xEF\xBB\xBF1\n00:00:01,000 --> 00:00:02,000\nCafé\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := ReadFile(path, "")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(doc.Cues) != 1 || doc.Cues[0].Index != 1 || doc.Cues[0].Text != "Café" {
		t.Fatalf("unexpected doc %+v", doc)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.srt"), ""); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadLegacyCharset(t *testing.T) {
	doc, err := Read(strings.NewReader("1\n00:00:01,000 --> 00:00:02,000\ncaf\xe9\n"), "windows-1252")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(doc.Cues) != 1 || doc.Cues[0].Text != "café" {
		t.Fatalf("unexpected doc %+v", doc)
	}
}
