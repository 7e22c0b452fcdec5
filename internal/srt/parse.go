package srt

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Document is a parsed SubRip file. Issues lists blocks that were skipped.
type Document struct {
	Cues   []Cue
	Issues []Issue
}

// ReadFile decodes and parses the SubRip file at path.
func ReadFile(path, charset string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read srt: %w", err)
	}
	content, err := Decode(data, charset)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return Parse(content), nil
}

// Read decodes and parses SubRip content from r.
func Read(r io.Reader, charset string) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read srt: %w", err)
	}
	content, err := Decode(data, charset)
	if err != nil {
		return Document{}, err
	}
	return Parse(content), nil
}

// Parse reads cues from decoded SubRip text. Each block is an optional
// numeric index line, a "start --> end" line, and zero or more text lines,
// separated from the next block by a blank line.
func Parse(content string) Document {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	lines := strings.Split(content, "\n")

	var doc Document
	var block []string
	blockStart := 0
	flush := func() {
		if len(block) == 0 {
			return
		}
		cue, err := parseBlock(block)
		if err != nil {
			doc.Issues = append(doc.Issues, Issue{Line: blockStart, Kind: IssueMalformed, Detail: err.Error()})
		} else {
			doc.Cues = append(doc.Cues, cue)
		}
		block = block[:0]
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if len(block) == 0 {
			blockStart = i + 1
		}
		block = append(block, strings.TrimRight(line, " \t"))
	}
	flush()
	return doc
}

func parseBlock(lines []string) (Cue, error) {
	var cue Cue
	timing := 0
	if !strings.Contains(lines[0], "-->") {
		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			return Cue{}, fmt.Errorf("expected cue index or timing, got %q", lines[0])
		}
		if len(lines) < 2 || !strings.Contains(lines[1], "-->") {
			return Cue{}, fmt.Errorf("cue %d has no timing line", index)
		}
		cue.Index = index
		timing = 1
	}

	startText, rest, _ := strings.Cut(lines[timing], "-->")
	endFields := strings.Fields(rest)
	if len(endFields) == 0 {
		return Cue{}, fmt.Errorf("timing line %q has no end time", lines[timing])
	}
	start, err := ParseTimestamp(startText)
	if err != nil {
		return Cue{}, err
	}
	end, err := ParseTimestamp(endFields[0])
	if err != nil {
		return Cue{}, err
	}
	cue.StartMS = start
	cue.EndMS = end
	cue.Text = strings.Join(lines[timing+1:], "\n")
	return cue, nil
}
