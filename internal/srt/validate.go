package srt

import "fmt"

// IssueKind classifies a validation finding.
type IssueKind string

const (
	IssueEmpty          IssueKind = "empty_file"
	IssueMalformed      IssueKind = "malformed_block"
	IssueEndBeforeStart IssueKind = "end_before_start"
	IssueOutOfOrder     IssueKind = "out_of_order"
)

// Issue is one problem found in a SubRip file. Line is 1-based and set for
// parse issues; Cue is the 1-based cue position for semantic issues.
type Issue struct {
	Line   int
	Cue    int
	Kind   IssueKind
	Detail string
}

func (i Issue) String() string {
	switch {
	case i.Line > 0:
		return fmt.Sprintf("line %d: %s: %s", i.Line, i.Kind, i.Detail)
	case i.Cue > 0:
		return fmt.Sprintf("cue %d: %s: %s", i.Cue, i.Kind, i.Detail)
	default:
		return fmt.Sprintf("%s: %s", i.Kind, i.Detail)
	}
}

// Validate returns the parse issues of doc followed by semantic problems:
// an empty file, cues that end before they start, and cues that start
// before their predecessor.
func Validate(doc Document) []Issue {
	issues := append([]Issue(nil), doc.Issues...)
	if len(doc.Cues) == 0 {
		return append(issues, Issue{Kind: IssueEmpty, Detail: "no cues found"})
	}
	for i, cue := range doc.Cues {
		if cue.EndMS < cue.StartMS {
			issues = append(issues, Issue{
				Cue:    i + 1,
				Kind:   IssueEndBeforeStart,
				Detail: fmt.Sprintf("%s --> %s", FormatTimestamp(cue.StartMS), FormatTimestamp(cue.EndMS)),
			})
		}
		if i > 0 && cue.StartMS < doc.Cues[i-1].StartMS {
			issues = append(issues, Issue{
				Cue:    i + 1,
				Kind:   IssueOutOfOrder,
				Detail: fmt.Sprintf("starts at %s before previous cue at %s", FormatTimestamp(cue.StartMS), FormatTimestamp(doc.Cues[i-1].StartMS)),
			})
		}
	}
	return issues
}

// Ordered reports whether cues are in non-decreasing start order.
func Ordered(cues []Cue) bool {
	for i := 1; i < len(cues); i++ {
		if cues[i].StartMS < cues[i-1].StartMS {
			return false
		}
	}
	return true
}
