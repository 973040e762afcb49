package project

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangeKind classifies a file between two revisions.
type ChangeKind int

const (
	Unchanged ChangeKind = iota
	Added
	Removed
	Modified
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	default:
		return "unchanged"
	}
}

// Change describes one path across two revisions.
type Change struct {
	Path         string
	Kind         ChangeKind
	LinesAdded   int
	LinesRemoved int
}

// Compare classifies every path of prev and next. Files are matched by path
// using first-match lookup. Paths of next come first in next's order,
// followed by removed paths in prev's order.
func Compare(prev, next *State) []Change {
	var changes []Change
	seen := make(map[string]bool)

	if next != nil {
		for _, f := range next.Files {
			if seen[f.Path] {
				continue
			}
			seen[f.Path] = true

			old, ok := prev.Lookup(f.Path)
			if !ok {
				changes = append(changes, Change{
					Path:       f.Path,
					Kind:       Added,
					LinesAdded: len(f.Lines()),
				})
				continue
			}
			if old.Content == f.Content {
				changes = append(changes, Change{Path: f.Path, Kind: Unchanged})
				continue
			}

			c := Change{Path: f.Path, Kind: Modified}
			for _, l := range Diff(old.Content, f.Content) {
				switch l.Kind {
				case LineAdded:
					c.LinesAdded++
				case LineRemoved:
					c.LinesRemoved++
				}
			}
			changes = append(changes, c)
		}
	}

	if prev != nil {
		for _, f := range prev.Files {
			if seen[f.Path] {
				continue
			}
			seen[f.Path] = true
			changes = append(changes, Change{
				Path:         f.Path,
				Kind:         Removed,
				LinesRemoved: len(f.Lines()),
			})
		}
	}

	return changes
}

// ChangeIndex maps path to change kind for quick lookup by the file list.
func ChangeIndex(changes []Change) map[string]ChangeKind {
	idx := make(map[string]ChangeKind, len(changes))
	for _, c := range changes {
		idx[c.Path] = c.Kind
	}
	return idx
}

// LineKind marks a line in a diff.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdded
	LineRemoved
)

// DiffLine is one line of a line-level diff.
type DiffLine struct {
	Kind LineKind
	Text string
}

// Diff computes a line-level diff between two texts.
func Diff(oldText, newText string) []DiffLine {
	dmp := diffmatchpatch.New()

	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var out []DiffLine
	for _, d := range diffs {
		kind := LineContext
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			kind = LineAdded
		case diffmatchpatch.DiffDelete:
			kind = LineRemoved
		}

		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			out = append(out, DiffLine{Kind: kind, Text: line})
		}
	}
	return out
}
