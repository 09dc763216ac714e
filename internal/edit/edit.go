// Package edit applies span-addressed text edits to a document in one pass.
//
// Edits are expressed in the coordinates of the original text. Apply validates
// every edit against that text (bounds, OldText guard, pairwise conflicts)
// before touching anything, so a document is either rewritten completely or
// not at all.
package edit

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"docfence/internal/source"
)

var (
	// ErrConflict is returned when two edits touch overlapping spans.
	ErrConflict = errors.New("conflicting edits")
	// ErrMismatch is returned when an edit's OldText guard does not match the document.
	ErrMismatch = errors.New("existing text does not match expected content")
	// ErrOutOfRange is returned for spans outside the document.
	ErrOutOfRange = errors.New("edit span out of range")
)

// TextEdit replaces Span with NewText. When OldText is set it must equal the
// current contents of Span.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// Apply returns text with all edits applied.
func Apply(text string, edits []TextEdit) (string, error) {
	if len(edits) == 0 {
		return text, nil
	}

	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start == sorted[j].Span.Start {
			return sorted[i].Span.End < sorted[j].Span.End
		}
		return sorted[i].Span.Start < sorted[j].Span.Start
	})

	for i, e := range sorted {
		if e.Span.Start > e.Span.End || int(e.Span.End) > len(text) {
			return text, fmt.Errorf("%w: %s", ErrOutOfRange, e.Span)
		}
		if e.OldText != "" && e.Span.Slice(text) != e.OldText {
			return text, fmt.Errorf("%w at %s: want %q, have %q", ErrMismatch, e.Span, e.OldText, e.Span.Slice(text))
		}
		if i > 0 && conflicts(sorted[i-1], e) {
			return text, fmt.Errorf("%w: %s and %s", ErrConflict, sorted[i-1].Span, e.Span)
		}
	}

	var b strings.Builder
	b.Grow(len(text) + growth(sorted))
	prev := 0
	for _, e := range sorted {
		b.WriteString(text[prev:e.Span.Start])
		b.WriteString(e.NewText)
		prev = int(e.Span.End)
	}
	b.WriteString(text[prev:])
	return b.String(), nil
}

// conflicts reports whether two edits sorted by start would interfere.
// Two insertions at the same offset are ambiguous and count as a conflict.
func conflicts(a, b TextEdit) bool {
	if a.Span.File != b.Span.File {
		return false
	}
	if a.Span.Empty() && b.Span.Empty() {
		return a.Span.Start == b.Span.Start
	}
	return a.Span.Overlaps(b.Span) || (!a.Span.Empty() && b.Span.Start < a.Span.End)
}

func growth(edits []TextEdit) int {
	delta := 0
	for _, e := range edits {
		delta += len(e.NewText) - int(e.Span.Len())
	}
	if delta < 0 {
		return 0
	}
	return delta
}
