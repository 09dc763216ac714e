// Package testkit holds checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"docfence/internal/fence"
	"docfence/internal/source"
)

// CheckBlockInvariants verifies the spans of blocks scanned from text:
// 1) every span belongs to file and lies within the text
// 2) opener, body and closer follow each other, blocks do not overlap
// 3) the spans slice back to Tag, Body and Marker, and Line matches Open
func CheckBlockInvariants(file source.FileID, text string, blocks []fence.Block) error {
	size, err := safecast.Conv[uint32](len(text))
	if err != nil {
		return fmt.Errorf("len text overflow: %w", err)
	}
	var prevEnd uint32
	for i, b := range blocks {
		for _, sp := range []source.Span{b.Open, b.TagSpan, b.BodySpan, b.Close} {
			if sp.File != file {
				return fmt.Errorf("block %d: span %v belongs to file %d, want %d", i, sp, sp.File, file)
			}
			if sp.Start > sp.End || sp.End > size {
				return fmt.Errorf("block %d: span %v outside text of %d bytes", i, sp, size)
			}
		}
		if b.Open.Empty() || b.Close.Empty() {
			return fmt.Errorf("block %d: empty fence line (open %v, close %v)", i, b.Open, b.Close)
		}
		if b.Open.Start < prevEnd {
			return fmt.Errorf("block %d: opener %v overlaps previous block ending at %d", i, b.Open, prevEnd)
		}
		// тело начинается после перевода строки открывающей строки
		if b.BodySpan.Start <= b.Open.End || b.BodySpan.End > b.Close.Start {
			return fmt.Errorf("block %d: body %v not between %v and %v", i, b.BodySpan, b.Open, b.Close)
		}
		if b.TagSpan.Start < b.Open.Start || b.TagSpan.End > b.Open.End {
			return fmt.Errorf("block %d: tag %v outside opener %v", i, b.TagSpan, b.Open)
		}
		if got := b.TagSpan.Slice(text); got != b.Tag {
			return fmt.Errorf("block %d: tag span reads %q, want %q", i, got, b.Tag)
		}
		if got := b.BodySpan.Slice(text); got != b.Body {
			return fmt.Errorf("block %d: body span reads %q, want %q", i, got, b.Body)
		}
		if open := strings.TrimLeft(b.Open.Slice(text), " \t"); !strings.HasPrefix(open, b.Marker) {
			return fmt.Errorf("block %d: opener %q does not start with marker %q", i, open, b.Marker)
		}
		if want := strings.Count(text[:b.Open.Start], "\n") + 1; b.Line != want {
			return fmt.Errorf("block %d: line %d, want %d", i, b.Line, want)
		}
		prevEnd = b.Close.End
	}
	return nil
}
