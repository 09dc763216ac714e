package fence

import (
	"strings"

	"docfence/internal/source"
)

// Separator splits a compound tag into the language and its qualifiers.
const Separator = ","

// Block is a transient view of one fenced code block.
type Block struct {
	Marker    string      // fence run, e.g. "```" or "~~~~"
	Tag       string      // first word of the info string, "" when absent
	Info      string      // full info string, trimmed
	Body      string      // interior text, including the final newline
	Line      int         // 1-based line of the opening fence
	Open      source.Span // opening fence line, without the newline
	TagSpan   source.Span // empty insertion point right after the marker when Tag == ""
	BodySpan  source.Span
	Close     source.Span // closing fence line, without the newline
	CloseInfo string      // text after the closing marker; non-empty only for corrupted closers
}

// Compound reports whether the tag already carries a qualifier (e.g. "rust,ignore").
func (b Block) Compound() bool {
	return strings.Contains(b.Tag, Separator)
}

// Language returns the part of the tag before the first separator.
func (b Block) Language() string {
	lang, _, _ := strings.Cut(b.Tag, Separator)
	return lang
}

// BodyLines returns the number of lines in the body.
func (b Block) BodyLines() int {
	if b.Body == "" {
		return 0
	}
	n := strings.Count(b.Body, "\n")
	if !strings.HasSuffix(b.Body, "\n") {
		n++
	}
	return n
}
