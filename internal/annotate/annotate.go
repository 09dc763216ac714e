// Package annotate rewrites fenced code block tags according to the classifier.
package annotate

import (
	"fmt"

	"docfence/internal/classify"
	"docfence/internal/diag"
	"docfence/internal/edit"
	"docfence/internal/fence"
	"docfence/internal/source"
)

// Change records one rewritten block.
type Change struct {
	Line   int    `json:"line"`
	OldTag string `json:"old_tag"`
	NewTag string `json:"new_tag"`
	Rule   string `json:"rule"`
}

// Result is the outcome of one Annotate call. Fixed and Skipped mirror the
// per-file counters the driver folds into its summary.
type Result struct {
	Text    string
	Fixed   int
	Skipped int
	Changes []Change
	// TaggedClosers lists lines of closing fences that carry a tag; the repair
	// pass is the tool for those.
	TaggedClosers []int
}

// Changed reports whether the text differs from the input.
func (r Result) Changed() bool {
	return len(r.Changes) > 0
}

// Annotate classifies every block of text and rewrites the tags that need it.
// Blocks with compound tags, other languages, or compilable source count as
// skipped. The rewrite is a single substitution pass over the original text.
func Annotate(text string, c *classify.Classifier) (Result, error) {
	return AnnotateFile(0, text, c, nil)
}

// AnnotateFile is Annotate with spans attributed to file. Tagged closers and
// an unclosed opening fence are reported to r as warnings.
func AnnotateFile(file source.FileID, text string, c *classify.Classifier, r diag.Reporter) (Result, error) {
	if c == nil {
		c = classify.Default()
	}
	if r == nil {
		r = diag.NopReporter{}
	}
	res := Result{Text: text}
	var edits []edit.TextEdit

	sc := fence.NewFileScanner(file, text)
	for {
		b, ok := sc.Next()
		if !ok {
			break
		}
		if b.CloseInfo != "" {
			res.TaggedClosers = append(res.TaggedClosers, b.Line+b.BodyLines()+1)
			r.Report(diag.FenceTaggedCloser, diag.SevWarning, b.Close,
				fmt.Sprintf("closing fence carries tag %q; run docfence repair", b.CloseInfo),
				[]diag.Note{{Span: b.Open, Msg: "block opened here"}})
		}

		d := c.Classify(b.Tag, b.Body)
		if !d.Changed(b.Tag) {
			res.Skipped++
			continue
		}
		edits = append(edits, edit.TextEdit{Span: b.TagSpan, NewText: d.Tag, OldText: b.Tag})
		res.Changes = append(res.Changes, Change{Line: b.Line, OldTag: b.Tag, NewTag: d.Tag, Rule: d.Rule})
		res.Fixed++
	}

	if span, line, ok := sc.Unclosed(); ok {
		r.Report(diag.FenceUnclosed, diag.SevWarning, span,
			fmt.Sprintf("fence opened on line %d is never closed; the rest of the document is not scanned", line), nil)
	}

	if len(edits) == 0 {
		return res, nil
	}
	out, err := edit.Apply(text, edits)
	if err != nil {
		return Result{Text: text}, fmt.Errorf("annotate: %w", err)
	}
	res.Text = out
	return res, nil
}
