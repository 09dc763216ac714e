// Package diagfmt renders diagnostics for the terminal and for JSON consumers.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"docfence/internal/diag"
	"docfence/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку документа с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := printer{w: w, fs: fs, opts: opts}
	for _, d := range bag.Items() {
		p.diagnostic(d)
	}
}

type printer struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
}

func (p printer) paint(attrs []color.Attribute, s string) string {
	if !p.opts.Color {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

func severityAttrs(sev diag.Severity) []color.Attribute {
	switch sev {
	case diag.SevError:
		return []color.Attribute{color.FgRed, color.Bold}
	case diag.SevWarning:
		return []color.Attribute{color.FgYellow, color.Bold}
	default:
		return []color.Attribute{color.FgCyan}
	}
}

func (p printer) diagnostic(d diag.Diagnostic) {
	f := p.fs.Get(d.Primary.File)
	start, _ := p.fs.Resolve(d.Primary)
	head := fmt.Sprintf("%s:%d:%d:", formatPath(f, p.fs, p.opts.PathMode), start.Line, start.Col)
	sev := p.paint(severityAttrs(d.Severity), d.Severity.String())
	fmt.Fprintf(p.w, "%s %s %s: %s\n", p.paint([]color.Attribute{color.Bold}, head), sev, d.Code.ID(), d.Message)
	p.excerpt(f, d.Primary, severityAttrs(d.Severity))

	if !p.opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		pos, _ := p.fs.Resolve(n.Span)
		fmt.Fprintf(p.w, "  %s %s:%d:%d: %s\n", p.paint([]color.Attribute{color.FgCyan}, "note:"),
			formatPath(p.fs.Get(n.Span.File), p.fs, p.opts.PathMode), pos.Line, pos.Col, n.Msg)
	}
}

// excerpt prints the first line of span with an underline below it.
func (p printer) excerpt(f *source.File, span source.Span, attrs []color.Attribute) {
	start, _ := p.fs.Resolve(span)
	line := lineText(f, start.Line)
	col := int(start.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	length := int(span.Len())
	if rest := len(line) - col; length > rest {
		length = rest
	}

	prefix := runewidth.StringWidth(line[:col])
	width := max(runewidth.StringWidth(line[col:col+length]), 1)
	if p.opts.Width > 0 {
		line = runewidth.Truncate(line, p.opts.Width, "...")
	}

	gutter := fmt.Sprintf("%4d | ", start.Line)
	fmt.Fprintf(p.w, "%s%s\n", gutter, line)
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(p.w, "%s%s%s\n", strings.Repeat(" ", len(gutter)), strings.Repeat(" ", prefix), p.paint(attrs, marker))
}

// lineText returns the 1-based line of f without its newline.
func lineText(f *source.File, line uint32) string {
	if line == 0 {
		return ""
	}
	start := 0
	if line >= 2 && int(line-2) < len(f.LineIdx) {
		start = int(f.LineIdx[line-2]) + 1
	}
	if start > len(f.Content) {
		return ""
	}
	text := string(f.Content[start:])
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[:nl]
	}
	return text
}
