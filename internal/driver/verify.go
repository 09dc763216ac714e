package driver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ErrStructureChanged is returned when a rewrite changed the contents of any
// fenced code block as seen by a CommonMark parser.
var ErrStructureChanged = errors.New("fenced block structure changed")

// VerifyStructure parses both versions of a document with goldmark and checks
// that they contain the same fenced code blocks with identical bodies. Info
// strings are allowed to differ; that is what the annotate pass rewrites.
func VerifyStructure(before, after string) error {
	a := fencedBodies([]byte(before))
	b := fencedBodies([]byte(after))
	if len(a) != len(b) {
		return fmt.Errorf("%w: %d fenced blocks before, %d after", ErrStructureChanged, len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			return fmt.Errorf("%w: body of fenced block #%d differs", ErrStructureChanged, i+1)
		}
	}
	return nil
}

func fencedBodies(src []byte) []string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	var out []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(src))
		}
		out = append(out, b.String())
		return ast.WalkSkipChildren, nil
	})
	return out
}
