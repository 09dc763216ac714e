package classify

// Verdict is the outcome of classifying one block.
type Verdict uint8

const (
	// Unchanged keeps the block's tag as it is.
	Unchanged Verdict = iota
	// Text marks the block as non-executable output.
	Text
	// Ignore marks the block as illustrative source that must not be compiled.
	Ignore
)

func (v Verdict) String() string {
	switch v {
	case Unchanged:
		return "unchanged"
	case Text:
		return "text"
	case Ignore:
		return "ignore"
	}
	return "unknown"
}

// Kind groups rules by the test they belong to.
type Kind uint8

const (
	// KindOutputShape rules recognise program output, listings and diagrams.
	KindOutputShape Kind = iota
	// KindIncomplete rules recognise source that cannot compile standalone.
	KindIncomplete
)

func (k Kind) String() string {
	switch k {
	case KindOutputShape:
		return "output-shape"
	case KindIncomplete:
		return "incomplete"
	}
	return "unknown"
}

// Scope tells which part of the body a rule inspects.
type Scope uint8

const (
	// ScopeFirstLine inspects the first non-blank line, trimmed.
	ScopeFirstLine Scope = iota
	// ScopeBody inspects the whole body in multi-line mode.
	ScopeBody
	// ScopeEachLine inspects every trimmed line of the body.
	ScopeEachLine
)

func (s Scope) String() string {
	switch s {
	case ScopeFirstLine:
		return "first-line"
	case ScopeBody:
		return "body"
	case ScopeEachLine:
		return "each-line"
	}
	return "unknown"
}

// Decision is the result of Classify.
type Decision struct {
	Verdict Verdict
	Tag     string // tag to write; equal to the input tag when Verdict == Unchanged
	Rule    string // name of the matching rule, or a reason label for defaults
}

// Changed reports whether the decision rewrites the tag.
func (d Decision) Changed(tag string) bool {
	return d.Verdict != Unchanged && d.Tag != tag
}
