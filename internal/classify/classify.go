// Package classify decides which annotation a fenced code block should carry.
//
// Classification is a first-match walk over an ordered rule table. Output
// shaped blocks (program output, directory listings, compiler diagnostics,
// diagrams) become "text"; primary-language blocks that cannot compile
// standalone become "<lang>,ignore"; untagged blocks default to "text".
// Blocks whose tag already carries a qualifier are never touched, which is
// what makes a rewrite pass idempotent.
//
// The rules are coarse pattern matches tuned to one documentation corpus.
// False positives are expected and are caught by reviewing the diff.
package classify

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"docfence/internal/fence"
)

// Options tunes the classifier to a documentation corpus.
type Options struct {
	Language     string   // primary source language, e.g. "rust"
	IgnoreAttr   string   // qualifier appended for non-compiling snippets
	OutputTag    string   // tag used for output-shaped blocks
	Crates       []string // external namespaces snippets never set up
	Placeholders []string // stand-in tokens used in teaching examples
}

// DefaultOptions returns the settings for an mdBook Rust book.
func DefaultOptions() Options {
	return Options{
		Language:     "rust",
		IgnoreAttr:   "ignore",
		OutputTag:    "text",
		Crates:       []string{"tokio", "anyhow", "thiserror"},
		Placeholders: []string{"EXPRESSION", "____", "some_value", "some_option"},
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if strings.TrimSpace(o.Language) == "" {
		o.Language = def.Language
	}
	if strings.TrimSpace(o.IgnoreAttr) == "" {
		o.IgnoreAttr = def.IgnoreAttr
	}
	if strings.TrimSpace(o.OutputTag) == "" {
		o.OutputTag = def.OutputTag
	}
	if o.Crates == nil {
		o.Crates = def.Crates
	}
	if o.Placeholders == nil {
		o.Placeholders = def.Placeholders
	}
	return o
}

// Classifier holds a compiled rule table. It is safe for concurrent use.
type Classifier struct {
	opts  Options
	rules []Rule
}

// New compiles the rule table for opts. Empty fields take their defaults.
func New(opts Options) *Classifier {
	opts = opts.withDefaults()
	rules := outputShapeRules()
	rules = append(rules, incompleteRules(opts)...)
	return &Classifier{opts: opts, rules: rules}
}

var defaultClassifier = New(DefaultOptions())

// Default returns the classifier built from DefaultOptions.
func Default() *Classifier {
	return defaultClassifier
}

// Classify runs the default classifier.
func Classify(tag, body string) Decision {
	return defaultClassifier.Classify(tag, body)
}

// Options returns the effective options.
func (c *Classifier) Options() Options {
	return c.opts
}

// Rules returns the rule table in priority order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// IgnoreTag is the compound tag written for non-compiling snippets.
func (c *Classifier) IgnoreTag() string {
	return c.opts.Language + fence.Separator + c.opts.IgnoreAttr
}

// Classify decides the tag for a block with the given tag and body.
func (c *Classifier) Classify(tag, body string) Decision {
	keep := Decision{Verdict: Unchanged, Tag: tag}

	if strings.Contains(tag, fence.Separator) {
		keep.Rule = "compound-tag"
		return keep
	}
	primary := tag == c.opts.Language
	if tag != "" && !primary {
		keep.Rule = "other-language"
		return keep
	}

	if rule, ok := c.OutputShape(body); ok {
		return Decision{Verdict: Text, Tag: c.opts.OutputTag, Rule: rule.Name}
	}
	if primary {
		if rule, ok := c.Incomplete(body); ok {
			return Decision{Verdict: Ignore, Tag: c.IgnoreTag(), Rule: rule.Name}
		}
		keep.Rule = "compilable"
		return keep
	}
	return Decision{Verdict: Text, Tag: c.opts.OutputTag, Rule: "untagged-default"}
}

// OutputShape reports the first output-shape rule matching the body's first
// non-blank line.
func (c *Classifier) OutputShape(body string) (Rule, bool) {
	line := FirstLine(body)
	for _, r := range c.rules {
		if r.Kind == KindOutputShape && r.match(line) {
			return r, true
		}
	}
	return Rule{}, false
}

// Incomplete reports the first incompleteness rule matching anywhere in the body.
func (c *Classifier) Incomplete(body string) (Rule, bool) {
	var lines []string
	for _, r := range c.rules {
		if r.Kind != KindIncomplete {
			continue
		}
		switch r.Scope {
		case ScopeEachLine:
			if lines == nil {
				lines = strings.Split(strings.TrimSpace(body), "\n")
			}
			for _, l := range lines {
				if r.match(strings.TrimSpace(l)) {
					return r, true
				}
			}
		default:
			if r.match(body) {
				return r, true
			}
		}
	}
	return Rule{}, false
}

// FirstLine returns the first line of the trimmed body, itself trimmed and
// NFC-normalized so composed and decomposed glyphs compare equal.
func FirstLine(body string) string {
	trimmed := strings.TrimSpace(body)
	line, _, _ := strings.Cut(trimmed, "\n")
	return norm.NFC.String(strings.TrimSpace(line))
}

// Fingerprint identifies the effective rule table; it changes whenever the
// options or any rule pattern change.
func (c *Classifier) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "lang=%s\nignore=%s\noutput=%s\n", c.opts.Language, c.opts.IgnoreAttr, c.opts.OutputTag)
	for _, r := range c.rules {
		fmt.Fprintf(h, "%s|%s|%s|%s\n", r.Name, r.Kind, r.Scope, r.Pattern)
	}
	return hex.EncodeToString(h.Sum(nil))
}
