package classify

import (
	"regexp"
	"strings"
)

// Rule is one entry of the ordered rule table.
type Rule struct {
	Name    string
	Kind    Kind
	Scope   Scope
	Pattern string // human-readable form of the predicate
	match   func(string) bool
}

// Verdict returns what a match of r yields.
func (r Rule) Verdict() Verdict {
	if r.Kind == KindIncomplete {
		return Ignore
	}
	return Text
}

// Match applies the rule's predicate to the already-scoped input.
func (r Rule) Match(s string) bool {
	return r.match(s)
}

func regexRule(name string, kind Kind, scope Scope, expr string) Rule {
	re := regexp.MustCompile(expr)
	return Rule{Name: name, Kind: kind, Scope: scope, Pattern: expr, match: re.MatchString}
}

// asciiArtGlyphs are the box-drawing, arrow and math glyphs used in diagrams.
const asciiArtGlyphs = "┌┐└┘├┤│─═║╔╗╚╝╠╣▶◀►◄→←↑↓∿"

// asciiArtMinGlyphs is how many distinct glyphs a first line needs to count as a diagram.
const asciiArtMinGlyphs = 2

func asciiArtRule() Rule {
	return Rule{
		Name:    "ascii-art",
		Kind:    KindOutputShape,
		Scope:   ScopeFirstLine,
		Pattern: ">= 2 distinct of " + asciiArtGlyphs,
		match: func(line string) bool {
			seen := make(map[rune]struct{}, asciiArtMinGlyphs)
			for _, r := range line {
				if strings.ContainsRune(asciiArtGlyphs, r) {
					seen[r] = struct{}{}
					if len(seen) >= asciiArtMinGlyphs {
						return true
					}
				}
			}
			return false
		},
	}
}

// outputShapeRules form the OR-set that recognises output-shaped first lines.
func outputShapeRules() []Rule {
	first := func(name, expr string) Rule {
		return regexRule(name, KindOutputShape, ScopeFirstLine, expr)
	}
	return []Rule{
		first("leading-digit", `^\d+`),
		first("label-colon", `^[A-Z][a-z]+:`),
		first("thread-output", `^hi from`),
		first("tree-branch", `^[├└│]`),
		first("examples-path", `^examples/`),
		first("project-path", `^my_project/`),
		first("emoji", `^[🦀📝📦✨]`),
		first("index-output", `^Index \d+:`),
		first("counter-output", `^Count after`),
		first("inner-output", `^inner:`),
		first("outer-output", `^outer:`),
		first("ascii-art-lead", `^\s*[_~^\\]`),
		first("panic-output", `^thread.*panicked`),
		first("compiler-error", `^error\[E\d+\]`),
		first("compiler-pointer", `^\s*-->`),
		asciiArtRule(),
	}
}

// incompleteRules recognise snippets that were lifted out of a larger program.
func incompleteRules(opts Options) []Rule {
	body := func(name, expr string) Rule {
		return regexRule(name, KindIncomplete, ScopeBody, `(?m)`+expr)
	}
	rules := []Rule{
		body("open-fn-header", `^fn \w+.*\{$`),
		body("arrow-comment", `^\s*//.*→`),
		body("if-let-placeholder", `^if let PATTERN`),
		body("while-let-placeholder", `^while let PATTERN`),
	}
	if expr := alternation(opts.Placeholders); expr != "" {
		rules = append(rules, body("placeholder", expr))
	}
	rules = append(rules,
		body("type-annotation-comment", `^&i32\s+//`),
		body("fn-signature", `^fn \w+\(.+\)\s*$`),
	)
	// все правила про внешние крейты строятся из одного списка
	if crates := alternation(opts.Crates); crates != "" {
		rules = append(rules,
			body("crate-path", `(?:`+crates+`)::`),
			body("crate-import", `^use (?:`+crates+`)`),
			body("async-main", `#\[(?:`+crates+`)::main\]`),
		)
	}
	rules = append(rules,
		regexRule("bare-signature", KindIncomplete, ScopeEachLine, `^fn \w+\([^)]*\)(\s*->\s*[^{]+)?$`),
	)
	return rules
}

func quoteAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, regexp.QuoteMeta(w))
		}
	}
	return out
}

func alternation(words []string) string {
	quoted := quoteAll(words)
	if len(quoted) == 0 {
		return ""
	}
	return strings.Join(quoted, "|")
}
