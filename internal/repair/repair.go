// Package repair strips language tags that an earlier, naive rewrite put on
// closing fences.
//
// A tagged fence is treated as a closer when its surroundings say so: the line
// above is a lone closing brace, or a blank line and a markdown block marker
// (heading, rule, bold lead, blockquote, "Output") follow it. The pass never
// parses blocks; it only applies a short ordered list of context patterns once
// each.
package repair

import (
	"regexp"
	"strings"
)

// DefaultTag is the tag the earlier rewrite stamped onto closing fences.
const DefaultTag = "text"

const fenceMarker = "```"

// ContextRule is one context pattern. Matches of Pattern are replaced by
// Replacement (regexp.Expand syntax), which always drops the tag.
type ContextRule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Repairer applies the context rules for one erroneous tag.
type Repairer struct {
	tag   string
	rules []ContextRule
}

// New builds a Repairer for tag; an empty tag means DefaultTag.
func New(tag string) *Repairer {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		tag = DefaultTag
	}
	tagged := regexp.QuoteMeta(fenceMarker + tag)
	return &Repairer{
		tag: tag,
		rules: []ContextRule{
			{
				Name:        "brace-then-markdown",
				Pattern:     regexp.MustCompile(`(^|\n)(}\n)` + tagged + `(\n\n---|\n\n###|\n\n##|\n\n\*\*|\n\nOutput|\n\n>|\n\n?$)`),
				Replacement: "${1}${2}" + fenceMarker + "${3}",
			},
			{
				Name:        "markdown-after-blank",
				Pattern:     regexp.MustCompile(tagged + `\n(\n---|\n\*\*|\n###|\n##|\n\n---|\nOutput:|\n\n\*\*|\n>\s)`),
				Replacement: fenceMarker + "\n${1}",
			},
			{
				Name:        "brace-then-newline",
				Pattern:     regexp.MustCompile(`(^|\n)(}\n)` + tagged + `(\n)`),
				Replacement: "${1}${2}" + fenceMarker + "${3}",
			},
		},
	}
}

var defaultRepairer = New(DefaultTag)

// Repair runs the default repairer.
func Repair(text string) (string, int) {
	return defaultRepairer.Repair(text)
}

// Tag returns the erroneous tag this repairer strips.
func (r *Repairer) Tag() string {
	return r.tag
}

// Rules returns the context rules in application order.
func (r *Repairer) Rules() []ContextRule {
	out := make([]ContextRule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Repair applies every context rule once, in order, and returns the new text
// with the net drop in occurrences of the tagged fence. Overlapping rules can
// make the count lag behind; calling Repair again is safe.
func (r *Repairer) Repair(text string) (string, int) {
	out := text
	for _, rule := range r.rules {
		out = rule.Pattern.ReplaceAllString(out, rule.Replacement)
	}
	if out == text {
		return text, 0
	}
	tagged := fenceMarker + r.tag
	return out, max(0, strings.Count(text, tagged)-strings.Count(out, tagged))
}
