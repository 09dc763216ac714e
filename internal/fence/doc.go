// Package fence locates fenced code blocks in markdown text.
//
// The scanner is line oriented and deliberately shallow: a block starts at a
// line made of three or more identical fence characters (backtick or tilde)
// followed by an optional info string, and ends at the nearest following fence
// line built from the same character with at least as many markers. Nothing
// else about markdown is understood; bodies are assumed not to contain fence
// lines of their own.
//
// A closing line that carries text (```text instead of ```) still closes the
// block; Block.CloseInfo surfaces that text so callers can report it.
package fence
