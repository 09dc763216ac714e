package classify

import (
	"fmt"
	"testing"
)

func TestClassifyScenarios(t *testing.T) {
	cases := []struct {
		name    string
		tag     string
		body    string
		verdict Verdict
		tag2    string
		rule    string
	}{
		{"bare number output", "", "42\nfoo\n", Text, "text", "leading-digit"},
		{"signature without body", "rust", "fn add(a: i32, b: i32) -> i32\n", Ignore, "rust,ignore", "bare-signature"},
		{"signature ending at paren", "rust", "fn area(rect: &Rectangle)\n", Ignore, "rust,ignore", "fn-signature"},
		{"compound tag kept", "rust,ignore", "42\n", Unchanged, "rust,ignore", "compound-tag"},
		{"compound tag with junk kept", "rust,no_run", "fn f(\n", Unchanged, "rust,no_run", "compound-tag"},
		{"other language kept", "bash", "42\n", Unchanged, "bash", "other-language"},
		{"label output", "rust", "Name: Alice\nAge: 30\n", Text, "text", "label-colon"},
		{"panic output", "", "thread 'main' panicked at src/main.rs:2:5\n", Text, "text", "panic-output"},
		{"compiler error", "rust", "error[E0382]: borrow of moved value\n", Text, "text", "compiler-error"},
		{"compiler pointer", "", "  --> src/main.rs:4:5\n", Text, "text", "compiler-pointer"},
		{"directory tree", "", "├── src\n└── Cargo.toml\n", Text, "text", "tree-branch"},
		{"project path", "", "my_project/\n  src/\n", Text, "text", "project-path"},
		{"emoji", "", "🦀 Ferris says hi\n", Text, "text", "emoji"},
		{"caret line", "", "^^^ value moved here\n", Text, "text", "ascii-art-lead"},
		{"diagram", "", "[stack] ─→ [heap]\n", Text, "text", "ascii-art"},
		{"leading blank lines", "", "\n\n   7 items\n", Text, "text", "leading-digit"},
		{"untagged prose", "", "let x = 5;\n", Text, "text", "untagged-default"},
		{"empty untagged", "", "", Text, "text", "untagged-default"},
		{"complete program", "rust", "let x = 5;\nprintln!(\"{x}\");\n", Unchanged, "rust", "compilable"},
		{"open fn header", "rust", "fn main() {\n    println!(\"hi\");\n}\n", Ignore, "rust,ignore", "open-fn-header"},
		{"arrow comment", "rust", "let v = vec![1];\n// v → moved\n", Ignore, "rust,ignore", "arrow-comment"},
		{"pattern placeholder", "rust", "if let PATTERN = EXPR {}\n", Ignore, "rust,ignore", "if-let-placeholder"},
		{"fill in blank", "rust", "let x: ____ = 5;\n", Ignore, "rust,ignore", "placeholder"},
		{"placeholder ident", "rust", "match some_option {}\n", Ignore, "rust,ignore", "placeholder"},
		{"crate path", "rust", "let rt = tokio::runtime::Runtime::new();\n", Ignore, "rust,ignore", "crate-path"},
		{"crate import", "rust", "use anyhow;\n", Ignore, "rust,ignore", "crate-import"},
		{"indented signature", "rust", "impl Foo {\n    fn get(&self) -> u32\n}\n", Ignore, "rust,ignore", "bare-signature"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Classify(tc.tag, tc.body)
			if d.Verdict != tc.verdict || d.Tag != tc.tag2 || d.Rule != tc.rule {
				t.Fatalf("Classify(%q, %q) = %+v, want {%s %s %s}", tc.tag, tc.body, d, tc.verdict, tc.tag2, tc.rule)
			}
		})
	}
}

func TestLeadingDigitAlwaysText(t *testing.T) {
	tails := []string{"", " items", "\nfn main() {\n", ": error", ".5 seconds\nmore", "\n├──"}
	for _, tag := range []string{"", "rust"} {
		for d := '0'; d <= '9'; d++ {
			for _, tail := range tails {
				for _, lead := range []string{"", "\n", "  \n\t"} {
					body := lead + string(d) + tail + "\n"
					if got := Classify(tag, body); got.Verdict != Text {
						t.Fatalf("Classify(%q, %q) = %s, want text", tag, body, got.Verdict)
					}
				}
			}
		}
	}
}

func TestStandaloneSignatureAlwaysIgnore(t *testing.T) {
	sigs := []string{
		"fn add(a: i32, b: i32) -> i32",
		"fn run()",
		"fn parse(input: &str) -> Result<Config, Error>",
		"fn longest(x: &str, y: &str) -> &str",
	}
	contexts := []string{"%s\n", "%s\n// more text\n", "// doc\n%s\n", "\n    %s   \n\n"}
	for _, sig := range sigs {
		for _, ctx := range contexts {
			body := fmt.Sprintf(ctx, sig)
			if got := Classify("rust", body); got.Verdict != Ignore || got.Tag != "rust,ignore" {
				t.Fatalf("Classify(rust, %q) = %+v, want ignore", body, got)
			}
		}
	}
}

func TestOtherTagsUnchanged(t *testing.T) {
	bodies := []string{"42\n", "fn f()\n", "├── a\n", "", "tokio::spawn(x)\n"}
	tags := []string{"bash", "toml", "text", "console", "python3", "c++", "rusty", "Rust"}
	for _, tag := range tags {
		for _, body := range bodies {
			if got := Classify(tag, body); got.Verdict != Unchanged || got.Tag != tag {
				t.Fatalf("Classify(%q, %q) = %+v, want unchanged", tag, body, got)
			}
		}
	}
}

func TestClassifyIsStableOnItsOwnOutput(t *testing.T) {
	bodies := []string{"42\n", "fn f()\n", "let x = 1;\n", "", "Name: x\n", "fn main() {\n}\n"}
	for _, tag := range []string{"", "rust"} {
		for _, body := range bodies {
			first := Classify(tag, body)
			second := Classify(first.Tag, body)
			if second.Verdict != Unchanged || second.Tag != first.Tag {
				t.Fatalf("reclassifying %q/%q: first=%+v second=%+v", tag, body, first, second)
			}
		}
	}
}

func TestCustomOptions(t *testing.T) {
	c := New(Options{
		Language:     "rust",
		IgnoreAttr:   "no_run",
		OutputTag:    "console",
		Crates:       []string{"serde"},
		Placeholders: []string{"TODO_VALUE"},
	})
	if got := c.Classify("rust", "let v = serde::json();\n"); got.Tag != "rust,no_run" || got.Rule != "crate-path" {
		t.Fatalf("crate rule = %+v", got)
	}
	if got := c.Classify("rust", "let v = tokio::spawn(x);\n"); got.Verdict != Unchanged {
		t.Fatalf("tokio should no longer be an external crate: %+v", got)
	}
	if got := c.Classify("rust", "#[tokio::main]\nasync fn main() {}\n"); got.Verdict != Unchanged {
		t.Fatalf("tokio entry point should compile once tokio is dropped: %+v", got)
	}
	if got := c.Classify("rust", "let v = TODO_VALUE;\n"); got.Rule != "placeholder" {
		t.Fatalf("placeholder rule = %+v", got)
	}
	if got := c.Classify("", "1 2 3\n"); got.Tag != "console" {
		t.Fatalf("output tag = %+v", got)
	}
}

func TestEmptyListsDropRules(t *testing.T) {
	for _, c := range []*Classifier{
		New(Options{Crates: []string{}, Placeholders: []string{}}),
		New(Options{Crates: []string{" "}, Placeholders: []string{""}}),
	} {
		for _, r := range c.Rules() {
			switch r.Name {
			case "crate-path", "crate-import", "async-main", "placeholder":
				t.Fatalf("rule %s should be absent", r.Name)
			}
		}
	}
}

func TestRulesAreOrderedAndEnumerable(t *testing.T) {
	rules := Default().Rules()
	if len(rules) == 0 {
		t.Fatal("no rules")
	}
	seenIncomplete := false
	names := make(map[string]bool, len(rules))
	for _, r := range rules {
		if names[r.Name] {
			t.Fatalf("duplicate rule name %q", r.Name)
		}
		names[r.Name] = true
		switch r.Kind {
		case KindOutputShape:
			if seenIncomplete {
				t.Fatalf("output-shape rule %q after incompleteness rules", r.Name)
			}
			if r.Verdict() != Text || r.Scope != ScopeFirstLine {
				t.Fatalf("rule %q: verdict %s scope %s", r.Name, r.Verdict(), r.Scope)
			}
		case KindIncomplete:
			seenIncomplete = true
			if r.Verdict() != Ignore {
				t.Fatalf("rule %q: verdict %s", r.Name, r.Verdict())
			}
		}
	}
	if rules[0].Name != "leading-digit" || rules[len(rules)-1].Name != "bare-signature" {
		t.Fatalf("unexpected rule order: first %q last %q", rules[0].Name, rules[len(rules)-1].Name)
	}
}

func TestRuleMatchIndividually(t *testing.T) {
	byName := make(map[string]Rule)
	for _, r := range Default().Rules() {
		byName[r.Name] = r
	}
	cases := []struct {
		rule  string
		input string
		want  bool
	}{
		{"leading-digit", "10 apples", true},
		{"leading-digit", "x10", false},
		{"label-colon", "Error: boom", true},
		{"label-colon", "ERROR: boom", false},
		{"thread-output", "hi from the spawned thread", true},
		{"index-output", "Index 3: value", true},
		{"counter-output", "Count after creating a = 1", true},
		{"inner-output", "inner: 5", true},
		{"examples-path", "examples/hello.rs", true},
		{"ascii-art", "→ only one glyph", false},
		{"ascii-art", "→→ same glyph twice", false},
		{"ascii-art", "┌──┐", true},
		{"async-main", "#[tokio::main]\nasync fn main() {}", true},
		{"while-let-placeholder", "while let PATTERN = x {}", true},
		{"type-annotation-comment", "&i32        // a reference", true},
		{"open-fn-header", "    fn nested() {", false},
	}
	for _, tc := range cases {
		r, ok := byName[tc.rule]
		if !ok {
			t.Fatalf("rule %q not found", tc.rule)
		}
		if got := r.Match(tc.input); got != tc.want {
			t.Errorf("%s.Match(%q) = %v, want %v", tc.rule, tc.input, got, tc.want)
		}
	}
}

func TestFirstLineNormalizes(t *testing.T) {
	// "é" в разложенной форме (e + U+0301) должен совпасть с составной
	if got := FirstLine("\n  Cafe\u0301: open\nnext"); got != "Caf\u00e9: open" {
		t.Fatalf("FirstLine = %q", got)
	}
}

func TestFingerprint(t *testing.T) {
	a := New(DefaultOptions()).Fingerprint()
	b := New(DefaultOptions()).Fingerprint()
	if a != b {
		t.Fatal("fingerprint is not deterministic")
	}
	opts := DefaultOptions()
	opts.Crates = append(opts.Crates, "serde")
	if c := New(opts).Fingerprint(); c == a {
		t.Fatal("fingerprint ignores crate list")
	}
	opts = DefaultOptions()
	opts.IgnoreAttr = "no_run"
	if c := New(opts).Fingerprint(); c == a {
		t.Fatal("fingerprint ignores ignore qualifier")
	}
}

func TestVerdictStrings(t *testing.T) {
	if Unchanged.String() != "unchanged" || Text.String() != "text" || Ignore.String() != "ignore" {
		t.Fatal("unexpected verdict strings")
	}
	if KindOutputShape.String() != "output-shape" || ScopeEachLine.String() != "each-line" {
		t.Fatal("unexpected kind/scope strings")
	}
}
