package annotate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"docfence/internal/classify"
	"docfence/internal/diag"
)

const chapter = "# Ownership\n" +
	"\n" +
	"```rust\n" +
	"fn main() {\n" +
	"    let s = String::from(\"hi\");\n" +
	"}\n" +
	"```\n" +
	"\n" +
	"Output:\n" +
	"\n" +
	"```\n" +
	"hi\n" +
	"```\n" +
	"\n" +
	"```rust\n" +
	"let x = 5;\n" +
	"```\n" +
	"\n" +
	"```rust,ignore\n" +
	"42\n" +
	"```\n" +
	"\n" +
	"```bash\n" +
	"cargo run\n" +
	"```\n" +
	"\n" +
	"```rust\n" +
	"error[E0382]: borrow of moved value: `s`\n" +
	"```\n"

func TestAnnotateScenarios(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare number", "```\n42\nfoo\n```", "```text\n42\nfoo\n```"},
		{"signature", "```rust\nfn add(a: i32, b: i32) -> i32\n```", "```rust,ignore\nfn add(a: i32, b: i32) -> i32\n```"},
		{"already annotated", "```rust,ignore\nfn add(a: i32, b: i32) -> i32\n42\n```\n", "```rust,ignore\nfn add(a: i32, b: i32) -> i32\n42\n```\n"},
		{"indented fence", "- item\n\n    ```\n    1\n    ```\n", "- item\n\n    ```text\n    1\n    ```\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Annotate(tc.in, nil)
			if err != nil {
				t.Fatalf("Annotate: %v", err)
			}
			if diff := cmp.Diff(tc.want, res.Text); diff != "" {
				t.Fatalf("text mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnnotateChapter(t *testing.T) {
	res, err := Annotate(chapter, classify.Default())
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	wantChanges := []Change{
		{Line: 3, OldTag: "rust", NewTag: "rust,ignore", Rule: "open-fn-header"},
		{Line: 11, OldTag: "", NewTag: "text", Rule: "untagged-default"},
		{Line: 27, OldTag: "rust", NewTag: "text", Rule: "compiler-error"},
	}
	if diff := cmp.Diff(wantChanges, res.Changes); diff != "" {
		t.Fatalf("changes mismatch (-want +got):\n%s", diff)
	}
	if res.Fixed != 3 || res.Skipped != 3 {
		t.Fatalf("Fixed=%d Skipped=%d, want 3 and 3", res.Fixed, res.Skipped)
	}
	if !res.Changed() {
		t.Fatal("expected Changed")
	}
}

func TestAnnotateIsIdempotent(t *testing.T) {
	inputs := []string{
		chapter,
		"```\n42\nfoo\n```\n",
		"```rust\nfn add(a: i32, b: i32) -> i32\n```\n",
		"```\n```\n",
		"no blocks at all\n",
		"```rust\nfn main() {\n}\n```text\n\n---\n",
	}
	for _, in := range inputs {
		once, err := Annotate(in, nil)
		if err != nil {
			t.Fatalf("Annotate: %v", err)
		}
		twice, err := Annotate(once.Text, nil)
		if err != nil {
			t.Fatalf("Annotate: %v", err)
		}
		if diff := cmp.Diff(once.Text, twice.Text); diff != "" {
			t.Fatalf("second pass changed output (-once +twice):\n%s", diff)
		}
		if twice.Fixed != 0 {
			t.Fatalf("second pass fixed %d blocks", twice.Fixed)
		}
	}
}

func TestAnnotateLeavesNonBlockTextAlone(t *testing.T) {
	in := "Intro with ```inline``` ticks.\n\n```\n1\n```\n\ntrailing prose, no newline"
	res, err := Annotate(in, nil)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	want := "Intro with ```inline``` ticks.\n\n```text\n1\n```\n\ntrailing prose, no newline"
	if diff := cmp.Diff(want, res.Text); diff != "" {
		t.Fatalf("text mismatch (-want +got):\n%s", diff)
	}
}

func TestAnnotateReportsTaggedClosers(t *testing.T) {
	in := "```rust\nlet a = 1;\n}\n```text\n\n---\n"
	res, err := Annotate(in, nil)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if diff := cmp.Diff([]int{4}, res.TaggedClosers); diff != "" {
		t.Fatalf("tagged closers mismatch (-want +got):\n%s", diff)
	}
}

func TestAnnotateNoChanges(t *testing.T) {
	in := "```bash\nls\n```\n"
	res, err := Annotate(in, nil)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if res.Changed() || res.Text != in || res.Skipped != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestAnnotateFileReportsDiagnostics(t *testing.T) {
	in := "```rust\nlet a = 1;\n```text\n\n```\n42\n"
	bag := diag.NewBag(0)
	if _, err := AnnotateFile(0, in, nil, diag.BagReporter{Bag: bag}); err != nil {
		t.Fatalf("AnnotateFile: %v", err)
	}
	var codes []diag.Code
	for _, d := range bag.Items() {
		codes = append(codes, d.Code)
	}
	if diff := cmp.Diff([]diag.Code{diag.FenceTaggedCloser, diag.FenceUnclosed}, codes); diff != "" {
		t.Fatalf("codes (-want +got):\n%s", diff)
	}
	if got := bag.Items()[0].Primary.Slice(in); got != "```text" {
		t.Fatalf("tagged closer span covers %q", got)
	}
}
