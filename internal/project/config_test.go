package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"docfence/internal/classify"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "")
	nested := filepath.Join(root, "docs", "src", "ch01")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, ok, err := FindConfig(nested)
	if err != nil || !ok {
		t.Fatalf("FindConfig = %v, %v", ok, err)
	}
	abs, _ := filepath.Abs(root)
	if want := filepath.Join(abs, ConfigFileName); got != want {
		t.Fatalf("config = %s, want %s", got, want)
	}
}

func TestFindConfigMissing(t *testing.T) {
	// a temp dir under the system temp root; nothing above it should carry docfence.toml
	_, ok, err := FindConfig(t.TempDir())
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if ok {
		t.Skip("docfence.toml found above the temp dir")
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[classify]\nlanguage = \"python\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	opts := cfg.ClassifyOptions()
	def := classify.DefaultOptions()
	if opts.Language != "python" {
		t.Fatalf("Language = %q", opts.Language)
	}
	if opts.IgnoreAttr != def.IgnoreAttr || opts.OutputTag != def.OutputTag {
		t.Fatalf("defaults lost: %+v", opts)
	}
	if diff := cmp.Diff(def.Crates, opts.Crates); diff != "" {
		t.Fatalf("crates (-want +got):\n%s", diff)
	}
	if cfg.Repair.Tag != "text" {
		t.Fatalf("repair tag = %q", cfg.Repair.Tag)
	}
}

func TestLoadFullConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[docs]
roots = ["book/src", "guide"]
extensions = [".md", ".markdown"]

[classify]
language = "rust"
ignore = "no_run"
output = "console"
crates = []
placeholders = ["TODO_EXPR"]

[repair]
tag = "console"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	opts := cfg.ClassifyOptions()
	if opts.IgnoreAttr != "no_run" || opts.OutputTag != "console" {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if len(opts.Crates) != 0 || opts.Crates == nil {
		t.Fatalf("crates should be an explicit empty list, got %#v", opts.Crates)
	}
	for _, r := range classify.New(opts).Rules() {
		switch r.Name {
		case "crate-path", "crate-import", "async-main":
			t.Fatalf("crates = [] should switch off rule %s", r.Name)
		}
	}
	if diff := cmp.Diff([]string{"TODO_EXPR"}, opts.Placeholders); diff != "" {
		t.Fatalf("placeholders (-want +got):\n%s", diff)
	}
	if cfg.Repair.Tag != "console" {
		t.Fatalf("repair tag = %q", cfg.Repair.Tag)
	}

	abs, _ := filepath.Abs(dir)
	want := []string{filepath.Join(abs, "book", "src"), filepath.Join(abs, "guide")}
	if diff := cmp.Diff(want, cfg.RootCandidates("")); diff != "" {
		t.Fatalf("roots (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"empty language": "[classify]\nlanguage = \"  \"\n",
		"empty tag":      "[repair]\ntag = \"\"\n",
		"empty root":     "[docs]\nroots = [\"\"]\n",
		"no extensions":  "[docs]\nextensions = []\n",
		"unknown key":    "[classify]\nlanguages = \"rust\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), body)
			if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadReportsSyntaxErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[docs\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRootCandidates(t *testing.T) {
	def := Default()
	if diff := cmp.Diff([]string{"explicit"}, def.RootCandidates("explicit")); diff != "" {
		t.Fatalf("explicit (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{filepath.FromSlash("docs/src")}, def.RootCandidates("")); diff != "" {
		t.Fatalf("defaults (-want +got):\n%s", diff)
	}

	withRoot := Default()
	withRoot.Root = filepath.FromSlash("/proj")
	want := []string{filepath.Join(withRoot.Root, "docs", "src"), filepath.FromSlash("docs/src")}
	if diff := cmp.Diff(want, withRoot.RootCandidates("")); diff != "" {
		t.Fatalf("project root (-want +got):\n%s", diff)
	}

	withTool := Default()
	withTool.Root = filepath.FromSlash("/proj")
	withTool.ToolDir = filepath.FromSlash("/opt/docfence")
	want = []string{
		filepath.Join(withTool.Root, "docs", "src"),
		filepath.Join(withTool.ToolDir, "docs", "src"),
		filepath.FromSlash("docs/src"),
	}
	if diff := cmp.Diff(want, withTool.RootCandidates("")); diff != "" {
		t.Fatalf("tool dir (-want +got):\n%s", diff)
	}

	// бинарник лежит в корне проекта - кандидат не дублируется
	withTool.ToolDir = withTool.Root
	want = []string{filepath.Join(withTool.Root, "docs", "src"), filepath.FromSlash("docs/src")}
	if diff := cmp.Diff(want, withTool.RootCandidates("")); diff != "" {
		t.Fatalf("tool dir equal to root (-want +got):\n%s", diff)
	}
}
