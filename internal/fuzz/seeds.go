package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB - ограничение для тестового корпуса
)

var builtinSeeds = []string{
	"",
	"plain paragraph\n",
	"```\n42\n```\n",
	"```rust\nfn main() {}\n```\n",
	"```rust\nfn area(r: &Rect) -> u32\n```\n",
	"```rust\nlet x = 5; // => 5\n```\n",
	"```rust\n$ cargo run\n```\n",
	"```rust,ignore\nuse crate::foo;\n```\n",
	"```bash\nls -la\n```text\n",
	"~~~~\n```\nnested\n```\n~~~~\n",
	"  ```   \n  indented\n  ```\n",
	"```rust title=\"x\"\nerror[E0382]: borrow of moved value\n```\n",
	"```\r\nwindows\r\n```\r\n",
	"```\nnever closed\n",
	"```",
	"}\n```text\n\n## Next\n",
	"}\n```text\n",
	"```text\n\n---\n",
	"```text\n\n**Bold**\n```text\n\n> quote\n",
	"```text\n\nOutput:\n```text\n```text\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.md файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
