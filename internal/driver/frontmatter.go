package driver

import (
	"bytes"
	"strings"

	"github.com/adrg/frontmatter"
)

// documentMeta is the slice of front matter docfence cares about.
type documentMeta struct {
	Docfence string `yaml:"docfence" toml:"docfence" json:"docfence"`
}

// optOutValues are the front matter values that exclude a document.
var optOutValues = map[string]struct{}{
	"skip":   {},
	"off":    {},
	"ignore": {},
}

// optedOut reports whether the document's front matter excludes it
// (e.g. "docfence: skip"). Documents without front matter, or with front
// matter that fails to parse, are processed normally.
func optedOut(content []byte) (bool, error) {
	if !hasFrontMatterDelimiter(content) {
		return false, nil
	}
	var meta documentMeta
	if _, err := frontmatter.Parse(bytes.NewReader(content), &meta); err != nil {
		return false, err
	}
	_, ok := optOutValues[strings.ToLower(strings.TrimSpace(meta.Docfence))]
	return ok, nil
}

func hasFrontMatterDelimiter(content []byte) bool {
	return bytes.HasPrefix(content, []byte("---\n")) || bytes.HasPrefix(content, []byte("+++\n"))
}
