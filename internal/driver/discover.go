package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrRootNotFound is returned when none of the candidate documentation roots exists.
var ErrRootNotFound = errors.New("documentation root not found")

// DefaultExtensions lists the document extensions visited when none are configured.
var DefaultExtensions = []string{".md"}

// ResolveRoot returns the first candidate that is an existing directory.
func ResolveRoot(candidates ...string) (string, error) {
	tried := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" {
			continue
		}
		tried = append(tried, c)
		info, err := os.Stat(c)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("failed to stat %q: %w", c, err)
		}
		if info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w (tried %s)", ErrRootNotFound, strings.Join(tried, ", "))
}

// CollectFiles walks root recursively and returns every file whose extension
// is in exts, sorted lexically.
func CollectFiles(ctx context.Context, root string, exts []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	wanted := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		wanted[ext] = struct{}{}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := wanted[filepath.Ext(path)]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// детерминированный порядок обхода
	sort.Strings(files)
	return files, nil
}
