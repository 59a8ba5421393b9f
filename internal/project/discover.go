package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SchemaExt is the schema file extension.
const SchemaExt = ".bproto"

// Discover collects every schema file under roots. A root that is a
// file is taken as-is (and must carry the schema extension); a root
// that is a directory is walked recursively. The result is sorted and
// deduplicated so compilations stay deterministic regardless of how
// the roots were given.
func Discover(roots ...string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", root, err)
		}
		if !info.IsDir() {
			if !strings.HasSuffix(root, SchemaExt) {
				return nil, fmt.Errorf("%s: not a %s file", root, SchemaExt)
			}
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(d.Name(), SchemaExt) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %q: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// ReadAll loads the discovered files into memory, keyed for display by
// their path relative to base (absolute when base is empty or the
// file lies outside it).
func ReadAll(base string, paths []string) (display []string, contents [][]byte, err error) {
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %q: %w", p, err)
		}
		display = append(display, DisplayPath(base, p))
		contents = append(contents, content)
	}
	return display, contents, nil
}

// DisplayPath shortens path relative to base for diagnostics.
func DisplayPath(base, path string) string {
	if base == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
