// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// CollectFiles expands roots into a sorted, de-duplicated list of files
// ending with ext. Directories are walked recursively. A root naming a file
// is kept only when it has the extension. Missing roots are an error.
func CollectFiles(ext string, roots ...string) ([]string, error) {
	if ext == "" {
		panic("extension must not be empty")
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", root, err)
		}
		if !info.IsDir() {
			if strings.HasSuffix(root, ext) {
				add(root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), ext) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking %s: %w", root, err)
		}
	}

	slices.Sort(files)
	return files, nil
}
