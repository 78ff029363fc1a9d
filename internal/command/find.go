package command

import (
	"io/fs"
	"iter"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExtensions are the source file extensions a build processes.
var DefaultExtensions = []string{".html", ".htm", ".md", ".markdown"}

// findSources walks root for files with one of the extensions, never
// descending into the directories in exclude.
func findSources(root string, exts []string, exclude ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && isExcluded(path, exclude) {
					return filepath.SkipDir
				}
				return nil
			}
			if hasExt(path, exts) {
				if !yield(path, nil) {
					return filepath.SkipAll
				}
			}
			return nil
		})
		if err != nil {
			yield("", err)
		}
	}
}

func hasExt(path string, exts []string) bool {
	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}

func isExcluded(path string, exclude []string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, ex := range exclude {
		if exAbs, err := filepath.Abs(ex); err == nil && exAbs == abs {
			return true
		}
	}
	return false
}
