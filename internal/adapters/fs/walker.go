// Package fs provides file-tree walking, content hashing, ignore-pattern
// matching, and output verification shared by the repo cache, build
// runner, merge planner, and output assembler.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"sort"
)

// Walker walks a directory tree, skipping VCS metadata and ignored paths.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every non-ignored file under root, relative to root,
// in deterministic lexicographic order. ".git" is always skipped.
func (w *Walker) WalkFiles(root string, ignore *Matcher) iter.Seq[string] {
	return func(yield func(string) bool) {
		var rels []string
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path == root {
				return nil
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			if d.IsDir() {
				if d.Name() == ".git" {
					return filepath.SkipDir
				}
				if ignore != nil && ignore.MatchDir(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if ignore != nil && ignore.Match(rel) {
				return nil
			}
			rels = append(rels, rel)
			return nil
		})

		sort.Strings(rels)
		for _, rel := range rels {
			if !yield(rel) {
				return
			}
		}
	}
}
