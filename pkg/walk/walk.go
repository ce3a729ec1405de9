// Package walk enumerates the filesystem entries a run operates on: a
// post-order listing for the rename pass and a flat file listing for the
// content pass. Exclude globs prune files and whole directory subtrees.
package walk

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📄 Entry is a single filesystem entry under the root.
type Entry struct {
	Path  string // absolute path, addressed by its pre-rename location
	IsDir bool
}

// 🚶 Walker enumerates entries under a root directory.
type Walker struct {
	root     string
	excludes []string
}

// 🏭 New creates a walker for root. Exclude patterns are doublestar globs
// matched against the slash-separated path relative to root; invalid
// patterns are rejected here rather than mid-walk.
func New(root string, excludes []string) (*Walker, error) {
	for _, pattern := range excludes {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return &Walker{
		root:     filepath.Clean(root),
		excludes: excludes,
	}, nil
}

// 🚶 RenameOrder returns every file and directory under the root, children
// before their parents, the root itself excluded. Entries within a directory
// come in ReadDir name order, so the listing is deterministic. Renaming in
// this order means no entry's path is invalidated by an ancestor rename that
// already happened.
func (w *Walker) RenameOrder(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := w.collect(ctx, w.root, "", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (w *Walker) collect(ctx context.Context, dir, rel string, out *[]Entry) error {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return errors.Errorf("listing %s: %w", dir, err)
	}

	for _, d := range dirents {
		path := filepath.Join(dir, d.Name())
		childRel := filepath.ToSlash(filepath.Join(rel, d.Name()))
		if w.excluded(ctx, childRel) {
			continue
		}

		if d.IsDir() {
			if err := w.collect(ctx, path, childRel, out); err != nil {
				return err
			}
			*out = append(*out, Entry{Path: path, IsDir: true})
			continue
		}
		*out = append(*out, Entry{Path: path, IsDir: false})
	}
	return nil
}

// 📄 Files returns every regular file under the root, exclude patterns
// applied, symlinks and other irregular entries skipped. The listing is
// collected in full before the caller mutates anything.
func (w *Walker) Files(ctx context.Context) ([]string, error) {
	var files []string
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}
		if path == w.root {
			return nil
		}

		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return errors.Errorf("relativizing %s: %w", path, relErr)
		}
		if w.excluded(ctx, filepath.ToSlash(rel)) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if !d.IsDir() && d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (w *Walker) excluded(ctx context.Context, rel string) bool {
	for _, pattern := range w.excludes {
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			// Patterns were validated in New.
			continue
		}
		if ok {
			zerolog.Ctx(ctx).Debug().
				Str("path", rel).
				Str("pattern", pattern).
				Msg("excluded by pattern")
			return true
		}
	}
	return false
}
