package worktree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
)

// Dir is a Tree backed by a directory on disk. Files matched by the ignore
// rules (including the repository metadata directory) are invisible to List.
type Dir struct {
	root   string
	ignore *IgnoreChecker
}

// NewDir returns a Dir rooted at root. metaDir names the repository
// metadata directory, which is always ignored.
func NewDir(root, metaDir string) *Dir {
	root = filepath.Clean(root)
	return &Dir{root: root, ignore: NewIgnoreChecker(root, metaDir)}
}

func (d *Dir) abs(path string) (string, error) {
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(path)))
	if clean == "." || clean == "" || strings.HasPrefix(clean, "../") || clean == ".." || filepath.IsAbs(path) {
		return "", fmt.Errorf("path %q is outside the working tree", path)
	}
	return filepath.Join(d.root, filepath.FromSlash(clean)), nil
}

func (d *Dir) List() ([]string, error) {
	var files []string
	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if d.ignore.IsIgnored(rel) {
			if entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.Type().IsRegular() {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list working tree: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

func (d *Dir) Read(path string) ([]byte, error) {
	p, err := d.abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %q: %w", path, ErrNotExist)
		}
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return data, nil
}

func (d *Dir) Write(path string, data []byte) error {
	p, err := d.abs(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("write %q: mkdir: %w", path, err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

// Delete removes a file and any parent directories it leaves empty. A
// missing file is not an error.
func (d *Dir) Delete(path string) error {
	p, err := d.abs(path)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %q: %w", path, err)
	}
	d.removeEmptyParents(filepath.Dir(p))
	return nil
}

// removeEmptyParents removes empty directories up to (but not including)
// the working tree root.
func (d *Dir) removeEmptyParents(dir string) {
	for {
		if dir == d.root || !strings.HasPrefix(dir, d.root) {
			return
		}
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		os.Remove(dir)
		dir = filepath.Dir(dir)
	}
}

// Exists reports whether anything occupies path. A directory counts, since
// writing a file there would fail.
func (d *Dir) Exists(path string) (bool, error) {
	p, err := d.abs(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Lstat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
