package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// tmpDirName is the directory under root holding in-flight writes. It sits
// outside every namespace, so temp names never shadow keys.
const tmpDirName = ".tmp"

// Dir is a Backend that keeps every namespace as a directory under root and
// every key as a file. Writes are atomic: data goes to a temp file that is
// renamed into place.
type Dir struct {
	root string
}

// NewDir returns a Dir rooted at root. Directories are created lazily.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

func (d *Dir) tmpDir() string {
	return filepath.Join(d.root, tmpDirName)
}

func (d *Dir) keyPath(namespace, key string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	return filepath.Join(d.root, filepath.FromSlash(namespace), filepath.FromSlash(key)), nil
}

func (d *Dir) Read(namespace, key string) ([]byte, error) {
	p, err := d.keyPath(namespace, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s/%s: %w", namespace, key, ErrNotExist)
		}
		return nil, fmt.Errorf("read %s/%s: %w", namespace, key, err)
	}
	return data, nil
}

func (d *Dir) Write(namespace, key string, data []byte) error {
	p, err := d.keyPath(namespace, key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write %s/%s: mkdir: %w", namespace, key, err)
	}

	if err := os.MkdirAll(d.tmpDir(), 0o755); err != nil {
		return fmt.Errorf("write %s/%s: mkdir: %w", namespace, key, err)
	}
	tmp, err := os.CreateTemp(d.tmpDir(), "write-*")
	if err != nil {
		return fmt.Errorf("write %s/%s: tmpfile: %w", namespace, key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s/%s: %w", namespace, key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s/%s: close: %w", namespace, key, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s/%s: rename: %w", namespace, key, err)
	}
	return nil
}

func (d *Dir) Exists(namespace, key string) (bool, error) {
	p, err := d.keyPath(namespace, key)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// Delete removes a key and prunes directories left empty by it. Deleting an
// absent key is not an error.
func (d *Dir) Delete(namespace, key string) error {
	p, err := d.keyPath(namespace, key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s/%s: %w", namespace, key, err)
	}
	d.pruneEmpty(filepath.Dir(p), filepath.Join(d.root, filepath.FromSlash(namespace)))
	return nil
}

func (d *Dir) pruneEmpty(dir, stop string) {
	for dir != stop && strings.HasPrefix(dir, stop) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		os.Remove(dir)
		dir = filepath.Dir(dir)
	}
}

func (d *Dir) List(namespace string) ([]string, error) {
	base := filepath.Join(d.root, filepath.FromSlash(namespace))
	var keys []string
	err := filepath.WalkDir(base, func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if p == d.tmpDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", namespace, err)
	}
	sort.Strings(keys)
	return keys, nil
}
