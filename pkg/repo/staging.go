package repo

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/odvcencio/gitlet/pkg/storage"
	"github.com/odvcencio/gitlet/pkg/worktree"
)

const (
	stageAddNamespace    = "stage/add"
	stageRemoveNamespace = "stage/remove"
)

// Staging holds the pending changes for the next commit. A path is never
// in both sets at once.
type Staging struct {
	// Add maps a path to the exact bytes staged for it.
	Add map[string][]byte
	// Remove maps a path to the blob it was tracked with in HEAD.
	Remove map[string]object.Hash
}

// Empty reports whether nothing is staged.
func (s *Staging) Empty() bool {
	return len(s.Add) == 0 && len(s.Remove) == 0
}

// ReadStaging loads both staging sets.
func (r *Repo) ReadStaging() (*Staging, error) {
	stg := &Staging{
		Add:    make(map[string][]byte),
		Remove: make(map[string]object.Hash),
	}
	added, err := r.Backend.List(stageAddNamespace)
	if err != nil {
		return nil, fmt.Errorf("read staging: %w", err)
	}
	for _, p := range added {
		data, err := r.Backend.Read(stageAddNamespace, p)
		if err != nil {
			return nil, fmt.Errorf("read staging: %s: %w", p, err)
		}
		stg.Add[p] = data
	}
	removed, err := r.Backend.List(stageRemoveNamespace)
	if err != nil {
		return nil, fmt.Errorf("read staging: %w", err)
	}
	for _, p := range removed {
		data, err := r.Backend.Read(stageRemoveNamespace, p)
		if err != nil {
			return nil, fmt.Errorf("read staging: %s: %w", p, err)
		}
		stg.Remove[p] = object.Hash(strings.TrimSpace(string(data)))
	}
	return stg, nil
}

// Add stages the working-tree contents of path.
func (r *Repo) Add(p string) error {
	rel, err := r.RelPath(p)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	data, err := r.Tree.Read(rel)
	if err != nil {
		if errors.Is(err, worktree.ErrNotExist) {
			return fmt.Errorf("add %s: %w", rel, ErrFileNotExist)
		}
		return fmt.Errorf("add %s: %w", rel, err)
	}
	return r.Stage(rel, data)
}

// Stage records contents as the pending version of path. Staging bytes
// identical to HEAD's version clears any pending change for the path
// instead.
func (r *Repo) Stage(p string, contents []byte) error {
	_, head, err := r.HeadCommit()
	if err != nil {
		return fmt.Errorf("stage %s: %w", p, err)
	}
	if err := r.unstageRemove(p); err != nil {
		return fmt.Errorf("stage %s: %w", p, err)
	}

	if tracked, ok := head.Files[p]; ok && r.Store.BlobID(contents) == tracked {
		if err := r.unstageAdd(p); err != nil {
			return fmt.Errorf("stage %s: %w", p, err)
		}
		r.Logger.Debug("unchanged from HEAD, cleared staged entry", "path", p)
		return nil
	}

	if existing, err := r.Backend.Read(stageAddNamespace, p); err == nil && bytes.Equal(existing, contents) {
		return nil
	}
	if err := r.Backend.Write(stageAddNamespace, p, contents); err != nil {
		return fmt.Errorf("stage %s: %w", p, err)
	}
	r.Logger.Debug("staged for addition", "path", p, "size", len(contents))
	return nil
}

// Remove unstages a pending addition of path. Otherwise, if path is
// tracked in HEAD, it is staged for removal and deleted from the working
// tree.
func (r *Repo) Remove(p string) error {
	rel, err := r.RelPath(p)
	if err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	staged, err := r.Backend.Exists(stageAddNamespace, rel)
	if err != nil {
		return fmt.Errorf("rm %s: %w", rel, err)
	}
	if staged {
		if err := r.unstageAdd(rel); err != nil {
			return fmt.Errorf("rm %s: %w", rel, err)
		}
		r.Logger.Debug("unstaged addition", "path", rel)
		return nil
	}

	_, head, err := r.HeadCommit()
	if err != nil {
		return fmt.Errorf("rm %s: %w", rel, err)
	}
	tracked, ok := head.Files[rel]
	if !ok {
		return fmt.Errorf("rm %s: %w", rel, ErrNothingToRemove)
	}
	if err := r.Backend.Write(stageRemoveNamespace, rel, []byte(string(tracked)+"\n")); err != nil {
		return fmt.Errorf("rm %s: %w", rel, err)
	}
	if err := r.Tree.Delete(rel); err != nil && !errors.Is(err, worktree.ErrNotExist) {
		return fmt.Errorf("rm %s: %w", rel, err)
	}
	r.Logger.Debug("staged for removal", "path", rel)
	return nil
}

func (r *Repo) unstageAdd(p string) error {
	if err := r.Backend.Delete(stageAddNamespace, p); err != nil && !errors.Is(err, storage.ErrNotExist) {
		return err
	}
	return nil
}

func (r *Repo) unstageRemove(p string) error {
	if err := r.Backend.Delete(stageRemoveNamespace, p); err != nil && !errors.Is(err, storage.ErrNotExist) {
		return err
	}
	return nil
}

// writeStaging persists every entry of stg. Entries already on disk that
// stg lacks are left in place.
func (r *Repo) writeStaging(stg *Staging) error {
	for _, p := range slices.Sorted(maps.Keys(stg.Add)) {
		if err := r.Backend.Write(stageAddNamespace, p, stg.Add[p]); err != nil {
			return fmt.Errorf("write staging: %s: %w", p, err)
		}
	}
	for _, p := range slices.Sorted(maps.Keys(stg.Remove)) {
		if err := r.Backend.Write(stageRemoveNamespace, p, []byte(string(stg.Remove[p])+"\n")); err != nil {
			return fmt.Errorf("write staging: %s: %w", p, err)
		}
	}
	return nil
}

// clearStaging empties both staging sets.
func (r *Repo) clearStaging() error {
	for _, ns := range []string{stageAddNamespace, stageRemoveNamespace} {
		keys, err := r.Backend.List(ns)
		if err != nil {
			return fmt.Errorf("clear staging: %w", err)
		}
		for _, k := range keys {
			if err := r.Backend.Delete(ns, k); err != nil && !errors.Is(err, storage.ErrNotExist) {
				return fmt.Errorf("clear staging: %s: %w", k, err)
			}
		}
	}
	return nil
}

// RelPath converts p into a slash-separated path relative to the working
// tree root. For on-disk repositories a relative p is taken relative to
// the process working directory.
func (r *Repo) RelPath(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("empty path")
	}
	if r.RootDir == "" {
		clean := path.Clean(filepath.ToSlash(p))
		if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
			return "", fmt.Errorf("path %q is outside the working tree", p)
		}
		return clean, nil
	}

	abs := p
	if !filepath.IsAbs(abs) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", p, err)
		}
		abs = filepath.Join(cwd, p)
	}
	rel, err := filepath.Rel(r.RootDir, abs)
	if err != nil {
		return "", fmt.Errorf("cannot make %q relative to %q: %w", p, r.RootDir, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("path %q is outside the working tree", p)
	}
	return rel, nil
}
