package repo

import (
	"errors"
	"fmt"

	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/odvcencio/gitlet/pkg/worktree"
)

// checkUntracked fails if a working-tree file absent from current would be
// overwritten by writes to the given paths.
func (r *Repo) checkUntracked(current object.Snapshot, writes []string) error {
	var blocked []string
	for _, p := range writes {
		if _, tracked := current[p]; tracked {
			continue
		}
		exists, err := r.Tree.Exists(p)
		if err != nil {
			return fmt.Errorf("check %s: %w", p, err)
		}
		if exists {
			blocked = append(blocked, p)
		}
	}
	if len(blocked) > 0 {
		return &UntrackedFileError{Paths: blocked}
	}
	return nil
}

// materialize replaces the files tracked by current with the files of
// target. The untracked-file check and every blob read happen before the
// first working-tree mutation.
//
// Algorithm:
//  1. Refuse if an untracked file sits where target would write.
//  2. Load every target blob.
//  3. Delete every file tracked by current.
//  4. Write every file of target.
func (r *Repo) materialize(target, current object.Snapshot) error {
	paths := target.Paths()
	if err := r.checkUntracked(current, paths); err != nil {
		return err
	}

	contents := make(map[string][]byte, len(paths))
	for _, p := range paths {
		data, err := r.Store.ReadBlob(target[p])
		if err != nil {
			return fmt.Errorf("read blob for %s: %w", p, err)
		}
		contents[p] = data
	}

	for _, p := range current.Paths() {
		if err := r.Tree.Delete(p); err != nil && !errors.Is(err, worktree.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	for _, p := range paths {
		if err := r.Tree.Write(p, contents[p]); err != nil {
			return fmt.Errorf("write %s: %w", p, err)
		}
	}
	return nil
}

// CheckoutBranch makes name the current branch and replaces the working
// tree with its tip's snapshot.
func (r *Repo) CheckoutBranch(name string) error {
	current, err := r.CurrentBranch()
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if current == name {
		return fmt.Errorf("checkout %q: %w", name, ErrCurrentBranch)
	}
	tip, err := r.ResolveBranch(name)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	target, err := r.readCommit(tip)
	if err != nil {
		return fmt.Errorf("checkout: read commit %s: %w", tip, err)
	}
	_, head, err := r.HeadCommit()
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	if err := r.materialize(target.Files, head.Files); err != nil {
		return fmt.Errorf("checkout %q: %w", name, err)
	}
	if err := r.clearStaging(); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if err := r.setCurrentBranch(name); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if err := r.setHead(tip); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	r.Logger.Info("switched branch", "from", current, "to", name, "head", tip.Short(12))
	return nil
}

// CheckoutFile copies path's content in the commit named by prefix into
// the working tree. HEAD, branches and staging are left alone.
func (r *Repo) CheckoutFile(prefix, p string) error {
	h, err := r.ResolveCommit(prefix)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	return r.checkoutFileAt(h, p)
}

// CheckoutHeadFile restores path from the HEAD commit.
func (r *Repo) CheckoutHeadFile(p string) error {
	h, err := r.Head()
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	return r.checkoutFileAt(h, p)
}

func (r *Repo) checkoutFileAt(h object.Hash, p string) error {
	rel, err := r.RelPath(p)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	c, err := r.readCommit(h)
	if err != nil {
		return fmt.Errorf("checkout: read commit %s: %w", h, err)
	}
	blob, ok := c.Files[rel]
	if !ok {
		return fmt.Errorf("checkout %s: %w", rel, ErrFileNotInCommit)
	}
	data, err := r.Store.ReadBlob(blob)
	if err != nil {
		return fmt.Errorf("checkout %s: read blob: %w", rel, err)
	}
	if err := r.Tree.Write(rel, data); err != nil {
		return fmt.Errorf("checkout %s: %w", rel, err)
	}
	r.Logger.Debug("restored file", "path", rel, "commit", h.Short(12))
	return nil
}
