package repo

import "fmt"

// CreateBranch creates a new branch pointing at the HEAD commit. It does
// not switch to it.
func (r *Repo) CreateBranch(name string) error {
	if err := validateBranchName(name); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	exists, err := r.Backend.Exists(headsNamespace, name)
	if err != nil {
		return fmt.Errorf("create branch %q: %w", name, err)
	}
	if exists {
		return fmt.Errorf("create branch %q: %w", name, ErrBranchExists)
	}
	head, err := r.Head()
	if err != nil {
		return fmt.Errorf("create branch %q: %w", name, err)
	}
	if err := r.setBranch(name, head); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	r.Logger.Debug("created branch", "branch", name, "at", head.Short(12))
	return nil
}

// DeleteBranch removes the branch pointer only; commits stay in the store.
// The current branch cannot be deleted.
func (r *Repo) DeleteBranch(name string) error {
	current, err := r.CurrentBranch()
	if err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	if current == name {
		return fmt.Errorf("delete branch %q: %w", name, ErrCurrentBranch)
	}
	if validateBranchName(name) != nil {
		return fmt.Errorf("delete branch %q: %w", name, ErrNoSuchBranch)
	}
	exists, err := r.Backend.Exists(headsNamespace, name)
	if err != nil {
		return fmt.Errorf("delete branch %q: %w", name, err)
	}
	if !exists {
		return fmt.Errorf("delete branch %q: %w", name, ErrNoSuchBranch)
	}
	if err := r.Backend.Delete(headsNamespace, name); err != nil {
		return fmt.Errorf("delete branch %q: %w", name, err)
	}
	r.Logger.Debug("deleted branch", "branch", name)
	return nil
}

// ListBranches returns the branch names sorted alphabetically.
func (r *Repo) ListBranches() ([]string, error) {
	names, err := r.Backend.List(headsNamespace)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return names, nil
}
