package repo

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/odvcencio/gitlet/pkg/storage"
)

const (
	headsNamespace = "refs/heads"
	headKey        = "HEAD"
	branchKey      = "BRANCH"
)

// Head returns the digest of the commit HEAD points at.
func (r *Repo) Head() (object.Hash, error) {
	data, err := r.Backend.Read("", headKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return "", fmt.Errorf("read HEAD: %w", ErrNotRepository)
		}
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	return object.Hash(strings.TrimSpace(string(data))), nil
}

// CurrentBranch returns the name of the checked-out branch.
func (r *Repo) CurrentBranch() (string, error) {
	data, err := r.Backend.Read("", branchKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return "", fmt.Errorf("read current branch: %w", ErrNotRepository)
		}
		return "", fmt.Errorf("read current branch: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ResolveBranch returns the tip of the named branch.
func (r *Repo) ResolveBranch(name string) (object.Hash, error) {
	if err := validateBranchName(name); err != nil {
		return "", fmt.Errorf("resolve branch %q: %w", name, ErrNoSuchBranch)
	}
	data, err := r.Backend.Read(headsNamespace, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return "", fmt.Errorf("resolve branch %q: %w", name, ErrNoSuchBranch)
		}
		return "", fmt.Errorf("resolve branch %q: %w", name, err)
	}
	return object.Hash(strings.TrimSpace(string(data))), nil
}

// ResolveCommit resolves a full or abbreviated commit digest.
func (r *Repo) ResolveCommit(prefix string) (object.Hash, error) {
	h, err := r.Store.ResolveCommitPrefix(strings.TrimSpace(prefix))
	if err != nil {
		return "", fmt.Errorf("resolve commit %q: %w", prefix, err)
	}
	return h, nil
}

func (r *Repo) setBranch(name string, h object.Hash) error {
	if err := r.Backend.Write(headsNamespace, name, []byte(string(h)+"\n")); err != nil {
		return fmt.Errorf("update branch %q: %w", name, err)
	}
	return nil
}

func (r *Repo) setHead(h object.Hash) error {
	if err := r.Backend.Write("", headKey, []byte(string(h)+"\n")); err != nil {
		return fmt.Errorf("update HEAD: %w", err)
	}
	return nil
}

func (r *Repo) setCurrentBranch(name string) error {
	if err := r.Backend.Write("", branchKey, []byte(name+"\n")); err != nil {
		return fmt.Errorf("update current branch: %w", err)
	}
	return nil
}

// moveCurrent points the current branch and HEAD at h, branch first.
func (r *Repo) moveCurrent(h object.Hash) error {
	branch, err := r.CurrentBranch()
	if err != nil {
		return err
	}
	if err := r.setBranch(branch, h); err != nil {
		return err
	}
	return r.setHead(h)
}

func validateBranchName(name string) error {
	if name == "" {
		return fmt.Errorf("empty branch name")
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") ||
		strings.HasPrefix(name, ".") || strings.Contains(name, "..") ||
		strings.Contains(name, "//") || strings.Contains(name, "\\") {
		return fmt.Errorf("invalid branch name %q", name)
	}
	for _, c := range name {
		if unicode.IsSpace(c) || unicode.IsControl(c) {
			return fmt.Errorf("invalid branch name %q", name)
		}
	}
	return nil
}
