package repo

import (
	"fmt"

	"github.com/odvcencio/gitlet/pkg/object"
)

// Reset moves the current branch and HEAD to the commit named by prefix and
// replaces the working tree with its snapshot. The current branch name is
// unchanged.
func (r *Repo) Reset(prefix string) (object.Hash, error) {
	h, err := r.ResolveCommit(prefix)
	if err != nil {
		return "", fmt.Errorf("reset: %w", err)
	}
	target, err := r.readCommit(h)
	if err != nil {
		return "", fmt.Errorf("reset: read commit %s: %w", h, err)
	}
	_, head, err := r.HeadCommit()
	if err != nil {
		return "", fmt.Errorf("reset: %w", err)
	}

	if err := r.materialize(target.Files, head.Files); err != nil {
		return "", fmt.Errorf("reset: %w", err)
	}
	if err := r.clearStaging(); err != nil {
		return "", fmt.Errorf("reset: %w", err)
	}
	if err := r.moveCurrent(h); err != nil {
		return "", fmt.Errorf("reset: %w", err)
	}

	r.Logger.Info("reset", "head", h.Short(12))
	return h, nil
}
