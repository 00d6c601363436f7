package repo

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/odvcencio/gitlet/pkg/merge"
	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/odvcencio/gitlet/pkg/worktree"
)

// MergeStatus says what a merge did.
type MergeStatus int

const (
	// MergeUpToDate means the incoming tip is already an ancestor of HEAD.
	MergeUpToDate MergeStatus = iota
	// MergeFastForward means HEAD was an ancestor of the incoming tip and
	// the current branch now points at it. No commit was created.
	MergeFastForward
	// MergeCommitted means a two-parent merge commit was created.
	MergeCommitted
)

func (s MergeStatus) String() string {
	switch s {
	case MergeUpToDate:
		return "up-to-date"
	case MergeFastForward:
		return "fast-forward"
	case MergeCommitted:
		return "committed"
	default:
		return fmt.Sprintf("MergeStatus(%d)", int(s))
	}
}

// MergeResult is the outcome of merging a branch into the current branch.
type MergeResult struct {
	Status MergeStatus
	Base   object.Hash
	// Commit is the new HEAD: the merge commit, or the incoming tip after a
	// fast-forward. Empty when up to date.
	Commit object.Hash
	// Conflicts lists paths written with conflict markers. The merge commit
	// is still created when it is non-empty.
	Conflicts []string
	Actions   []merge.Action
}

// HasConflict reports whether any path was left with conflict markers.
func (m *MergeResult) HasConflict() bool {
	return len(m.Conflicts) > 0
}

// MergeMessage returns the message of the commit merging given into
// current.
func MergeMessage(given, current string) string {
	return fmt.Sprintf("Merged %s into %s.", given, current)
}

// Merge merges the named branch into the current branch.
//
// Algorithm:
//  1. Validate: branch exists, nothing staged, not the current branch.
//  2. Find the merge base; stop if incoming is already contained, or
//     fast-forward if HEAD is the base.
//  3. Classify every path against the base snapshot.
//  4. Refuse if an untracked file sits where the merge would write.
//  5. Apply writes and removals to the working tree and staging area.
//  6. Commit with HEAD as first parent and the incoming tip as second.
func (r *Repo) Merge(branch string) (*MergeResult, error) {
	incoming, err := r.ResolveBranch(branch)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	stg, err := r.ReadStaging()
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	if !stg.Empty() {
		return nil, fmt.Errorf("merge: %w", ErrUncommittedChanges)
	}
	current, err := r.CurrentBranch()
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	if current == branch {
		return nil, fmt.Errorf("merge %q: %w", branch, ErrMergeSelf)
	}
	headHash, head, err := r.HeadCommit()
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	base, err := r.CommonAncestor(headHash, incoming)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	if base == incoming {
		r.Logger.Debug("merge: incoming already contained", "branch", branch, "base", base.Short(12))
		return &MergeResult{Status: MergeUpToDate, Base: base}, nil
	}

	incomingCommit, err := r.readCommit(incoming)
	if err != nil {
		return nil, fmt.Errorf("merge: read commit %s: %w", incoming, err)
	}
	if base == headHash {
		return r.fastForward(branch, base, incoming, incomingCommit.Files, head.Files)
	}

	baseCommit, err := r.readCommit(base)
	if err != nil {
		return nil, fmt.Errorf("merge: read base %s: %w", base, err)
	}
	plan, err := merge.Snapshots(baseCommit.Files, head.Files, incomingCommit.Files, r.Store)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	writes := slices.Sorted(maps.Keys(plan.Write))
	if err := r.checkUntracked(head.Files, writes); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	for _, p := range writes {
		if err := r.Tree.Write(p, plan.Write[p]); err != nil {
			return nil, fmt.Errorf("merge: write %s: %w", p, err)
		}
		stg.Add[p] = plan.Write[p]
	}
	for _, p := range plan.Remove {
		if err := r.Tree.Delete(p); err != nil && !errors.Is(err, worktree.ErrNotExist) {
			return nil, fmt.Errorf("merge: remove %s: %w", p, err)
		}
		stg.Remove[p] = head.Files[p]
	}
	if err := r.writeStaging(stg); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	h, err := r.createCommit(MergeMessage(branch, current), headHash, incoming, stg)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	if plan.HasConflict() {
		r.Logger.Info("merge left conflicts", "branch", branch, "paths", plan.Conflicts)
	}
	return &MergeResult{
		Status:    MergeCommitted,
		Base:      base,
		Commit:    h,
		Conflicts: plan.Conflicts,
		Actions:   plan.Actions,
	}, nil
}

// fastForward moves the current branch to incoming and materializes its
// snapshot. The current branch name does not change.
func (r *Repo) fastForward(branch string, base, incoming object.Hash, target, current object.Snapshot) (*MergeResult, error) {
	if err := r.materialize(target, current); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	if err := r.clearStaging(); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	if err := r.moveCurrent(incoming); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	r.Logger.Info("fast-forward", "branch", branch, "head", incoming.Short(12))
	return &MergeResult{Status: MergeFastForward, Base: base, Commit: incoming}, nil
}
