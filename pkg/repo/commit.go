package repo

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/odvcencio/gitlet/pkg/object"
)

// LogEntry pairs a commit with its digest.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.Commit
}

// Commit creates a new commit from the current staging area.
//
//  1. Read staging; fail if it is empty
//  2. Copy HEAD's snapshot, apply staged additions and removals
//  3. Write blobs and the commit object
//  4. Move the current branch and HEAD, then drain staging
func (r *Repo) Commit(message string) (object.Hash, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("commit: %w", ErrEmptyMessage)
	}
	stg, err := r.ReadStaging()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	if stg.Empty() {
		return "", fmt.Errorf("commit: %w", ErrNothingToCommit)
	}
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	h, err := r.createCommit(message, head, "", stg)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return h, nil
}

// createCommit records a commit whose snapshot is the parent's snapshot
// with stg applied. Callers check preconditions. Pointer updates happen
// only after every object is stored.
func (r *Repo) createCommit(message string, parent, secondParent object.Hash, stg *Staging) (object.Hash, error) {
	base, err := r.readCommit(parent)
	if err != nil {
		return "", fmt.Errorf("read parent %s: %w", parent, err)
	}

	files := base.Files.Clone()
	for _, p := range slices.Sorted(maps.Keys(stg.Add)) {
		h, err := r.Store.WriteBlob(stg.Add[p])
		if err != nil {
			return "", fmt.Errorf("write blob %s: %w", p, err)
		}
		files[p] = h
	}
	for p := range stg.Remove {
		delete(files, p)
	}

	c := &object.Commit{
		Message:      message,
		Timestamp:    r.now().Format(object.TimeLayout),
		Parent:       parent,
		SecondParent: secondParent,
		Files:        files,
	}
	h, err := r.Store.WriteCommit(c)
	if err != nil {
		return "", fmt.Errorf("write commit: %w", err)
	}
	if err := r.moveCurrent(h); err != nil {
		return "", err
	}
	if err := r.clearStaging(); err != nil {
		return "", err
	}

	r.Logger.Info("created commit", "hash", h.Short(12), "parent", parent.Short(12), "files", len(files), "merge", secondParent != "")
	return h, nil
}

// Log walks first-parent history from start, newest first. A limit of zero
// or less walks to the root.
func (r *Repo) Log(start object.Hash, limit int) ([]LogEntry, error) {
	var entries []LogEntry
	cur := start
	seen := make(map[object.Hash]struct{})
	for cur != "" {
		if limit > 0 && len(entries) >= limit {
			break
		}
		if _, ok := seen[cur]; ok {
			return nil, fmt.Errorf("log: cycle at %s", cur)
		}
		seen[cur] = struct{}{}

		c, err := r.readCommit(cur)
		if err != nil {
			return nil, fmt.Errorf("log: read commit %s: %w", cur, err)
		}
		entries = append(entries, LogEntry{Hash: cur, Commit: c})
		cur = c.Parent
	}
	return entries, nil
}

// GlobalLog returns every commit in the store, ordered by digest.
func (r *Repo) GlobalLog() ([]LogEntry, error) {
	hashes, err := r.Store.ListCommits()
	if err != nil {
		return nil, fmt.Errorf("global-log: %w", err)
	}
	entries := make([]LogEntry, 0, len(hashes))
	for _, h := range hashes {
		c, err := r.readCommit(h)
		if err != nil {
			return nil, fmt.Errorf("global-log: read commit %s: %w", h, err)
		}
		entries = append(entries, LogEntry{Hash: h, Commit: c})
	}
	return entries, nil
}

// Find returns the digests of all commits whose message equals message
// exactly. No match is reported as ErrNotFound.
func (r *Repo) Find(message string) ([]object.Hash, error) {
	entries, err := r.GlobalLog()
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	var out []object.Hash
	for _, e := range entries {
		if e.Commit.Message == message {
			out = append(out, e.Hash)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("find: no commit with message %q: %w", message, ErrNotFound)
	}
	return out, nil
}
