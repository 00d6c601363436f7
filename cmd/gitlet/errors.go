package main

import (
	"errors"

	"github.com/odvcencio/gitlet/pkg/repo"
)

// userError replaces the text of err with a command-specific message.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }

func (e *userError) Unwrap() error { return e.err }

// explain returns err with msg as its user-facing text when err matches
// target.
func explain(err, target error, msg string) error {
	if err != nil && errors.Is(err, target) {
		return &userError{msg: msg, err: err}
	}
	return err
}

func errIncorrectOperands() error {
	return &userError{msg: "Incorrect operands."}
}

var messages = []struct {
	target error
	msg    string
}{
	{repo.ErrNotRepository, "Not in an initialized Gitlet directory."},
	{repo.ErrAlreadyInitialized, "A Gitlet version-control system already exists in the current directory."},
	{repo.ErrFileNotExist, "File does not exist."},
	{repo.ErrFileNotInCommit, "File does not exist in that commit."},
	{repo.ErrEmptyMessage, "Please enter a commit message."},
	{repo.ErrNothingToCommit, "No changes added to the commit."},
	{repo.ErrNothingToRemove, "No reason to remove the file."},
	{repo.ErrBranchExists, "A branch with that name already exists."},
	{repo.ErrNoSuchBranch, "A branch with that name does not exist."},
	{repo.ErrCurrentBranch, "Cannot remove the current branch."},
	{repo.ErrUncommittedChanges, "You have uncommitted changes."},
	{repo.ErrMergeSelf, "Cannot merge a branch with itself."},
	{repo.ErrWorkingTreeConflict, "There is an untracked file in the way; delete it, or add and commit it first."},
	{repo.ErrAmbiguousReference, "Commit id is ambiguous."},
	{repo.ErrNotFound, "No commit with that id exists."},
}

// errorMessage maps an error from a command to the line printed for it.
func errorMessage(err error) string {
	var ue *userError
	if errors.As(err, &ue) {
		return ue.msg
	}
	for _, m := range messages {
		if errors.Is(err, m.target) {
			return m.msg
		}
	}
	return err.Error()
}
