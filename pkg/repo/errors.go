package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/odvcencio/gitlet/pkg/object"
)

// Error classes. Every error returned by a Repo operation that stems from
// the repository state (rather than I/O) matches exactly one of these with
// errors.Is.
var (
	ErrNotFound            = object.ErrNotFound
	ErrAmbiguousReference  = object.ErrAmbiguous
	ErrPrecondition        = errors.New("precondition failed")
	ErrWorkingTreeConflict = errors.New("untracked working tree file in the way")
)

// classError is a named condition that also matches its error class.
type classError struct {
	msg   string
	class error
}

func (e *classError) Error() string { return e.msg }

func (e *classError) Is(target error) bool { return target == e.class }

func newClassError(class error, msg string) error {
	return &classError{msg: msg, class: class}
}

var (
	ErrNotRepository      = newClassError(ErrNotFound, "not in an initialized gitlet directory")
	ErrAlreadyInitialized = newClassError(ErrPrecondition, "a gitlet repository already exists")
	ErrFileNotExist       = newClassError(ErrNotFound, "file does not exist")
	ErrFileNotInCommit    = newClassError(ErrNotFound, "file does not exist in that commit")
	ErrNoSuchBranch       = newClassError(ErrNotFound, "no such branch")
	ErrEmptyMessage       = newClassError(ErrPrecondition, "empty commit message")
	ErrNothingToCommit    = newClassError(ErrPrecondition, "no changes added to the commit")
	ErrNothingToRemove    = newClassError(ErrPrecondition, "no reason to remove the file")
	ErrBranchExists       = newClassError(ErrPrecondition, "branch already exists")
	ErrCurrentBranch      = newClassError(ErrPrecondition, "branch is the current branch")
	ErrUncommittedChanges = newClassError(ErrPrecondition, "uncommitted changes")
	ErrMergeSelf          = newClassError(ErrPrecondition, "cannot merge a branch with itself")
)

// UntrackedFileError reports working-tree files that are not tracked by the
// current commit but would be overwritten by checkout, reset or merge.
type UntrackedFileError struct {
	Paths []string
}

func (e *UntrackedFileError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s", ErrWorkingTreeConflict, strings.Join(e.Paths, ", "))
}

func (e *UntrackedFileError) Is(target error) bool {
	return target == ErrWorkingTreeConflict
}
