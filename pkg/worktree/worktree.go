// Package worktree gives the repository core access to the files a user
// edits. Paths are slash-separated and relative to the working tree root.
package worktree

import "errors"

// ErrNotExist is returned when reading a file that is not present.
var ErrNotExist = errors.New("worktree: file does not exist")

// Tree is the working-tree contract used by staging, checkout and merge.
type Tree interface {
	List() ([]string, error)
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
	Delete(path string) error
	Exists(path string) (bool, error)
}
