// Package repo implements gitlet repository operations on top of an object
// store, a metadata backend and a working tree.
package repo

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/odvcencio/gitlet/pkg/storage"
	"github.com/odvcencio/gitlet/pkg/worktree"
)

// MetaDir is the name of the repository metadata directory.
const MetaDir = ".gitlet"

// Repo represents an opened gitlet repository.
type Repo struct {
	RootDir string          // working directory root; empty for in-memory repos
	MetaDir string          // .gitlet/ directory; empty for in-memory repos
	Backend storage.Backend // metadata and objects
	Store   *object.Store   // content-addressed object store
	Tree    worktree.Tree   // working tree
	Config  *Config
	Logger  *log.Logger

	now func() time.Time

	commitCacheMu sync.Mutex
	commitCache   map[object.Hash]*object.Commit
}

// Options configures a Repo built by InitWith or OpenWith.
type Options struct {
	Backend storage.Backend
	Tree    worktree.Tree
	// Config is used by InitWith. OpenWith reads it from Backend.
	Config *Config
	Logger *log.Logger
	// Now supplies commit timestamps. Defaults to time.Now.
	Now func() time.Time
}

func newRepo(opts Options, cfg *Config) (*Repo, error) {
	storeOpts, err := cfg.storeOptions()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Repo{
		Backend:     opts.Backend,
		Store:       object.NewStore(opts.Backend, storeOpts...),
		Tree:        opts.Tree,
		Config:      cfg,
		Logger:      logger,
		now:         now,
		commitCache: make(map[object.Hash]*object.Commit),
	}, nil
}

// readCommit reads a commit through the repo-local cache. Commits are
// immutable once written, so cached values never go stale.
func (r *Repo) readCommit(h object.Hash) (*object.Commit, error) {
	r.commitCacheMu.Lock()
	c, ok := r.commitCache[h]
	r.commitCacheMu.Unlock()
	if ok {
		return c, nil
	}
	c, err := r.Store.ReadCommit(h)
	if err != nil {
		return nil, err
	}
	r.commitCacheMu.Lock()
	r.commitCache[h] = c
	r.commitCacheMu.Unlock()
	return c, nil
}

// ReadCommit returns the commit with the given full digest.
func (r *Repo) ReadCommit(h object.Hash) (*object.Commit, error) {
	return r.readCommit(h)
}

// HeadCommit returns the digest and contents of the HEAD commit.
func (r *Repo) HeadCommit() (object.Hash, *object.Commit, error) {
	h, err := r.Head()
	if err != nil {
		return "", nil, err
	}
	c, err := r.readCommit(h)
	if err != nil {
		return "", nil, err
	}
	return h, c, nil
}
