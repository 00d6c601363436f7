package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/odvcencio/gitlet/pkg/storage"
	"github.com/odvcencio/gitlet/pkg/worktree"
)

// InitialMessage is the message of the root commit created by Init.
const InitialMessage = "initial commit"

// Init creates a new gitlet repository at path. It creates the .gitlet/
// directory, writes the config, stores the root commit and points the
// default branch and HEAD at it. A nil cfg uses DefaultConfig.
func Init(path string, cfg *Config, opts Options) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}
	metaDir := filepath.Join(abs, MetaDir)
	if _, err := os.Stat(metaDir); err == nil {
		return nil, fmt.Errorf("init: %w at %s", ErrAlreadyInitialized, metaDir)
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return nil, fmt.Errorf("init: mkdir %s: %w", metaDir, err)
	}

	opts.Backend = storage.NewDir(metaDir)
	opts.Tree = worktree.NewDir(abs, MetaDir)
	opts.Config = cfg
	r, err := InitWith(opts)
	if err != nil {
		// metaDir did not exist before this call.
		if rmErr := os.RemoveAll(metaDir); rmErr != nil {
			return nil, errors.Join(err, fmt.Errorf("init: cleanup %s: %w", metaDir, rmErr))
		}
		return nil, err
	}
	r.RootDir = abs
	r.MetaDir = metaDir
	return r, nil
}

// InitWith initializes a repository on the given backend and working tree.
func InitWith(opts Options) (*Repo, error) {
	if opts.Backend == nil || opts.Tree == nil {
		return nil, fmt.Errorf("init: backend and working tree are required")
	}
	if initialized(opts.Backend) {
		return nil, fmt.Errorf("init: %w", ErrAlreadyInitialized)
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := writeConfig(opts.Backend, cfg); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	r, err := newRepo(opts, cfg)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	root := &object.Commit{
		Message:   InitialMessage,
		Timestamp: time.Unix(0, 0).UTC().Format(object.TimeLayout),
		Files:     object.Snapshot{},
	}
	h, err := r.Store.WriteCommit(root)
	if err != nil {
		return nil, fmt.Errorf("init: write root commit: %w", err)
	}
	branch := cfg.Core.DefaultBranch
	if err := r.setBranch(branch, h); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := r.setCurrentBranch(branch); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := r.setHead(h); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	r.Logger.Debug("initialized repository", "branch", branch, "root", h.Short(12), "hash", cfg.Core.Hash)
	return r, nil
}

// Open searches upward from path for a .gitlet/ directory and opens the
// repository.
func Open(path string, opts Options) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		metaDir := filepath.Join(cur, MetaDir)
		info, err := os.Stat(metaDir)
		if err == nil && info.IsDir() {
			opts.Backend = storage.NewDir(metaDir)
			opts.Tree = worktree.NewDir(cur, MetaDir)
			r, err := OpenWith(opts)
			if err != nil {
				return nil, err
			}
			r.RootDir = cur
			r.MetaDir = metaDir
			return r, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: %w", ErrNotRepository)
		}
		cur = parent
	}
}

// OpenWith opens an existing repository on the given backend and working
// tree.
func OpenWith(opts Options) (*Repo, error) {
	if opts.Backend == nil || opts.Tree == nil {
		return nil, fmt.Errorf("open: backend and working tree are required")
	}
	if !initialized(opts.Backend) {
		return nil, fmt.Errorf("open: %w", ErrNotRepository)
	}
	cfg, err := readConfig(opts.Backend)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	r, err := newRepo(opts, cfg)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	return r, nil
}

func initialized(b storage.Backend) bool {
	ok, err := b.Exists("", headKey)
	if err != nil && !errors.Is(err, storage.ErrNotExist) {
		return false
	}
	return ok
}
