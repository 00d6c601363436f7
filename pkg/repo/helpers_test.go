package repo

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/odvcencio/gitlet/pkg/storage"
	"github.com/odvcencio/gitlet/pkg/worktree"
)

// tickingClock returns a clock that advances one minute per call so every
// commit in a test gets a distinct timestamp.
func tickingClock() func() time.Time {
	t0 := time.Date(2024, time.March, 9, 10, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return t0.Add(time.Duration(n) * time.Minute)
	}
}

// newMemoryRepo initializes a repository on in-memory storage.
func newMemoryRepo(t *testing.T) *Repo {
	t.Helper()

	r, err := InitWith(Options{
		Backend: storage.NewMemory(),
		Tree:    worktree.NewMemory(),
		Now:     tickingClock(),
	})
	if err != nil {
		t.Fatalf("InitWith: %v", err)
	}
	return r
}

// newDiskRepo initializes a repository in a temp directory.
func newDiskRepo(t *testing.T) (*Repo, string) {
	t.Helper()

	dir := t.TempDir()
	r, err := Init(dir, nil, Options{Now: tickingClock()})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return r, r.RootDir
}

// repoPath returns the path Add and friends accept for rel.
func repoPath(r *Repo, rel string) string {
	if r.RootDir == "" {
		return rel
	}
	return filepath.Join(r.RootDir, filepath.FromSlash(rel))
}

func writeFile(t *testing.T, r *Repo, rel, content string) {
	t.Helper()
	if err := r.Tree.Write(rel, []byte(content)); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func readFile(t *testing.T, r *Repo, rel string) string {
	t.Helper()
	data, err := r.Tree.Read(rel)
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

func fileExists(t *testing.T, r *Repo, rel string) bool {
	t.Helper()
	ok, err := r.Tree.Exists(rel)
	if err != nil {
		t.Fatalf("exists %s: %v", rel, err)
	}
	return ok
}

// commitFiles writes and stages each file, then commits.
func commitFiles(t *testing.T, r *Repo, message string, files map[string]string) object.Hash {
	t.Helper()
	for rel, content := range files {
		writeFile(t, r, rel, content)
		if err := r.Add(repoPath(r, rel)); err != nil {
			t.Fatalf("Add(%s): %v", rel, err)
		}
	}
	h, err := r.Commit(message)
	if err != nil {
		t.Fatalf("Commit(%q): %v", message, err)
	}
	return h
}

func mustHead(t *testing.T, r *Repo) object.Hash {
	t.Helper()
	h, err := r.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	return h
}

func mustCheckout(t *testing.T, r *Repo, branch string) {
	t.Helper()
	if err := r.CheckoutBranch(branch); err != nil {
		t.Fatalf("CheckoutBranch(%s): %v", branch, err)
	}
}

func mustBranch(t *testing.T, r *Repo, branch string) {
	t.Helper()
	if err := r.CreateBranch(branch); err != nil {
		t.Fatalf("CreateBranch(%s): %v", branch, err)
	}
}

// forEachBackend runs fn against a memory-backed and a disk-backed repo.
func forEachBackend(t *testing.T, fn func(t *testing.T, r *Repo)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, newMemoryRepo(t))
	})
	t.Run("disk", func(t *testing.T) {
		r, _ := newDiskRepo(t)
		fn(t, r)
	})
}
