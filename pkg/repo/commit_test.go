package repo

import (
	"errors"
	"testing"

	"github.com/odvcencio/gitlet/pkg/object"
)

func TestCommit_RoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, r *Repo) {
		root := mustHead(t, r)
		h := commitFiles(t, r, "add files", map[string]string{
			"a.txt":     "alpha\n",
			"dir/b.txt": "beta\n",
		})

		if mustHead(t, r) != h {
			t.Fatalf("HEAD = %s, want %s", mustHead(t, r), h)
		}
		tip, err := r.ResolveBranch("master")
		if err != nil {
			t.Fatalf("ResolveBranch: %v", err)
		}
		if tip != h {
			t.Fatalf("master = %s, want %s", tip, h)
		}

		c, err := r.ReadCommit(h)
		if err != nil {
			t.Fatalf("ReadCommit: %v", err)
		}
		if c.Parent != root {
			t.Fatalf("parent = %s, want root %s", c.Parent, root)
		}
		for path, want := range map[string]string{"a.txt": "alpha\n", "dir/b.txt": "beta\n"} {
			data, err := r.Store.ReadBlob(c.Files[path])
			if err != nil {
				t.Fatalf("ReadBlob(%s): %v", path, err)
			}
			if string(data) != want {
				t.Fatalf("%s = %q, want %q", path, data, want)
			}
		}

		stg, err := r.ReadStaging()
		if err != nil {
			t.Fatalf("ReadStaging: %v", err)
		}
		if !stg.Empty() {
			t.Fatalf("staging not drained: %+v", stg)
		}
	})
}

func TestCommit_AppliesRemovals(t *testing.T) {
	r := newMemoryRepo(t)
	commitFiles(t, r, "add", map[string]string{"a.txt": "a", "b.txt": "b"})
	if err := r.Remove("a.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	h, err := r.Commit("remove a")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	c, err := r.ReadCommit(h)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if _, ok := c.Files["a.txt"]; ok {
		t.Fatalf("a.txt still tracked")
	}
	if _, ok := c.Files["b.txt"]; !ok {
		t.Fatalf("b.txt lost")
	}
}

func TestCommit_Preconditions(t *testing.T) {
	r := newMemoryRepo(t)

	if _, err := r.Commit("nothing"); !errors.Is(err, ErrNothingToCommit) {
		t.Fatalf("Commit with empty staging error = %v, want ErrNothingToCommit", err)
	}

	writeFile(t, r, "a.txt", "a")
	if err := r.Add("a.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("  "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("Commit with blank message error = %v, want ErrEmptyMessage", err)
	}
}

func TestCommit_IdentityIsDeterministic(t *testing.T) {
	a := newMemoryRepo(t)
	b := newMemoryRepo(t)
	ha := commitFiles(t, a, "same", map[string]string{"f": "content"})
	hb := commitFiles(t, b, "same", map[string]string{"f": "content"})
	if ha != hb {
		t.Fatalf("identical histories produced %s and %s", ha, hb)
	}
}

func TestLog_LinearChain(t *testing.T) {
	r := newMemoryRepo(t)
	root := mustHead(t, r)

	var chain []object.Hash
	for _, content := range []string{"1", "2", "3", "4"} {
		chain = append(chain, commitFiles(t, r, "commit "+content, map[string]string{"f": content}))
	}

	entries, err := r.Log(mustHead(t, r), 0)
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(entries) != len(chain)+1 {
		t.Fatalf("Log returned %d entries, want %d", len(entries), len(chain)+1)
	}
	for i, h := range chain {
		if got := entries[len(chain)-1-i].Hash; got != h {
			t.Fatalf("entry %d = %s, want %s", len(chain)-1-i, got, h)
		}
	}
	if entries[len(entries)-1].Hash != root {
		t.Fatalf("last entry = %s, want root", entries[len(entries)-1].Hash)
	}

	limited, err := r.Log(mustHead(t, r), 2)
	if err != nil {
		t.Fatalf("Log(limit): %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("Log(limit 2) returned %d entries", len(limited))
	}

	base, err := r.CommonAncestor(chain[len(chain)-1], chain[0])
	if err != nil {
		t.Fatalf("CommonAncestor: %v", err)
	}
	if base != chain[0] {
		t.Fatalf("CommonAncestor(tip, first) = %s, want %s", base, chain[0])
	}
}

func TestGlobalLogAndFind(t *testing.T) {
	r := newMemoryRepo(t)
	a := commitFiles(t, r, "shared", map[string]string{"f": "1"})
	mustBranch(t, r, "other")
	mustCheckout(t, r, "other")
	b := commitFiles(t, r, "shared", map[string]string{"f": "2"})
	commitFiles(t, r, "unique", map[string]string{"f": "3"})

	all, err := r.GlobalLog()
	if err != nil {
		t.Fatalf("GlobalLog: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("GlobalLog returned %d commits, want 4", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Hash >= all[i].Hash {
			t.Fatalf("GlobalLog not sorted by digest")
		}
	}

	found, err := r.Find("shared")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("Find returned %v", found)
	}
	want := map[object.Hash]bool{a: true, b: true}
	for _, h := range found {
		if !want[h] {
			t.Fatalf("Find returned unexpected %s", h)
		}
	}

	if _, err := r.Find("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Find(missing) error = %v, want ErrNotFound", err)
	}
}
