package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	return map[string]Backend{
		"dir":    NewDir(t.TempDir()),
		"memory": NewMemory(),
	}
}

func TestBackend_WriteReadRoundTrip(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Write("blobs", "abc", []byte("hello")))

			got, err := b.Read("blobs", "abc")
			require.NoError(t, err)
			assert.Equal(t, []byte("hello"), got)

			ok, err := b.Exists("blobs", "abc")
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestBackend_ReadMissing(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := b.Read("blobs", "missing")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotExist), "got %v", err)

			ok, err := b.Exists("blobs", "missing")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestBackend_NestedKeysListedSorted(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Write("stage/add", "src/b.txt", []byte("b")))
			require.NoError(t, b.Write("stage/add", "a.txt", []byte("a")))
			require.NoError(t, b.Write("stage/add", "src/a.txt", []byte("c")))
			require.NoError(t, b.Write("stage/remove", "z.txt", []byte("z")))

			keys, err := b.List("stage/add")
			require.NoError(t, err)
			assert.Equal(t, []string{"a.txt", "src/a.txt", "src/b.txt"}, keys)
		})
	}
}

func TestBackend_ListsTempLookingKeys(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Write("stage/add", ".tmp-notes", []byte("n")))
			require.NoError(t, b.Write("stage/add", "dir/.tmp-x", []byte("x")))
			require.NoError(t, b.Write("stage/add", ".tmp/inner", []byte("i")))

			keys, err := b.List("stage/add")
			require.NoError(t, err)
			assert.Equal(t, []string{".tmp-notes", ".tmp/inner", "dir/.tmp-x"}, keys)

			got, err := b.Read("stage/add", ".tmp-notes")
			require.NoError(t, err)
			assert.Equal(t, []byte("n"), got)
		})
	}
}

func TestDir_ListRootSkipsInFlightWrites(t *testing.T) {
	root := t.TempDir()
	d := NewDir(root)
	require.NoError(t, d.Write("", "HEAD", []byte("h")))
	require.NoError(t, os.WriteFile(filepath.Join(root, tmpDirName, "write-123"), []byte("partial"), 0o644))

	keys, err := d.List("")
	require.NoError(t, err)
	assert.Equal(t, []string{"HEAD"}, keys)
}

func TestBackend_DeleteIsIdempotent(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Write("refs", "main", []byte("h")))
			require.NoError(t, b.Delete("refs", "main"))
			require.NoError(t, b.Delete("refs", "main"))

			keys, err := b.List("refs")
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestBackend_ListMissingNamespace(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			keys, err := b.List("nothing-here")
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestBackend_RejectsEscapingKeys(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../x", "/abs", "a/../../b", "."} {
				assert.Error(t, b.Write("ns", key, []byte("x")), "key %q", key)
			}
		})
	}
}

func TestDir_DeletePrunesEmptyDirectories(t *testing.T) {
	root := t.TempDir()
	d := NewDir(root)

	require.NoError(t, d.Write("stage/add", "deep/nested/file.txt", []byte("x")))
	require.NoError(t, d.Delete("stage/add", "deep/nested/file.txt"))

	_, err := os.Stat(filepath.Join(root, "stage", "add", "deep"))
	assert.True(t, os.IsNotExist(err), "expected deep/ to be pruned, got %v", err)
}

func TestMemory_ReadReturnsCopy(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Write("ns", "k", []byte("abc")))

	got, err := m.Read("ns", "k")
	require.NoError(t, err)
	got[0] = 'z'

	again, err := m.Read("ns", "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
