package object

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/odvcencio/gitlet/pkg/storage"
)

var (
	// ErrNotFound is returned when no object matches a hash or prefix.
	ErrNotFound = errors.New("object not found")
	// ErrAmbiguous is returned when a hash prefix matches several commits.
	ErrAmbiguous = errors.New("ambiguous object prefix")
)

const (
	blobNamespace   = "objects/blobs"
	commitNamespace = "objects/commits"
)

// Store is an append-only content-addressed object store. Blobs and commits
// live in separate namespaces of a storage.Backend; each value is the
// envelope "type len\0content", optionally zstd-compressed.
type Store struct {
	backend  storage.Backend
	hasher   Hasher
	compress bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithHasher selects the digest algorithm. Defaults to DefaultHasher.
func WithHasher(h Hasher) StoreOption {
	return func(s *Store) { s.hasher = h }
}

// WithCompression makes new objects zstd-compressed on write. Reads detect
// compression per object regardless of this setting.
func WithCompression(enabled bool) StoreOption {
	return func(s *Store) { s.compress = enabled }
}

// NewStore creates a Store over backend.
func NewStore(backend storage.Backend, opts ...StoreOption) *Store {
	s := &Store{backend: backend, hasher: DefaultHasher}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BlobID returns the hash data would be stored under.
func (s *Store) BlobID(data []byte) Hash {
	return s.hasher.Object(TypeBlob, data)
}

// CommitID returns the identity hash of c.
func (s *Store) CommitID(c *Commit) Hash {
	return s.hasher.Object(TypeCommit, CommitIdentity(c))
}

// WriteBlob stores data and returns its hash. Writing the same bytes twice
// returns the same hash and leaves the store unchanged.
func (s *Store) WriteBlob(data []byte) (Hash, error) {
	h := s.BlobID(data)
	if err := s.put(blobNamespace, TypeBlob, h, data); err != nil {
		return "", err
	}
	return h, nil
}

// ReadBlob returns the content of blob h.
func (s *Store) ReadBlob(h Hash) ([]byte, error) {
	return s.get(blobNamespace, TypeBlob, h)
}

// WriteCommit stores c under its identity hash and returns that hash.
func (s *Store) WriteCommit(c *Commit) (Hash, error) {
	h := s.CommitID(c)
	if err := s.put(commitNamespace, TypeCommit, h, MarshalCommit(c)); err != nil {
		return "", err
	}
	return h, nil
}

// ReadCommit reads and deserializes commit h.
func (s *Store) ReadCommit(h Hash) (*Commit, error) {
	data, err := s.get(commitNamespace, TypeCommit, h)
	if err != nil {
		return nil, err
	}
	c, err := UnmarshalCommit(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return c, nil
}

// HasCommit reports whether commit h is stored.
func (s *Store) HasCommit(h Hash) bool {
	return s.has(commitNamespace, h)
}

// ListCommits returns the hash of every stored commit in lexicographic
// order.
func (s *Store) ListCommits() ([]Hash, error) {
	keys, err := s.backend.List(commitNamespace)
	if err != nil {
		return nil, fmt.Errorf("list commits: %w", err)
	}
	out := make([]Hash, 0, len(keys))
	for _, k := range keys {
		out = append(out, Hash(k))
	}
	return out, nil
}

// ResolveCommitPrefix expands a (possibly abbreviated) commit hash. A full
// hash that is stored resolves to itself without listing the store.
func (s *Store) ResolveCommitPrefix(prefix string) (Hash, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", fmt.Errorf("resolve commit %q: %w", prefix, ErrNotFound)
	}
	if len(prefix) == s.hasher.HexLen() && s.HasCommit(Hash(prefix)) {
		return Hash(prefix), nil
	}

	all, err := s.ListCommits()
	if err != nil {
		return "", err
	}
	var matches []Hash
	for _, h := range all {
		if strings.HasPrefix(string(h), prefix) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("resolve commit %q: %w", prefix, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("resolve commit %q: %d candidates: %w", prefix, len(matches), ErrAmbiguous)
	}
}

func (s *Store) has(namespace string, h Hash) bool {
	if h == "" {
		return false
	}
	ok, err := s.backend.Exists(namespace, string(h))
	return err == nil && ok
}

func (s *Store) put(namespace string, objType ObjectType, h Hash, data []byte) error {
	// Content addressing makes rewrites no-ops.
	if s.has(namespace, h) {
		return nil
	}

	raw := append([]byte(fmt.Sprintf("%s %d\x00", objType, len(data))), data...)
	if s.compress {
		compressed, err := compressZstd(raw)
		if err != nil {
			return fmt.Errorf("object write %s: compress: %w", h, err)
		}
		raw = compressed
	}
	if err := s.backend.Write(namespace, string(h), raw); err != nil {
		return fmt.Errorf("object write %s: %w", h, err)
	}
	return nil
}

func (s *Store) get(namespace string, want ObjectType, h Hash) ([]byte, error) {
	if h == "" {
		return nil, fmt.Errorf("object read: empty hash: %w", ErrNotFound)
	}
	raw, err := s.backend.Read(namespace, string(h))
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, fmt.Errorf("object read %s: %w", h, ErrNotFound)
		}
		return nil, fmt.Errorf("object read %s: %w", h, err)
	}
	if isZstdFrame(raw) {
		raw, err = decompressZstd(raw)
		if err != nil {
			return nil, fmt.Errorf("object read %s: decompress: %w", h, err)
		}
	}

	// Parse envelope: "type len\0content"
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return nil, fmt.Errorf("object read %s: invalid format (no NUL)", h)
	}
	header := string(raw[:nulIdx])
	content := raw[nulIdx+1:]

	typ, lenStr, ok := strings.Cut(header, " ")
	if !ok {
		return nil, fmt.Errorf("object read %s: invalid header %q", h, header)
	}
	if ObjectType(typ) != want {
		return nil, fmt.Errorf("object %s: type mismatch: got %q, want %q", h, typ, want)
	}
	length, err := strconv.Atoi(lenStr)
	if err != nil {
		return nil, fmt.Errorf("object read %s: invalid length %q: %w", h, lenStr, err)
	}
	if len(content) != length {
		return nil, fmt.Errorf("object read %s: length mismatch (header=%d, actual=%d)", h, length, len(content))
	}
	return content, nil
}
