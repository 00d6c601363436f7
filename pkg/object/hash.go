package object

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Hasher computes object digests with one fixed algorithm. The zero value
// is not usable; obtain one from NewHasher or use DefaultHasher.
type Hasher struct {
	name    string
	newHash func() hash.Hash
}

const (
	HashSHA256  = "sha256"
	HashSHA1    = "sha1"
	HashBlake2b = "blake2b"
)

// DefaultHasher is SHA-256.
var DefaultHasher = Hasher{name: HashSHA256, newHash: sha256.New}

// NewHasher returns the hasher registered under name. An empty name selects
// DefaultHasher.
func NewHasher(name string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", HashSHA256:
		return DefaultHasher, nil
	case HashSHA1:
		return Hasher{name: HashSHA1, newHash: sha1.New}, nil
	case HashBlake2b:
		return Hasher{name: HashBlake2b, newHash: newBlake2b256}, nil
	default:
		return Hasher{}, fmt.Errorf("unknown hash algorithm %q", name)
	}
}

func newBlake2b256() hash.Hash {
	// New256 only fails for keys longer than 64 bytes.
	h, _ := blake2b.New256(nil)
	return h
}

// Name returns the algorithm name as accepted by NewHasher.
func (h Hasher) Name() string {
	return h.name
}

// HexLen returns the length of the hex digests this hasher produces.
func (h Hasher) HexLen() int {
	return h.newHash().Size() * 2
}

// Object hashes the envelope "type len\0content", so a blob and a commit
// with identical payloads never share a digest.
func (h Hasher) Object(objType ObjectType, data []byte) Hash {
	d := h.newHash()
	fmt.Fprintf(d, "%s %d\x00", objType, len(data))
	d.Write(data)
	return Hash(hex.EncodeToString(d.Sum(nil)))
}
