// Package storage is the persistence layer underneath a gitlet repository.
// It stores opaque byte values under (namespace, key) pairs and knows
// nothing about objects, refs or staging.
package storage

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotExist is returned when a key is absent from its namespace.
var ErrNotExist = errors.New("storage: key does not exist")

// Backend reads and writes values grouped into namespaces. Keys may contain
// forward slashes; List returns every key in a namespace, sorted.
type Backend interface {
	Read(namespace, key string) ([]byte, error)
	Write(namespace, key string, data []byte) error
	Exists(namespace, key string) (bool, error)
	Delete(namespace, key string) error
	List(namespace string) ([]string, error)
}

// validKey rejects keys that would escape their namespace.
func validKey(key string) error {
	if key == "" {
		return fmt.Errorf("storage: empty key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	clean := path.Clean(key)
	if clean != key || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	return nil
}
