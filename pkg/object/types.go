package object

import "sort"

// Hash is a lowercase hex-encoded digest produced by a Hasher.
type Hash string

// Short returns the first n characters of h, or all of h when shorter.
func (h Hash) Short(n int) string {
	if len(h) <= n {
		return string(h)
	}
	return string(h[:n])
}

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeCommit ObjectType = "commit"
)

// TimeLayout is the layout commit timestamps are rendered with.
const TimeLayout = "Mon Jan 02 15:04:05 2006 -0700"

// Snapshot maps a tracked path to the blob holding its content at one
// commit.
type Snapshot map[string]Hash

// Paths returns the snapshot's paths in lexicographic order.
func (s Snapshot) Paths() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Clone returns an independent copy of s. A nil snapshot clones to an empty
// one.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for p, h := range s {
		out[p] = h
	}
	return out
}

// Commit is one node of the history graph.
//
// Its identity covers Message, Parent, Timestamp and the blob hashes of
// Files in path order. SecondParent is recorded for merge commits but is
// deliberately outside the identity.
type Commit struct {
	Message      string
	Timestamp    string
	Parent       Hash
	SecondParent Hash
	Files        Snapshot
}

// Parents returns the non-empty parent hashes, first parent first.
func (c *Commit) Parents() []Hash {
	var out []Hash
	if c.Parent != "" {
		out = append(out, c.Parent)
	}
	if c.SecondParent != "" {
		out = append(out, c.SecondParent)
	}
	return out
}

// IsMerge reports whether c has two parents.
func (c *Commit) IsMerge() bool {
	return c.SecondParent != ""
}
