// Package merge implements the whole-file three-way merge used when two
// lines of history are combined. It is pure: it reads blobs but never writes
// to a store, a working tree or a staging area.
package merge

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/odvcencio/gitlet/pkg/object"
)

// BlobSource supplies blob contents and hashes. *object.Store implements it.
type BlobSource interface {
	ReadBlob(h object.Hash) ([]byte, error)
	BlobID(data []byte) object.Hash
}

// Action is the resolution of one path.
type Action struct {
	Path     string
	Outcome  Outcome
	Base     object.Hash
	Current  object.Hash
	Incoming object.Hash
}

// Result holds the output of a snapshot-level three-way merge.
type Result struct {
	// Merged is the snapshot the merge commit will record.
	Merged object.Snapshot
	// Write maps a path to content that must be written to the working tree
	// and staged for addition (incoming changes, incoming additions and
	// conflict files).
	Write map[string][]byte
	// Remove lists paths to delete from the working tree and stage for
	// removal, sorted.
	Remove []string
	// Conflicts lists paths that received conflict markers, sorted.
	Conflicts []string
	// Actions has one entry per path in the union of the three snapshots,
	// sorted by path.
	Actions []Action
}

// HasConflict reports whether any path needed conflict markers.
func (r *Result) HasConflict() bool {
	return len(r.Conflicts) > 0
}

// Snapshots merges incoming into current relative to base.
func Snapshots(base, current, incoming object.Snapshot, blobs BlobSource) (*Result, error) {
	res := &Result{
		Merged: current.Clone(),
		Write:  make(map[string][]byte),
	}

	for _, path := range unionPaths(base, current, incoming) {
		act := Action{
			Path:     path,
			Base:     base[path],
			Current:  current[path],
			Incoming: incoming[path],
		}
		act.Outcome = Classify(act.Base, act.Current, act.Incoming)
		res.Actions = append(res.Actions, act)

		switch act.Outcome {
		case TakeIncoming, AddIncoming:
			data, err := blobs.ReadBlob(act.Incoming)
			if err != nil {
				return nil, fmt.Errorf("merge %q: read incoming: %w", path, err)
			}
			res.Write[path] = data
			res.Merged[path] = act.Incoming

		case Delete:
			res.Remove = append(res.Remove, path)
			delete(res.Merged, path)

		case Conflict:
			cur, err := readOptional(blobs, act.Current)
			if err != nil {
				return nil, fmt.Errorf("merge %q: read current: %w", path, err)
			}
			inc, err := readOptional(blobs, act.Incoming)
			if err != nil {
				return nil, fmt.Errorf("merge %q: read incoming: %w", path, err)
			}
			data := RenderConflict(cur, inc)
			res.Write[path] = data
			res.Merged[path] = blobs.BlobID(data)
			res.Conflicts = append(res.Conflicts, path)
		}
	}
	return res, nil
}

func readOptional(blobs BlobSource, h object.Hash) ([]byte, error) {
	if h == "" {
		return nil, nil
	}
	return blobs.ReadBlob(h)
}

// RenderConflict builds the marked file written for an unresolved path. A
// deleted side contributes empty content. Each side is terminated with a
// newline if it does not already end in one.
func RenderConflict(current, incoming []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("<<<<<<< HEAD\n")
	writeSide(&buf, current)
	buf.WriteString("=======\n")
	writeSide(&buf, incoming)
	buf.WriteString(">>>>>>>\n")
	return buf.Bytes()
}

func writeSide(buf *bytes.Buffer, data []byte) {
	buf.Write(data)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		buf.WriteByte('\n')
	}
}

// unionPaths returns a sorted, deduplicated list of all paths across the
// three snapshots.
func unionPaths(snaps ...object.Snapshot) []string {
	seen := make(map[string]struct{})
	for _, s := range snaps {
		for p := range s {
			seen[p] = struct{}{}
		}
	}
	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
