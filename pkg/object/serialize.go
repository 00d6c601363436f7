package object

import (
	"bytes"
	"fmt"
	"strings"
)

// MarshalCommit serializes a Commit:
//
//	parent H        (omitted for the root commit)
//	merge H         (merge commits only)
//	timestamp T
//	file H path     (one per tracked path, sorted by path)
//
//	message
func MarshalCommit(c *Commit) []byte {
	var buf bytes.Buffer
	if c.Parent != "" {
		fmt.Fprintf(&buf, "parent %s\n", c.Parent)
	}
	if c.SecondParent != "" {
		fmt.Fprintf(&buf, "merge %s\n", c.SecondParent)
	}
	fmt.Fprintf(&buf, "timestamp %s\n", c.Timestamp)
	for _, p := range c.Files.Paths() {
		fmt.Fprintf(&buf, "file %s %s\n", c.Files[p], p)
	}
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// UnmarshalCommit parses a Commit from its serialized form.
func UnmarshalCommit(data []byte) (*Commit, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal commit: missing header/message separator")
	}
	header := string(data[:idx])
	c := &Commit{
		Message: string(data[idx+2:]),
		Files:   make(Snapshot),
	}

	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: malformed header line %q", line)
		}
		switch key {
		case "parent":
			c.Parent = Hash(val)
		case "merge":
			c.SecondParent = Hash(val)
		case "timestamp":
			c.Timestamp = val
		case "file":
			h, p, ok := strings.Cut(val, " ")
			if !ok || h == "" || p == "" {
				return nil, fmt.Errorf("unmarshal commit: malformed file entry %q", val)
			}
			c.Files[p] = Hash(h)
		default:
			return nil, fmt.Errorf("unmarshal commit: unknown header key %q", key)
		}
	}
	return c, nil
}

// CommitIdentity returns the canonical bytes a commit's hash is computed
// over: message, first parent, timestamp and the concatenated blob hashes
// in path order. The second parent is not included, so a merge commit's
// identity is fixed before it is linked to the merged-in branch.
func CommitIdentity(c *Commit) []byte {
	var blobs strings.Builder
	for _, p := range c.Files.Paths() {
		blobs.WriteString(string(c.Files[p]))
	}

	var buf bytes.Buffer
	writeField(&buf, "message", c.Message)
	writeField(&buf, "parent", string(c.Parent))
	writeField(&buf, "timestamp", c.Timestamp)
	writeField(&buf, "blobs", blobs.String())
	return buf.Bytes()
}

// writeField length-prefixes each field so adjacent values cannot run
// together ambiguously.
func writeField(buf *bytes.Buffer, name, value string) {
	fmt.Fprintf(buf, "%s %d\n%s\n", name, len(value), value)
}
