package repo

import (
	"fmt"

	"github.com/odvcencio/gitlet/pkg/object"
)

const (
	maxMergeBaseBFSSteps = 1_000_000
	maxMergeBaseBFSDepth = 1_000_000
)

// These vars allow tests to tighten safety limits without affecting
// production defaults.
var (
	mergeBaseBFSStepsLimit = maxMergeBaseBFSSteps
	mergeBaseBFSDepthLimit = maxMergeBaseBFSDepth
)

type mergeBaseQueueItem struct {
	hash  object.Hash
	depth int
}

func mergeBaseTraversalLimits() (maxSteps int, maxDepth int) {
	maxSteps = normalizeMergeBaseTraversalLimit(mergeBaseBFSStepsLimit, maxMergeBaseBFSSteps)
	maxDepth = normalizeMergeBaseTraversalLimit(mergeBaseBFSDepthLimit, maxMergeBaseBFSDepth)
	return maxSteps, maxDepth
}

func normalizeMergeBaseTraversalLimit(limit, hardMax int) int {
	// Test hooks may only tighten the hard bounds.
	if limit <= 0 || limit > hardMax {
		return hardMax
	}
	return limit
}

// ancestorDistances runs a breadth-first walk from start over both parent
// edges and records the depth at which each ancestor is first seen. BFS
// visits by non-decreasing depth, so that depth is the minimum distance.
func (r *Repo) ancestorDistances(start object.Hash) (map[object.Hash]int, error) {
	maxSteps, maxDepth := mergeBaseTraversalLimits()

	dist := map[object.Hash]int{start: 0}
	queue := []mergeBaseQueueItem{{hash: start}}
	steps := 0
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		steps++
		if steps > maxSteps {
			return nil, fmt.Errorf("common ancestor: traversal exceeded maximum steps (%d)", maxSteps)
		}

		c, err := r.readCommit(item.hash)
		if err != nil {
			return nil, fmt.Errorf("common ancestor: read commit %s: %w", item.hash, err)
		}
		for _, p := range c.Parents() {
			if _, seen := dist[p]; seen {
				continue
			}
			next := item.depth + 1
			if next > maxDepth {
				return nil, fmt.Errorf("common ancestor: traversal exceeded maximum depth (%d)", maxDepth)
			}
			dist[p] = next
			queue = append(queue, mergeBaseQueueItem{hash: p, depth: next})
		}
	}
	return dist, nil
}

// CommonAncestor returns the merge base of two commits: the commit
// reachable from both that minimizes the sum of its distances from a and
// b. Ties go to the lexicographically smallest digest.
func (r *Repo) CommonAncestor(a, b object.Hash) (object.Hash, error) {
	if a == "" || b == "" {
		return "", fmt.Errorf("common ancestor: empty commit digest")
	}
	if a == b {
		return a, nil
	}

	distA, err := r.ancestorDistances(a)
	if err != nil {
		return "", err
	}
	distB, err := r.ancestorDistances(b)
	if err != nil {
		return "", err
	}

	var best object.Hash
	bestDist := -1
	for h, da := range distA {
		db, ok := distB[h]
		if !ok {
			continue
		}
		d := da + db
		if bestDist < 0 || d < bestDist || (d == bestDist && h < best) {
			best, bestDist = h, d
		}
	}
	if bestDist < 0 {
		return "", fmt.Errorf("common ancestor of %s and %s: %w", a.Short(12), b.Short(12), ErrNotFound)
	}
	return best, nil
}
