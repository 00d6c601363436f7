package repo

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"sort"
)

// ModificationKind says how a working-tree file diverges from what would be
// committed.
type ModificationKind string

const (
	Modified ModificationKind = "modified"
	Deleted  ModificationKind = "deleted"
)

// Modification is a change in the working tree not staged for commit.
type Modification struct {
	Path string
	Kind ModificationKind
}

// StatusReport describes the repository state. Every list is sorted.
type StatusReport struct {
	Branches      []string
	CurrentBranch string
	Staged        []string
	Removed       []string
	Modified      []Modification
	Untracked     []string
}

// Status compares HEAD, the staging area and the working tree.
func (r *Repo) Status() (*StatusReport, error) {
	branches, err := r.ListBranches()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	current, err := r.CurrentBranch()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	_, head, err := r.HeadCommit()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	stg, err := r.ReadStaging()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	files, err := r.Tree.List()
	if err != nil {
		return nil, fmt.Errorf("status: list working tree: %w", err)
	}

	report := &StatusReport{
		Branches:      branches,
		CurrentBranch: current,
		Staged:        slices.Sorted(maps.Keys(stg.Add)),
		Removed:       slices.Sorted(maps.Keys(stg.Remove)),
	}

	work := make(map[string][]byte, len(files))
	for _, p := range files {
		data, err := r.Tree.Read(p)
		if err != nil {
			return nil, fmt.Errorf("status: read %s: %w", p, err)
		}
		work[p] = data
	}

	for p, tracked := range head.Files {
		_, staged := stg.Add[p]
		_, removed := stg.Remove[p]
		if staged || removed {
			continue
		}
		data, ok := work[p]
		switch {
		case !ok:
			report.Modified = append(report.Modified, Modification{Path: p, Kind: Deleted})
		case r.Store.BlobID(data) != tracked:
			report.Modified = append(report.Modified, Modification{Path: p, Kind: Modified})
		}
	}
	for p, staged := range stg.Add {
		data, ok := work[p]
		switch {
		case !ok:
			report.Modified = append(report.Modified, Modification{Path: p, Kind: Deleted})
		case !bytes.Equal(data, staged):
			report.Modified = append(report.Modified, Modification{Path: p, Kind: Modified})
		}
	}
	sort.Slice(report.Modified, func(i, j int) bool {
		return report.Modified[i].Path < report.Modified[j].Path
	})

	for _, p := range files {
		_, staged := stg.Add[p]
		_, tracked := head.Files[p]
		_, removed := stg.Remove[p]
		if (!staged && !tracked) || removed {
			report.Untracked = append(report.Untracked, p)
		}
	}
	return report, nil
}

// Clean reports whether nothing is staged and the working tree matches HEAD
// for every tracked file.
func (s *StatusReport) Clean() bool {
	return len(s.Staged) == 0 && len(s.Removed) == 0 && len(s.Modified) == 0
}
