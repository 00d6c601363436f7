package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/gitlet/pkg/repo"
)

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <branch>",
		Short: "Merge a branch into the current branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			res, err := r.Merge(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch res.Status {
			case repo.MergeUpToDate:
				fmt.Fprintln(out, "Given branch is an ancestor of the current branch.")
			case repo.MergeFastForward:
				fmt.Fprintln(out, "Current branch fast-forwarded.")
			case repo.MergeCommitted:
				if res.HasConflict() {
					fmt.Fprintln(out, "Encountered a merge conflict.")
				}
			}
			return nil
		},
	}
}
