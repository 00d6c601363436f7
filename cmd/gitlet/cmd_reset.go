package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <commit>",
		Short: "Move the current branch to a commit and check it out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			h, err := r.Reset(args[0])
			if err != nil {
				return err
			}
			if verbose(cmd) {
				fmt.Fprintf(cmd.OutOrStdout(), "HEAD is now at %s\n", h.Short(7))
			}
			return nil
		},
	}
}
