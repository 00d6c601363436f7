package main

import (
	"github.com/spf13/cobra"

	"github.com/odvcencio/gitlet/pkg/repo"
)

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <branch> | -- <file> | <commit> -- <file>",
		Short: "Switch branches or restore a file",
		Long: `checkout <branch> switches to branch and replaces the working tree with
its tip. checkout -- <file> restores file from HEAD. checkout <commit> -- <file>
restores file from the commit with that (possibly abbreviated) id.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dash := cmd.ArgsLenAtDash()
			switch {
			case dash == -1 && len(args) == 1:
				return checkoutBranch(cmd, args[0])
			case dash == 0 && len(args) == 1:
				r, err := openRepo(cmd)
				if err != nil {
					return err
				}
				return r.CheckoutHeadFile(args[0])
			case dash == 1 && len(args) == 2:
				r, err := openRepo(cmd)
				if err != nil {
					return err
				}
				return r.CheckoutFile(args[0], args[1])
			default:
				return errIncorrectOperands()
			}
		},
	}
}

func checkoutBranch(cmd *cobra.Command, name string) error {
	r, err := openRepo(cmd)
	if err != nil {
		return err
	}
	err = r.CheckoutBranch(name)
	err = explain(err, repo.ErrNoSuchBranch, "No such branch exists.")
	return explain(err, repo.ErrCurrentBranch, "No need to checkout the current branch.")
}
