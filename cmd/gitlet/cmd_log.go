package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/odvcencio/gitlet/pkg/repo"
)

func newLogCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show first-parent history from HEAD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			head, err := r.Head()
			if err != nil {
				return err
			}
			entries, err := r.Log(head, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				printLogEntry(out, e)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "max-count", "n", 0, "show at most n commits")

	return cmd
}

func newGlobalLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "global-log",
		Short: "Show every commit ever made",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			entries, err := r.GlobalLog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				printLogEntry(out, e)
			}
			return nil
		},
	}
}

func printLogEntry(w io.Writer, e repo.LogEntry) {
	fmt.Fprintln(w, "===")
	fmt.Fprintf(w, "commit %s\n", e.Hash)
	if e.Commit.IsMerge() {
		fmt.Fprintf(w, "Merge: %s %s\n", e.Commit.Parent.Short(7), e.Commit.SecondParent.Short(7))
	}
	fmt.Fprintf(w, "Date: %s\n", e.Commit.Timestamp)
	fmt.Fprintln(w, e.Commit.Message)
	fmt.Fprintln(w)
}
