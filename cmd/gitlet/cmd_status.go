package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show branches, staged changes and working tree status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			st, err := r.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			section(out, "Branches")
			for _, b := range st.Branches {
				if b == st.CurrentBranch {
					fmt.Fprintf(out, "*%s\n", b)
				} else {
					fmt.Fprintln(out, b)
				}
			}
			fmt.Fprintln(out)

			section(out, "Staged Files")
			for _, p := range st.Staged {
				fmt.Fprintln(out, p)
			}
			fmt.Fprintln(out)

			section(out, "Removed Files")
			for _, p := range st.Removed {
				fmt.Fprintln(out, p)
			}
			fmt.Fprintln(out)

			section(out, "Modifications Not Staged For Commit")
			for _, m := range st.Modified {
				fmt.Fprintf(out, "%s (%s)\n", m.Path, m.Kind)
			}
			fmt.Fprintln(out)

			section(out, "Untracked Files")
			for _, p := range st.Untracked {
				fmt.Fprintln(out, p)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "=== %s ===\n", title)
}
