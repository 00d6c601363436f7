package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/gitlet/pkg/repo"
)

func newInitCmd() *cobra.Command {
	var (
		hash     string
		compress bool
		branch   string
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty gitlet repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}

			cfg := repo.DefaultConfig()
			cfg.Core.Hash = hash
			cfg.Core.DefaultBranch = branch
			if compress {
				cfg.Storage.Compression = "zstd"
			}

			r, err := repo.Init(path, cfg, repo.Options{Logger: newLogger(cmd)})
			if err != nil {
				return err
			}
			r.Logger.Debug("init", "path", r.RootDir)
			if verbose(cmd) {
				fmt.Fprintf(cmd.OutOrStdout(), "initialized empty gitlet repository in %s\n", r.MetaDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&hash, "hash", "sha256", "object digest algorithm (sha256, sha1, blake2b)")
	cmd.Flags().BoolVar(&compress, "compress", false, "store objects zstd-compressed")
	cmd.Flags().StringVar(&branch, "branch", "master", "name of the initial branch")

	return cmd
}
