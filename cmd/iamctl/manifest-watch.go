package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/iam-in-go/pkg/manifest"
)

var manifestWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a manifest and apply it whenever it changes",
	Long: `Watch a manifest and apply it whenever it changes.

The manifest is applied once on start and again each time the file is
written or replaced. Errors are reported and the watch continues.

Example:
  iamctl manifest watch /run/iam/assignments.yml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, logger, err := newManifestLoader(false)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes\n", args[0])
		return loader.Watch(ctx, args[0], func(result *manifest.Result, err error) {
			stamp := time.Now().Format(time.RFC3339)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "[%s] Error applying manifest: %v\n", stamp, err)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] ", stamp)
			printResult(cmd, result)
		})
	},
}

func init() {
	manifestCmd.AddCommand(manifestWatchCmd)
}
