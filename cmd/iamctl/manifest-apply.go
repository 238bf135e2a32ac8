package main

import (
	"github.com/spf13/cobra"
)

var manifestApplyCmd = &cobra.Command{
	Use:   "apply <file>",
	Short: "Apply a manifest of assignments",
	Long: `Apply a manifest of assignments.

Assignments are applied before removals. Assigning an existing link and
removing a missing one are no-ops. Use --dry-run to validate the manifest
and print what would change without writing.

Example:
  iamctl manifest apply assignments.yml
  iamctl manifest apply --dry-run assignments.yml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		loader, logger, err := newManifestLoader(dryRun)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		result, err := loader.LoadFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printResult(cmd, result)
		return nil
	},
}

func init() {
	manifestCmd.AddCommand(manifestApplyCmd)
	manifestApplyCmd.Flags().Bool("dry-run", false, "validate without writing")
}
