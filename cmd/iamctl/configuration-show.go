package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/iam-in-go/pkg/config"
)

var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show IAM configuration attributes and their sources",
	Long: `Show IAM configuration attributes and their sources.

The values displayed by this command reflect the current state of the
configuration sources, that is the environment variables and config file.
These may not reflect the values used by a running IAM server.

Config file location: /etc/iam/config/iam.yml (or IAM_CONFIG_PATH)

Example:
  iamctl configuration show
  iamctl configuration show --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		return showConfiguration(cmd.OutOrStdout(), config.Get(), output)
	},
}

var configurationValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the IAM configuration for errors",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		if err := cfg.Validate(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
		return nil
	},
}

func init() {
	configurationCmd.AddCommand(configurationShowCmd)
	configurationCmd.AddCommand(configurationValidateCmd)
	configurationShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func showConfiguration(w io.Writer, cfg *config.IAMConfig, output string) error {
	switch output {
	case "json":
		jsonOutput, err := cfg.FormatJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, jsonOutput)
		return err
	case "text":
		_, err := fmt.Fprint(w, cfg.FormatText())
		return err
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
