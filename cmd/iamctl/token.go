package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/iam-in-go/pkg/config"
	"github.com/doodlesbykumbi/iam-in-go/pkg/token"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage API tokens",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'token' requires a subcommand (issue)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue <userId>",
	Short: "Issue an access and refresh token pair for a user",
	Long: `Issue an access and refresh token pair for a user.

The tokens are signed with IAM_TOKEN_SIGNING_KEY and printed as JSON.

Example:
  iamctl token issue 17`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || userID <= 0 {
			return fmt.Errorf("userId must be a positive integer, got %q", args[0])
		}
		return issueToken(cmd, config.Get(), userID)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenIssueCmd)
}

func issueToken(cmd *cobra.Command, cfg *config.IAMConfig, userID int64) error {
	if cfg.TokenSigningKey == "" {
		return fmt.Errorf("IAM_TOKEN_SIGNING_KEY environment variable is required")
	}
	issuer, err := token.NewIssuer([]byte(cfg.TokenSigningKey), cfg.AccessTTL(), cfg.RefreshTTL())
	if err != nil {
		return err
	}
	pair, err := issuer.Issue(userID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(pair)
}
