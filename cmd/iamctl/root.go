package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/iam-in-go/pkg/config"
	"github.com/doodlesbykumbi/iam-in-go/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "iamctl",
	Short: "Multi-tenant IAM server and administration tool",
	Long: `iamctl runs the IAM server and administers tenant roles and their
permission and user assignments.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := loadEnvFile(envFile); err != nil {
			return err
		}
		return config.Reload()
	},
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before reading configuration")
}

// loadEnvFile reads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// newLogger builds the process logger from cfg and installs it globally
func newLogger(cfg *config.IAMConfig) (*zap.Logger, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	logging.SetGlobal(logger)
	return logger, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
