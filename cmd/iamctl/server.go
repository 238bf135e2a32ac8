package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/iam-in-go/pkg/config"
	"github.com/doodlesbykumbi/iam-in-go/pkg/db"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/endpoints"
)

const shutdownTimeout = 10 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the IAM application server",
	Long: `Run the IAM application server.

To run the server requires the environment variables IAM_TOKEN_SIGNING_KEY
and DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		return runServer(cmd.Context(), host, port, !noMigrate)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

func runServer(ctx context.Context, host, port string, migrateFirst bool) error {
	cfg := config.Get()
	if cfg.TokenSigningKey == "" {
		return fmt.Errorf("IAM_TOKEN_SIGNING_KEY environment variable is required")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if db.URL() == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if migrateFirst {
		logger.Info("running database migrations")
		if err := runMigrations(os.Stdout); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	database, err := db.Connect(db.Config{LogLevel: cfg.LogLevel})
	if err != nil {
		return err
	}

	s, err := server.NewServer(cfg, database, logger, host, port)
	if err != nil {
		return err
	}
	endpoints.RegisterAll(s)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}
