package integration

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/iam-in-go/db"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server"
)

const testSigningKey = "integration-test-signing-key"

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB            *gorm.DB
	RawDB         *sql.DB
	Container     testcontainers.Container
	ServerURL     string
	DatabaseURL   string
	SigningKey    string
	HTTPClient    *http.Client
	Cancel        context.CancelFunc
	ServerProcess *exec.Cmd
	InlineServer  *server.Server
	InlineMode    bool
	BinaryPath    string
}

// NewTestContext creates a new test context with PostgreSQL testcontainer.
// Modes:
//   - Binary mode (default): Set IAM_BINARY to the path of the iamctl binary
//   - Inline mode: Set IAM_INLINE=1 to run the server in-process (no binary needed)
func NewTestContext(ctx context.Context) (*TestContext, error) {
	inlineMode := os.Getenv("IAM_INLINE") == "1"
	binaryPath := os.Getenv("IAM_BINARY")

	if !inlineMode && binaryPath == "" {
		return nil, fmt.Errorf("Either IAM_BINARY or IAM_INLINE=1 is required.\n\nBinary mode:\n  go build -o iamctl ./cmd/iamctl\n  INTEGRATION_TEST=1 IAM_BINARY=$(pwd)/iamctl go test -v ./test/integration/...\n\nInline mode:\n  INTEGRATION_TEST=1 IAM_INLINE=1 go test -v ./test/integration/...")
	}

	if !inlineMode {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("IAM_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("iam_test"),
		tcpostgres.WithUsername("iam"),
		tcpostgres.WithPassword("iam"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := runMigrations(connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	gdb, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rawDB, err := gdb.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	tc := &TestContext{
		DB:          gdb,
		RawDB:       rawDB,
		Container:   pgContainer,
		DatabaseURL: connStr,
		SigningKey:  testSigningKey,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		InlineMode:  inlineMode,
		BinaryPath:  binaryPath,
	}

	instance, err := StartServer(tc, DefaultServerConfig())
	if err != nil {
		tc.Close(ctx)
		return nil, err
	}
	tc.ServerURL = instance.ServerURL
	tc.InlineServer = instance.Server
	tc.ServerProcess = instance.serverProcess
	tc.Cancel = instance.Stop

	return tc, nil
}

// runMigrations applies the embedded migrations with golang-migrate
func runMigrations(dbURL string) error {
	migrationsFS, err := fs.Sub(db.Migrations, "migrations")
	if err != nil {
		return err
	}
	source, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// freePort asks the kernel for an unused port
func freePort() (string, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	defer func() { _ = l.Close() }()
	return strconv.Itoa(l.Addr().(*net.TCPAddr).Port), nil
}

// waitForServer polls the health endpoint until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Reset empties every table between scenarios
func (tc *TestContext) Reset() error {
	return tc.DB.Exec(`TRUNCATE tenant_role_permissions, tenant_role_users, active_tenants,
		tenant_roles, permissions, actions, resources, roles, tenants RESTART IDENTITY CASCADE`).Error
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Cancel != nil {
		tc.Cancel()
	}
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}
