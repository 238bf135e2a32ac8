package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/iam-in-go/pkg/config"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/endpoints"
)

// ServerConfig holds the settings a scenario may vary per server
type ServerConfig struct {
	PageSizeMax    int
	MetricsEnabled bool
}

// DefaultServerConfig returns the default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		PageSizeMax:    config.Default().PageSizeMax,
		MetricsEnabled: true,
	}
}

// ServerInstance represents a running IAM server
type ServerInstance struct {
	Server        *server.Server
	ServerURL     string
	Config        ServerConfig
	serverProcess *exec.Cmd
	cancel        context.CancelFunc
}

// StartServer starts a server on the test database, in-process or from the
// iamctl binary depending on how the suite was started
func StartServer(tc *TestContext, cfg ServerConfig) (*ServerInstance, error) {
	port, err := freePort()
	if err != nil {
		return nil, err
	}

	var instance *ServerInstance
	if tc.InlineMode {
		instance, err = startInlineServerInstance(tc, cfg, port)
	} else {
		instance, err = startBinaryServerInstance(tc, cfg, port)
	}
	if err != nil {
		return nil, err
	}

	if err := waitForServer(instance.ServerURL, 30*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}
	return instance, nil
}

func startInlineServerInstance(tc *TestContext, cfg ServerConfig, port string) (*ServerInstance, error) {
	iamCfg := config.Default()
	iamCfg.TokenSigningKey = tc.SigningKey
	iamCfg.PageSizeMax = cfg.PageSizeMax
	iamCfg.MetricsEnabled = cfg.MetricsEnabled

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  tc.DatabaseURL,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s, err := server.NewServer(iamCfg, gdb, zap.NewNop(), "127.0.0.1", port)
	if err != nil {
		return nil, err
	}
	endpoints.RegisterAll(s)

	go func() {
		_ = s.Start()
	}()

	return &ServerInstance{
		Server:    s,
		ServerURL: "http://127.0.0.1:" + port,
		Config:    cfg,
		cancel: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = s.Shutdown(ctx)
		},
	}, nil
}

func startBinaryServerInstance(tc *TestContext, cfg ServerConfig, port string) (*ServerInstance, error) {
	ctx, cancel := context.WithCancel(context.Background())

	// migrations already ran in the test setup
	cmd := exec.CommandContext(ctx, tc.BinaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", port)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+tc.DatabaseURL,
		"IAM_TOKEN_SIGNING_KEY="+tc.SigningKey,
		"IAM_PAGE_SIZE_MAX="+strconv.Itoa(cfg.PageSizeMax),
		"IAM_METRICS_ENABLED="+strconv.FormatBool(cfg.MetricsEnabled),
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start binary: %w", err)
	}

	return &ServerInstance{
		ServerURL:     "http://127.0.0.1:" + port,
		Config:        cfg,
		serverProcess: cmd,
		cancel:        cancel,
	}, nil
}

// Stop shuts the server down
func (si *ServerInstance) Stop() {
	if si.cancel != nil {
		si.cancel()
	}
	if si.serverProcess != nil && si.serverProcess.Process != nil {
		_ = si.serverProcess.Process.Kill()
		_ = si.serverProcess.Wait()
	}
}
