package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/iam-in-go/pkg/config"
	"github.com/doodlesbykumbi/iam-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/association"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/iam-in-go/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/iam-in-go/pkg/token"
)

// Server wires the router, stores and services of the IAM API
type Server struct {
	Router *mux.Router
	DB     *gorm.DB
	Config *config.IAMConfig
	Logger *zap.Logger

	Issuer        *token.Issuer
	JWTMiddleware *middleware.JWTAuthenticator

	TenantRoleStore           store.TenantRoleStore
	TenantRolePermissionStore store.TenantRolePermissionStore
	TenantRoleUserStore       store.TenantRoleUserStore
	ActiveTenantStore         store.ActiveTenantStore
	TenantStore               store.TenantStore
	RoleStore                 store.RoleStore
	PermissionStore           store.PermissionStore
	HealthStore               store.HealthStore

	Associations *association.Service

	srv *http.Server
}

// NewServer creates a server backed by the gorm stores on db
func NewServer(
	cfg *config.IAMConfig,
	db *gorm.DB,
	logger *zap.Logger,
	host string,
	port string,
) (*Server, error) {
	issuer, err := token.NewIssuer([]byte(cfg.TokenSigningKey), cfg.AccessTTL(), cfg.RefreshTTL())
	if err != nil {
		return nil, err
	}

	s := newServer(cfg, logger, issuer, host, port)
	s.DB = db
	s.TenantRoleStore = gormstore.NewTenantRoleStore(db)
	s.TenantRolePermissionStore = gormstore.NewTenantRolePermissionStore(db)
	s.TenantRoleUserStore = gormstore.NewTenantRoleUserStore(db)
	s.ActiveTenantStore = gormstore.NewActiveTenantStore(db)
	s.TenantStore = gormstore.NewTenantStore(db)
	s.RoleStore = gormstore.NewRoleStore(db)
	s.PermissionStore = gormstore.NewPermissionStore(db)
	s.HealthStore = gormstore.NewHealthStore(db)
	s.WireServices()

	return s, nil
}

// NewServerWithStores creates a server whose stores are set by the caller,
// who then calls WireServices. Used by tests.
func NewServerWithStores(cfg *config.IAMConfig, logger *zap.Logger, issuer *token.Issuer) *Server {
	return newServer(cfg, logger, issuer, "127.0.0.1", "0")
}

func newServer(cfg *config.IAMConfig, logger *zap.Logger, issuer *token.Issuer, host, port string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := mux.NewRouter().UseEncodedPath()
	router.Use(middleware.RequestID(logger), metrics.Middleware)

	jwtMiddleware := middleware.NewJWTAuthenticator(issuer)
	jwtMiddleware.TrustedProxy = cfg.IsTrustedProxy

	srv := &http.Server{
		Handler: handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(
			handlers.LoggingHandler(os.Stdout, router),
		),
		Addr:         host + ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:        router,
		Config:        cfg,
		Logger:        logger,
		Issuer:        issuer,
		JWTMiddleware: jwtMiddleware,
		srv:           srv,
	}
}

// WireServices builds the services on top of the configured stores
func (s *Server) WireServices() {
	s.Associations = association.NewService(association.Stores{
		TenantRoles:           s.TenantRoleStore,
		TenantRolePermissions: s.TenantRolePermissionStore,
		TenantRoleUsers:       s.TenantRoleUserStore,
		ActiveTenants:         s.ActiveTenantStore,
		Tenants:               s.TenantStore,
		Roles:                 s.RoleStore,
	}, s.Logger)
}

// Addr is the address the server listens on
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Start listens until Shutdown is called
func (s *Server) Start() error {
	s.Logger.Info("listening", zap.String("addr", s.srv.Addr))
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
