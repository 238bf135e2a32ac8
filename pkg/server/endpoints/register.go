package endpoints

import (
	"github.com/doodlesbykumbi/iam-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterTokenEndpoints(srv)
	RegisterTenantRoleEndpoints(srv)
	RegisterTenantRolePermissionEndpoints(srv)
	RegisterTenantRoleUserEndpoints(srv)
	RegisterPartyEndpoints(srv)

	if srv.Config.MetricsEnabled {
		srv.Router.Handle("/metrics", metrics.Handler()).Methods("GET")
	}

	// Static files
	RegisterStaticFiles(srv)
}
