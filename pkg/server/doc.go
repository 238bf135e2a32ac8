// Package server provides the HTTP server of the IAM API.
//
// The server routes with gorilla/mux, logs access with gorilla/handlers and
// holds the stores and the association service the endpoints work on.
//
// # Server Setup
//
//	srv, err := server.NewServer(cfg, db, logger, "0.0.0.0", "8000")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	endpoints.RegisterAll(srv)
//	log.Fatal(srv.Start())
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//   - /tenantrole - tenant roles, their lookups and checks
//   - /tenantrolepermission, /tenantroleuser - links and assignments
//   - /tenant, /role, /permission, /action, /resource, /activetenant
//   - /token - refresh grant
//   - /metrics - Prometheus metrics
package server
