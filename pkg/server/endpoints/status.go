package endpoints

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/iam-in-go/pkg/logging"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/store"
)

// Version is reported by the status endpoints. Overridden at build time with
// -ldflags "-X github.com/doodlesbykumbi/iam-in-go/pkg/server/endpoints.Version=..."
var Version = "0.1.0"

const healthCheckTimeout = 2 * time.Second

// StatusResponse is the JSON form of the status page
type StatusResponse struct {
	Version  string `json:"version"`
	Status   string `json:"status"`
	Database string `json:"database"`
}

type statusPage struct {
	Version        string
	Status         string
	Database       string
	Uptime         string
	MetricsEnabled bool
}

var statusTemplate = template.Must(template.ParseFS(staticFiles, "static/status.md"))

var statusMarkdown = goldmark.New(goldmark.WithExtensions(extension.Table))

const statusHead = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width">
    <link rel="stylesheet" href="/css/status-page.css">
    <title>IAM Status</title>
  </head>
  <body>
    <main>
`

const statusFoot = `    </main>
  </body>
</html>
`

// RegisterStatusEndpoints registers the status page and the health check
func RegisterStatusEndpoints(s *server.Server) {
	started := time.Now()

	// GET / - Status page (no auth required)
	s.Router.HandleFunc("/", handleStatus(s.HealthStore, started, s.Config.MetricsEnabled)).Methods("GET")

	// GET /health - 200 while the database is reachable, 503 otherwise
	s.Router.HandleFunc("/health", handleHealth(s.HealthStore)).Methods("GET")
}

func checkDatabase(ctx context.Context, health store.HealthStore) error {
	if health == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return health.CheckConnectivity(ctx)
}

func handleStatus(health store.HealthStore, started time.Time, metricsEnabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := statusPage{
			Version:        Version,
			Status:         "running",
			Database:       "ok",
			Uptime:         time.Since(started).Truncate(time.Second).String(),
			MetricsEnabled: metricsEnabled,
		}
		if err := checkDatabase(r.Context(), health); err != nil {
			logging.FromContext(r.Context()).Warn("database check failed", zap.Error(err))
			page.Status = "degraded"
			page.Database = "unreachable"
		}

		// Check if JSON is requested via Accept header or format query param
		accept := r.Header.Get("Accept")
		format := r.URL.Query().Get("format")
		if format == "json" || strings.Contains(accept, "application/json") {
			respondWithJSON(w, http.StatusOK, StatusResponse{
				Version:  page.Version,
				Status:   page.Status,
				Database: page.Database,
			})
			return
		}

		var md, body bytes.Buffer
		if err := statusTemplate.Execute(&md, page); err != nil {
			respondWithError(w, r, err)
			return
		}
		if err := statusMarkdown.Convert(md.Bytes(), &body); err != nil {
			respondWithError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(statusHead))
		_, _ = w.Write(body.Bytes())
		_, _ = w.Write([]byte(statusFoot))
	}
}

func handleHealth(health store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := checkDatabase(r.Context(), health); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, StatusResponse{
				Version:  Version,
				Status:   "error",
				Database: "unreachable",
			})
			return
		}
		respondWithJSON(w, http.StatusOK, StatusResponse{Version: Version, Status: "ok", Database: "ok"})
	}
}
