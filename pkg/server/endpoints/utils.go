package endpoints

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/logging"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server"
)

const defaultPageSize = 10

func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errdefs.NewErrorResponse(err)
	if status == http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	respondWithJSON(w, status, body)
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errdefs.InvalidArgument("malformed request body: %v", err)
	}
	return nil
}

// pathID reads the {id} route variable
func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errdefs.InvalidArgument("id %q is not a number", raw)
	}
	return id, nil
}

// optionalID reads an optional numeric query parameter
func optionalID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errdefs.InvalidArgument("%s %q is not a number", name, raw)
	}
	return &id, nil
}

// requiredID reads a mandatory numeric query parameter
func requiredID(r *http.Request, name string) (int64, error) {
	id, err := optionalID(r, name)
	if err != nil {
		return 0, err
	}
	if id == nil {
		return 0, errdefs.InvalidArgument("%s is required", name)
	}
	return *id, nil
}

// requiredIDs reads the comma separated ids of a query parameter
func requiredIDs(r *http.Request, name string) ([]int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, errdefs.InvalidArgument("%s is required", name)
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, errdefs.InvalidArgument("%s: %q is not a number", name, part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// paging reads pageNo and pageSize, defaulting to the first page of ten.
// pageSize is capped by max.
func paging(r *http.Request, max int) (int, int, error) {
	pageNo, err := intParam(r, "pageNo", 1)
	if err != nil {
		return 0, 0, err
	}
	pageSize, err := intParam(r, "pageSize", defaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	if max > 0 && pageSize > max {
		return 0, 0, errdefs.InvalidArgument("pageSize %d exceeds the maximum of %d", pageSize, max)
	}
	return pageNo, pageSize, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errdefs.InvalidArgument("%s %q is not a number", name, raw)
	}
	return v, nil
}

func boolParam(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

// respondWithDeleted answers a delete by id with true, or 404 when no row
// was removed
func respondWithDeleted(w http.ResponseWriter, r *http.Request, what string, id int64, deleted bool, err error) {
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	if !deleted {
		respondWithError(w, r, errdefs.NotFound("%s %d", what, id))
		return
	}
	respondWithJSON(w, http.StatusOK, true)
}

// protectedRoutes registers routes below a path prefix behind the JWT
// middleware. Each route is added to the root router with its full path: a
// PathPrefix("/tenantrole") subrouter would also match /tenantrolepermission.
type protectedRoutes struct {
	s      *server.Server
	prefix string
}

func newProtectedRoutes(s *server.Server, prefix string) protectedRoutes {
	return protectedRoutes{s: s, prefix: prefix}
}

func (p protectedRoutes) handle(method, path string, h http.HandlerFunc) {
	p.s.Router.Handle(p.prefix+path, p.s.JWTMiddleware.Middleware(h)).Methods(method)
}
