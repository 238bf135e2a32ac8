package endpoints

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/iam-in-go/pkg/audit"
	"github.com/doodlesbykumbi/iam-in-go/pkg/config"
	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/store/storetest"
	"github.com/doodlesbykumbi/iam-in-go/pkg/token"
)

const testSigningKey = "endpoint-test-signing-key"

type testServer struct {
	srv           *server.Server
	issuer        *token.Issuer
	tenantRoles   *storetest.TenantRoleStore
	permissions   *storetest.TenantRolePermissionStore
	users         *storetest.TenantRoleUserStore
	activeTenants *storetest.ActiveTenantStore
	tenants       *storetest.TenantStore
	roles         *storetest.RoleStore
	lookups       *storetest.PermissionStore
	health        *storetest.HealthStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := config.Default()
	cfg.TokenSigningKey = testSigningKey
	cfg.PageSizeMax = 50

	issuer, err := token.NewIssuer([]byte(testSigningKey), time.Minute, time.Hour)
	require.NoError(t, err)

	ts := &testServer{
		issuer:        issuer,
		tenantRoles:   new(storetest.TenantRoleStore),
		permissions:   new(storetest.TenantRolePermissionStore),
		users:         new(storetest.TenantRoleUserStore),
		activeTenants: new(storetest.ActiveTenantStore),
		tenants:       new(storetest.TenantStore),
		roles:         new(storetest.RoleStore),
		lookups:       new(storetest.PermissionStore),
		health:        new(storetest.HealthStore),
	}

	s := server.NewServerWithStores(cfg, nil, issuer)
	s.TenantRoleStore = ts.tenantRoles
	s.TenantRolePermissionStore = ts.permissions
	s.TenantRoleUserStore = ts.users
	s.ActiveTenantStore = ts.activeTenants
	s.TenantStore = ts.tenants
	s.RoleStore = ts.roles
	s.PermissionStore = ts.lookups
	s.HealthStore = ts.health
	s.WireServices()
	RegisterAll(s)
	ts.srv = s

	audit.SetEnabled(true)
	audit.DefaultLogger.SetWriter(io.Discard)

	t.Cleanup(func() {
		ts.tenantRoles.AssertExpectations(t)
		ts.permissions.AssertExpectations(t)
		ts.users.AssertExpectations(t)
		ts.activeTenants.AssertExpectations(t)
		ts.tenants.AssertExpectations(t)
		ts.roles.AssertExpectations(t)
		ts.lookups.AssertExpectations(t)
		ts.health.AssertExpectations(t)
	})
	return ts
}

// do sends an authenticated request as user 17
func (ts *testServer) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	pair, err := ts.issuer.Issue(17)
	require.NoError(t, err)

	req := newRequest(t, method, target, body)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(w, req)
	return w
}

// doAnonymous sends a request without credentials
func (ts *testServer) doAnonymous(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(w, req)
	return w
}

func newRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errdefs.ErrorDetail {
	t.Helper()
	var resp errdefs.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}
