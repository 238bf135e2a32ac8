package endpoints

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/iam-in-go/pkg/config"
)

func newMockTestServer(t *testing.T) (*MockDB, func(req *http.Request) *httptest.ResponseRecorder, string) {
	t.Helper()
	cfg := config.Default()
	cfg.TokenSigningKey = testSigningKey

	s, mockDB, err := NewMockTestServer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mockDB.VerifyExpectations())
		_ = mockDB.Close()
	})

	pair, err := s.Issuer.Issue(17)
	require.NoError(t, err)

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		s.Router.ServeHTTP(w, req)
		return w
	}
	return mockDB, serve, "Bearer " + pair.AccessToken
}

func TestMockTestServer(t *testing.T) {
	t.Run("count through the gorm store", func(t *testing.T) {
		mockDB, serve, bearer := newMockTestServer(t)
		mockDB.ExpectTenantRoleCount(4)

		req := httptest.NewRequest("GET", "/tenantrole/count", nil)
		req.Header.Set("Authorization", bearer)
		w := serve(req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "4", w.Body.String())
	})

	t.Run("tenant role by id", func(t *testing.T) {
		mockDB, serve, bearer := newMockTestServer(t)
		mockDB.ExpectTenantRoleQuery(7, 2, 4)

		req := httptest.NewRequest("GET", "/tenantrole/7", nil)
		req.Header.Set("Authorization", bearer)
		w := serve(req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"roleId":4`)
	})

	t.Run("missing tenant role", func(t *testing.T) {
		mockDB, serve, bearer := newMockTestServer(t)
		mockDB.ExpectTenantRoleNotFound()

		req := httptest.NewRequest("GET", "/tenantrole/7", nil)
		req.Header.Set("Authorization", bearer)
		w := serve(req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("health reflects the database", func(t *testing.T) {
		mockDB, serve, _ := newMockTestServer(t)
		mockDB.ExpectHealthCheck(errors.New("connection reset"))

		w := serve(httptest.NewRequest("GET", "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
