package endpoints

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
)

func TestPartyEndpoints(t *testing.T) {
	t.Run("tenants by ids", func(t *testing.T) {
		ts := newTestServer(t)
		ts.tenants.On("GetByIDs", mock.Anything, []int64{1, 2}).Return([]model.Tenant{
			{ID: model.Ptr(int64(1)), Name: "acme", TenantType: model.TenantTypeRoot},
		}, nil)

		w := ts.do(t, http.MethodGet, "/tenant?ids=1,2", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"acme"`)
	})

	t.Run("ids are required", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do(t, http.MethodGet, "/role", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, errdefs.CodeInvalidArgument, decodeError(t, w).Code)
	})

	t.Run("unknown ids yield an empty list", func(t *testing.T) {
		ts := newTestServer(t)
		ts.lookups.On("GetByIDs", mock.Anything, []int64{99}).Return(nil, nil)

		w := ts.do(t, http.MethodGet, "/permission?ids=99", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("permissions page without ids", func(t *testing.T) {
		ts := newTestServer(t)
		ts.lookups.On("GetAll", mock.Anything, "tenant", 2, 5).Return(
			model.NewPage([]model.Permission{{ID: model.Ptr(int64(6)), Name: "tenant.read", ActionID: model.Ptr(int64(1))}}, 2, 5, 6), nil)

		w := ts.do(t, http.MethodGet, "/permission?search=tenant&pageNo=2&pageSize=5", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"totalPages":2`)
		assert.Contains(t, w.Body.String(), `"actionId":1`)
	})

	t.Run("permissions page above the size limit", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do(t, http.MethodGet, "/permission?pageSize=500", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("create role with a taken name", func(t *testing.T) {
		ts := newTestServer(t)
		ts.roles.On("Create", mock.Anything, mock.MatchedBy(func(r *model.Role) bool {
			return r.Name == "admin"
		})).Return(errdefs.UniquenessConflict("role admin"))

		w := ts.do(t, http.MethodPost, "/role", map[string]string{"name": "admin"})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("role by id", func(t *testing.T) {
		ts := newTestServer(t)
		ts.roles.On("Get", mock.Anything, int64(4)).Return(&model.Role{ID: model.Ptr(int64(4)), Name: "auditor"}, nil)

		w := ts.do(t, http.MethodGet, "/role/4", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"auditor"`)
	})

	t.Run("active tenants of a user", func(t *testing.T) {
		ts := newTestServer(t)
		ts.activeTenants.On("GetByUser", mock.Anything, int64(5)).Return([]model.ActiveTenant{
			{ID: model.Ptr(int64(1)), UserID: 5, TenantID: 2, IsTenantActive: true},
		}, nil)

		w := ts.do(t, http.MethodGet, "/activetenant?userId=5", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"isTenantActive":true`)
	})

	t.Run("resources by ids", func(t *testing.T) {
		ts := newTestServer(t)
		ts.lookups.On("GetResourcesByIDs", mock.Anything, []int64{3}).Return(nil, nil)

		w := ts.do(t, http.MethodGet, "/resource?ids=3", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})
}
