package lazy

import (
	"context"
	"errors"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/iam-in-go/pkg/client"
	"github.com/doodlesbykumbi/iam-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
)

var (
	_ TenantRoleSource           = (*client.TenantRoleClient)(nil)
	_ TenantSource               = (*client.TenantClient)(nil)
	_ RoleSource                 = (*client.RoleClient)(nil)
	_ TenantRolePermissionSource = (*client.TenantRolePermissionClient)(nil)
	_ PermissionSource           = (*client.PermissionClient)(nil)
)

type mockTenantRoles struct{ mock.Mock }

func (m *mockTenantRoles) GetAll(ctx context.Context, filter client.TenantRoleQuery, pageNo, pageSize int) (*model.Page[model.TenantRole], error) {
	args := m.Called(ctx, filter, pageNo, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page[model.TenantRole]), args.Error(1)
}

type mockTenants struct{ mock.Mock }

func (m *mockTenants) GetByIDs(ctx context.Context, ids []int64) ([]model.Tenant, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tenant), args.Error(1)
}

type mockRoles struct{ mock.Mock }

func (m *mockRoles) GetByIDs(ctx context.Context, ids []int64) ([]model.Role, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Role), args.Error(1)
}

type mockLinks struct{ mock.Mock }

func (m *mockLinks) GetAll(ctx context.Context, tenantRoleID, permissionID *int64, pageNo, pageSize int) (*model.Page[model.TenantRolePermission], error) {
	args := m.Called(ctx, tenantRoleID, permissionID, pageNo, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page[model.TenantRolePermission]), args.Error(1)
}

type mockPermissions struct{ mock.Mock }

func (m *mockPermissions) GetByIDs(ctx context.Context, ids []int64) ([]model.Permission, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Permission), args.Error(1)
}

func tenantRole(id, tenantID, roleID int64) model.TenantRole {
	return model.TenantRole{ID: model.Ptr(id), TenantID: tenantID, RoleID: roleID}
}

func TestTenantRoleDataModel_Load(t *testing.T) {
	source := new(mockTenantRoles)
	tenants := new(mockTenants)
	roles := new(mockRoles)

	page := model.NewPage([]model.TenantRole{tenantRole(21, 5, 9), tenantRole(22, 5, 10)}, 3, 10, 23)
	source.On("GetAll", mock.Anything, client.TenantRoleQuery{TenantID: model.Ptr(int64(5))}, 3, 10).Return(page, nil).Once()
	tenants.On("GetByIDs", mock.Anything, []int64{5}).
		Return([]model.Tenant{{ID: model.Ptr(int64(5)), Name: "acme"}}, nil).Once()
	roles.On("GetByIDs", mock.Anything, []int64{9, 10}).
		Return([]model.Role{{ID: model.Ptr(int64(9)), Name: "admin"}}, nil).Once()

	m := NewTenantRoleDataModel(source, tenants, roles, nil)
	rows, err := m.Load(context.Background(), 23, 10, nil, Filter{"tenantId": "5"})
	require.NoError(t, err)

	assert.Len(t, rows, 2)
	assert.EqualValues(t, 23, m.RowCount())
	assert.Equal(t, "acme", m.TenantName(5))
	assert.Equal(t, "admin", m.RoleName(9))
	assert.Equal(t, Unknown, m.RoleName(10))

	// a second load of the same ids is served from the cache
	source.On("GetAll", mock.Anything, client.TenantRoleQuery{}, 1, 10).Return(model.NewPage([]model.TenantRole{tenantRole(21, 5, 9)}, 1, 10, 23), nil).Once()
	_, err = m.Load(context.Background(), 0, 10, nil, nil)
	require.NoError(t, err)

	source.AssertExpectations(t)
	tenants.AssertExpectations(t)
	roles.AssertExpectations(t)
}

func TestTenantRoleDataModel_EnrichmentFailure(t *testing.T) {
	source := new(mockTenantRoles)
	tenants := new(mockTenants)
	roles := new(mockRoles)

	source.On("GetAll", mock.Anything, client.TenantRoleQuery{}, 1, 10).
		Return(model.NewPage([]model.TenantRole{tenantRole(21, 5, 9)}, 1, 10, 1), nil)
	tenants.On("GetByIDs", mock.Anything, []int64{5}).Return(nil, errors.New("tenant service down"))

	m := NewTenantRoleDataModel(source, tenants, roles, nil)
	rows, err := m.Load(context.Background(), 0, 10, nil, nil)
	require.NoError(t, err)

	assert.Len(t, rows, 1)
	assert.Equal(t, Unknown, m.TenantName(5))
	assert.Equal(t, Unknown, m.RoleName(9))
}

func TestTenantRoleDataModel_BadFilter(t *testing.T) {
	source := new(mockTenantRoles)
	m := NewTenantRoleDataModel(source, new(mockTenants), new(mockRoles), nil)

	rows, err := m.Load(context.Background(), 0, 10, nil, Filter{"roleId": "admin"})
	require.NoError(t, err)
	assert.Empty(t, rows)
	source.AssertNotCalled(t, "GetAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTenantRolePermissionDataModel_Load(t *testing.T) {
	source := new(mockLinks)
	permissions := new(mockPermissions)

	tenantRoleID := model.Ptr(int64(12))
	page := model.NewPage([]model.TenantRolePermission{{ID: model.Ptr(int64(30)), TenantRoleID: 12, PermissionID: 42}}, 1, 5, 1)
	source.On("GetAll", mock.Anything, tenantRoleID, (*int64)(nil), 1, 5).Return(page, nil)
	permissions.On("GetByIDs", mock.Anything, []int64{42}).
		Return([]model.Permission{{ID: model.Ptr(int64(42)), Name: "tenant.read"}}, nil)

	m := NewTenantRolePermissionDataModel(source, permissions, nil)
	m.SetTenantRoleID(tenantRoleID)

	rows, err := m.Load(context.Background(), 0, 5, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "tenant.read", m.PermissionName(42))
	assert.Equal(t, "30", m.RowKey(rows[0]))

	_, found := m.RowData("null")
	assert.False(t, found)
}

func TestTenantRolePermissionDataModel_RemoteFailure(t *testing.T) {
	source := new(mockLinks)
	source.On("GetAll", mock.Anything, (*int64)(nil), (*int64)(nil), 2, 5).Return(nil, errors.New("timeout"))

	m := NewTenantRolePermissionDataModel(source, new(mockPermissions), nil)
	rows, err := m.Load(context.Background(), 5, 5, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.EqualValues(t, 0, m.RowCount())
}

func lookups(t *testing.T, kind, result string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.EnrichmentLookupsTotal.WithLabelValues(kind, result).Write(&m))
	return m.GetCounter().GetValue()
}

func TestTenantRoleDataModel_LookupMetricsPerKind(t *testing.T) {
	source := new(mockTenantRoles)
	tenants := new(mockTenants)
	roles := new(mockRoles)

	source.On("GetAll", mock.Anything, client.TenantRoleQuery{}, 1, 10).
		Return(model.NewPage([]model.TenantRole{tenantRole(21, 5, 9), tenantRole(22, 6, 9)}, 1, 10, 2), nil)
	tenants.On("GetByIDs", mock.Anything, []int64{5, 6}).Return([]model.Tenant{}, nil)
	roles.On("GetByIDs", mock.Anything, []int64{9}).Return([]model.Role{}, nil)

	tenantMisses, roleMisses := lookups(t, "tenant", "miss"), lookups(t, "role", "miss")

	m := NewTenantRoleDataModel(source, tenants, roles, nil)
	_, err := m.Load(context.Background(), 0, 10, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 2.0, lookups(t, "tenant", "miss")-tenantMisses)
	assert.Equal(t, 1.0, lookups(t, "role", "miss")-roleMisses)
}
