// Package storetest provides testify mocks of the store interfaces.
package storetest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/store"
)

var (
	_ store.TenantRoleStore           = (*TenantRoleStore)(nil)
	_ store.TenantRolePermissionStore = (*TenantRolePermissionStore)(nil)
	_ store.TenantRoleUserStore       = (*TenantRoleUserStore)(nil)
	_ store.ActiveTenantStore         = (*ActiveTenantStore)(nil)
	_ store.TenantStore               = (*TenantStore)(nil)
	_ store.RoleStore                 = (*RoleStore)(nil)
	_ store.PermissionStore           = (*PermissionStore)(nil)
	_ store.HealthStore               = (*HealthStore)(nil)
)

func int64s(args mock.Arguments) []int64 {
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]int64)
}

// TenantRoleStore mocks store.TenantRoleStore
type TenantRoleStore struct {
	mock.Mock
}

func (m *TenantRoleStore) GetAll(ctx context.Context, filter store.TenantRoleFilter, pageNo, pageSize int) (*model.Page[model.TenantRole], error) {
	args := m.Called(ctx, filter, pageNo, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page[model.TenantRole]), args.Error(1)
}

func (m *TenantRoleStore) Get(ctx context.Context, id int64) (*model.TenantRole, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TenantRole), args.Error(1)
}

func (m *TenantRoleStore) Search(ctx context.Context, filter store.TenantRoleSearch) ([]model.TenantRole, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TenantRole), args.Error(1)
}

func (m *TenantRoleStore) Save(ctx context.Context, tenantRole *model.TenantRole) error {
	return m.Called(ctx, tenantRole).Error(0)
}

func (m *TenantRoleStore) IsAssociationAlreadyExistent(ctx context.Context, roleID, tenantID int64) (bool, error) {
	args := m.Called(ctx, roleID, tenantID)
	return args.Bool(0), args.Error(1)
}

func (m *TenantRoleStore) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *TenantRoleStore) GetTenantRoleID(ctx context.Context, tenantID, roleID int64) (int64, bool, error) {
	args := m.Called(ctx, tenantID, roleID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *TenantRoleStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TenantRoleStore) GetRoleIDsForUserTenant(ctx context.Context, userID int64, tenantID *int64) ([]int64, error) {
	args := m.Called(ctx, userID, tenantID)
	return int64s(args), args.Error(1)
}

func (m *TenantRoleStore) GetTenantIDs(ctx context.Context, userID int64, roleID *int64) ([]int64, error) {
	args := m.Called(ctx, userID, roleID)
	return int64s(args), args.Error(1)
}

func (m *TenantRoleStore) GetPermissionIDs(ctx context.Context, tenantID int64, roleID, userID *int64) ([]int64, error) {
	args := m.Called(ctx, tenantID, roleID, userID)
	return int64s(args), args.Error(1)
}

func (m *TenantRoleStore) HasPermission(ctx context.Context, userID, permissionID int64, tenantID *int64) (bool, error) {
	args := m.Called(ctx, userID, permissionID, tenantID)
	return args.Bool(0), args.Error(1)
}

func (m *TenantRoleStore) HasAnyRole(ctx context.Context, userID int64, roleNames []string, tenantID *int64) (bool, error) {
	args := m.Called(ctx, userID, roleNames, tenantID)
	return args.Bool(0), args.Error(1)
}

// TenantRolePermissionStore mocks store.TenantRolePermissionStore
type TenantRolePermissionStore struct {
	mock.Mock
}

func (m *TenantRolePermissionStore) GetAll(ctx context.Context, filter store.TenantRolePermissionFilter, pageNo, pageSize int) (*model.Page[model.TenantRolePermission], error) {
	args := m.Called(ctx, filter, pageNo, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page[model.TenantRolePermission]), args.Error(1)
}

func (m *TenantRolePermissionStore) Get(ctx context.Context, id int64) (*model.TenantRolePermission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TenantRolePermission), args.Error(1)
}

func (m *TenantRolePermissionStore) Save(ctx context.Context, link *model.TenantRolePermission) error {
	return m.Called(ctx, link).Error(0)
}

func (m *TenantRolePermissionStore) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *TenantRolePermissionStore) IsAssociationAlreadyExistent(ctx context.Context, tenantRoleID, permissionID int64) (bool, error) {
	args := m.Called(ctx, tenantRoleID, permissionID)
	return args.Bool(0), args.Error(1)
}

func (m *TenantRolePermissionStore) GetAssociationID(ctx context.Context, tenantRoleID, permissionID int64) (int64, bool, error) {
	args := m.Called(ctx, tenantRoleID, permissionID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

// TenantRoleUserStore mocks store.TenantRoleUserStore
type TenantRoleUserStore struct {
	mock.Mock
}

func (m *TenantRoleUserStore) GetAll(ctx context.Context, filter store.TenantRoleUserFilter, pageNo, pageSize int) (*model.Page[model.TenantRoleUser], error) {
	args := m.Called(ctx, filter, pageNo, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page[model.TenantRoleUser]), args.Error(1)
}

func (m *TenantRoleUserStore) Get(ctx context.Context, id int64) (*model.TenantRoleUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TenantRoleUser), args.Error(1)
}

func (m *TenantRoleUserStore) Save(ctx context.Context, link *model.TenantRoleUser) error {
	return m.Called(ctx, link).Error(0)
}

func (m *TenantRoleUserStore) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *TenantRoleUserStore) IsAssociationAlreadyExistent(ctx context.Context, tenantRoleID, userID int64) (bool, error) {
	args := m.Called(ctx, tenantRoleID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *TenantRoleUserStore) GetAssociationID(ctx context.Context, tenantRoleID, userID int64) (int64, bool, error) {
	args := m.Called(ctx, tenantRoleID, userID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *TenantRoleUserStore) IsUserAssociatedWithTenant(ctx context.Context, userID, tenantID int64) (bool, error) {
	args := m.Called(ctx, userID, tenantID)
	return args.Bool(0), args.Error(1)
}

// ActiveTenantStore mocks store.ActiveTenantStore
type ActiveTenantStore struct {
	mock.Mock
}

func (m *ActiveTenantStore) GetByUser(ctx context.Context, userID int64) ([]model.ActiveTenant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActiveTenant), args.Error(1)
}

func (m *ActiveTenantStore) Exists(ctx context.Context, userID, tenantID int64) (bool, error) {
	args := m.Called(ctx, userID, tenantID)
	return args.Bool(0), args.Error(1)
}

func (m *ActiveTenantStore) Create(ctx context.Context, activeTenant *model.ActiveTenant) error {
	return m.Called(ctx, activeTenant).Error(0)
}

func (m *ActiveTenantStore) DeleteByUserAndTenant(ctx context.Context, userID, tenantID int64) (bool, error) {
	args := m.Called(ctx, userID, tenantID)
	return args.Bool(0), args.Error(1)
}

// TenantStore mocks store.TenantStore
type TenantStore struct {
	mock.Mock
}

func (m *TenantStore) Get(ctx context.Context, id int64) (*model.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tenant), args.Error(1)
}

func (m *TenantStore) GetByIDs(ctx context.Context, ids []int64) ([]model.Tenant, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tenant), args.Error(1)
}

func (m *TenantStore) Create(ctx context.Context, tenant *model.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}

func (m *TenantStore) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// RoleStore mocks store.RoleStore
type RoleStore struct {
	mock.Mock
}

func (m *RoleStore) Get(ctx context.Context, id int64) (*model.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *RoleStore) GetByIDs(ctx context.Context, ids []int64) ([]model.Role, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Role), args.Error(1)
}

func (m *RoleStore) Create(ctx context.Context, role *model.Role) error {
	return m.Called(ctx, role).Error(0)
}

func (m *RoleStore) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// PermissionStore mocks store.PermissionStore
type PermissionStore struct {
	mock.Mock
}

func (m *PermissionStore) GetAll(ctx context.Context, search string, pageNo, pageSize int) (*model.Page[model.Permission], error) {
	args := m.Called(ctx, search, pageNo, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page[model.Permission]), args.Error(1)
}

func (m *PermissionStore) GetByIDs(ctx context.Context, ids []int64) ([]model.Permission, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Permission), args.Error(1)
}

func (m *PermissionStore) Create(ctx context.Context, permission *model.Permission) error {
	return m.Called(ctx, permission).Error(0)
}

func (m *PermissionStore) GetActionsByIDs(ctx context.Context, ids []int64) ([]model.Action, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Action), args.Error(1)
}

func (m *PermissionStore) GetResourcesByIDs(ctx context.Context, ids []int64) ([]model.Resource, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Resource), args.Error(1)
}

// HealthStore mocks store.HealthStore
type HealthStore struct {
	mock.Mock
}

func (m *HealthStore) CheckConnectivity(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
