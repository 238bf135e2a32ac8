package lazy

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/iam-in-go/pkg/client"
	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
)

// TenantRoleSource pages tenant roles
type TenantRoleSource interface {
	GetAll(ctx context.Context, filter client.TenantRoleQuery, pageNo, pageSize int) (*model.Page[model.TenantRole], error)
}

// TenantSource resolves tenants by id
type TenantSource interface {
	GetByIDs(ctx context.Context, ids []int64) ([]model.Tenant, error)
}

// RoleSource resolves roles by id
type RoleSource interface {
	GetByIDs(ctx context.Context, ids []int64) ([]model.Role, error)
}

// TenantRoleDataModel lists tenant roles with the names of their tenant and
// role. Filters "tenantId" and "roleId" narrow the listing.
type TenantRoleDataModel struct {
	*Loader[model.TenantRole]
	tenants *Names
	roles   *Names
}

// NewTenantRoleDataModel creates a TenantRoleDataModel
func NewTenantRoleDataModel(source TenantRoleSource, tenants TenantSource, roles RoleSource, logger *zap.Logger) *TenantRoleDataModel {
	m := &TenantRoleDataModel{
		tenants: NewNames("tenant", ResolveBy(tenants.GetByIDs,
			func(t model.Tenant) *int64 { return t.ID },
			func(t model.Tenant) string { return t.Name })),
		roles: NewNames("role", ResolveBy(roles.GetByIDs,
			func(r model.Role) *int64 { return r.ID },
			func(r model.Role) string { return r.Name })),
	}

	fetch := func(ctx context.Context, req Request) (*model.Page[model.TenantRole], error) {
		var query client.TenantRoleQuery
		var err error
		if query.TenantID, err = filterID(req.Filter, "tenantId"); err != nil {
			return nil, err
		}
		if query.RoleID, err = filterID(req.Filter, "roleId"); err != nil {
			return nil, err
		}
		return source.GetAll(ctx, query, req.PageNo, req.PageSize)
	}

	m.Loader = NewLoader("tenant_role", fetch, func(tr model.TenantRole) *int64 { return tr.ID }, logger,
		func(ctx context.Context, rows []model.TenantRole) error {
			tenantIDs := make([]int64, 0, len(rows))
			roleIDs := make([]int64, 0, len(rows))
			for _, tr := range rows {
				tenantIDs = append(tenantIDs, tr.TenantID)
				roleIDs = append(roleIDs, tr.RoleID)
			}
			if err := m.tenants.Prefetch(ctx, tenantIDs); err != nil {
				return err
			}
			return m.roles.Prefetch(ctx, roleIDs)
		},
	)
	return m
}

// TenantName returns the name of tenantID, or Unknown
func (m *TenantRoleDataModel) TenantName(tenantID int64) string {
	return m.tenants.Name(tenantID)
}

// RoleName returns the name of roleID, or Unknown
func (m *TenantRoleDataModel) RoleName(roleID int64) string {
	return m.roles.Name(roleID)
}

// TenantRolePermissionSource pages the permissions of tenant roles
type TenantRolePermissionSource interface {
	GetAll(ctx context.Context, tenantRoleID, permissionID *int64, pageNo, pageSize int) (*model.Page[model.TenantRolePermission], error)
}

// PermissionSource resolves permissions by id
type PermissionSource interface {
	GetByIDs(ctx context.Context, ids []int64) ([]model.Permission, error)
}

// TenantRolePermissionDataModel lists the permissions granted to one tenant
// role, or to all of them while no tenant role is selected.
type TenantRolePermissionDataModel struct {
	*Loader[model.TenantRolePermission]
	permissions *Names

	mu           sync.RWMutex
	tenantRoleID *int64
}

// NewTenantRolePermissionDataModel creates a TenantRolePermissionDataModel
func NewTenantRolePermissionDataModel(source TenantRolePermissionSource, permissions PermissionSource, logger *zap.Logger) *TenantRolePermissionDataModel {
	m := &TenantRolePermissionDataModel{
		permissions: NewNames("permission", ResolveBy(permissions.GetByIDs,
			func(p model.Permission) *int64 { return p.ID },
			func(p model.Permission) string { return p.Name })),
	}

	fetch := func(ctx context.Context, req Request) (*model.Page[model.TenantRolePermission], error) {
		permissionID, err := filterID(req.Filter, "permissionId")
		if err != nil {
			return nil, err
		}
		return source.GetAll(ctx, m.TenantRoleID(), permissionID, req.PageNo, req.PageSize)
	}

	m.Loader = NewLoader("tenant_role_permission", fetch, func(p model.TenantRolePermission) *int64 { return p.ID }, logger,
		func(ctx context.Context, rows []model.TenantRolePermission) error {
			ids := make([]int64, 0, len(rows))
			for _, p := range rows {
				ids = append(ids, p.PermissionID)
			}
			return m.permissions.Prefetch(ctx, ids)
		},
	)
	return m
}

// SetTenantRoleID selects the tenant role whose permissions are listed
func (m *TenantRolePermissionDataModel) SetTenantRoleID(id *int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenantRoleID = id
}

// TenantRoleID returns the selected tenant role
func (m *TenantRolePermissionDataModel) TenantRoleID() *int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tenantRoleID
}

// PermissionName returns the name of permissionID, or Unknown
func (m *TenantRolePermissionDataModel) PermissionName(permissionID int64) string {
	return m.permissions.Name(permissionID)
}

func filterID(filter Filter, field string) (*int64, error) {
	raw, ok := filter[field]
	if !ok || raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errdefs.InvalidArgument("filter %s: %q is not an id", field, raw)
	}
	return &id, nil
}
