package store

import (
	"context"

	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
)

// TenantRoleFilter narrows a paged listing. Set fields are AND-combined.
type TenantRoleFilter struct {
	TenantID *int64
	RoleID   *int64
}

// TenantRoleSearch selects tenant roles by tenant and/or role. Set fields are
// combined with AND when IsLogicalConjunction is true and with OR otherwise.
// When no field is set no predicate is applied.
type TenantRoleSearch struct {
	TenantID             *int64
	RoleID               *int64
	IsLogicalConjunction bool
}

// TenantRoleStore abstracts tenant role storage operations
type TenantRoleStore interface {
	// GetAll returns one page of tenant roles in insertion order.
	// Returns errdefs.ErrInvalidArgument for pageNo < 1 or pageSize < 1.
	GetAll(ctx context.Context, filter TenantRoleFilter, pageNo, pageSize int) (*model.Page[model.TenantRole], error)

	// Get retrieves a tenant role by id.
	// Returns errdefs.ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id int64) (*model.TenantRole, error)

	// Search returns every tenant role matching the filter
	Search(ctx context.Context, filter TenantRoleSearch) ([]model.TenantRole, error)

	// Save inserts the tenant role when its id is nil and updates it otherwise.
	// Returns errdefs.ErrUniquenessConflict if (tenantId, roleId) is already
	// registered under another id.
	Save(ctx context.Context, tenantRole *model.TenantRole) error

	// IsAssociationAlreadyExistent reports whether (tenantId, roleId) is registered
	IsAssociationAlreadyExistent(ctx context.Context, roleID, tenantID int64) (bool, error)

	// Delete removes a tenant role. It returns false when there was no such row.
	// Returns errdefs.ErrDependencyConflict while users or permissions
	// still reference it.
	Delete(ctx context.Context, id int64) (bool, error)

	// GetTenantRoleID resolves the id registered for (tenantId, roleId)
	GetTenantRoleID(ctx context.Context, tenantID, roleID int64) (int64, bool, error)

	// Count returns the number of tenant roles
	Count(ctx context.Context) (int64, error)

	// GetRoleIDsForUserTenant lists the roles a user holds, optionally inside one tenant
	GetRoleIDsForUserTenant(ctx context.Context, userID int64, tenantID *int64) ([]int64, error)

	// GetTenantIDs lists the tenants a user holds any role in, optionally a given role
	GetTenantIDs(ctx context.Context, userID int64, roleID *int64) ([]int64, error)

	// GetPermissionIDs lists the permissions granted inside a tenant,
	// optionally restricted to a role and/or a user
	GetPermissionIDs(ctx context.Context, tenantID int64, roleID, userID *int64) ([]int64, error)

	// HasPermission reports whether a user is granted a permission through any of its tenant roles
	HasPermission(ctx context.Context, userID, permissionID int64, tenantID *int64) (bool, error)

	// HasAnyRole reports whether a user holds any of the named roles
	HasAnyRole(ctx context.Context, userID int64, roleNames []string, tenantID *int64) (bool, error)
}
