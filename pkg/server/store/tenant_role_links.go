package store

import (
	"context"

	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
)

// TenantRolePermissionFilter narrows a paged listing. Set fields are AND-combined.
type TenantRolePermissionFilter struct {
	TenantRoleID *int64
	PermissionID *int64
}

// TenantRolePermissionStore abstracts storage of permissions granted to tenant roles
type TenantRolePermissionStore interface {
	// GetAll returns one page of grants in insertion order
	GetAll(ctx context.Context, filter TenantRolePermissionFilter, pageNo, pageSize int) (*model.Page[model.TenantRolePermission], error)

	// Get retrieves a grant by id.
	// Returns errdefs.ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id int64) (*model.TenantRolePermission, error)

	// Save inserts or updates a grant.
	// Returns errdefs.ErrUniquenessConflict if (tenantRoleId, permissionId) is taken.
	Save(ctx context.Context, link *model.TenantRolePermission) error

	// Delete removes a grant, returning false when there was no such row
	Delete(ctx context.Context, id int64) (bool, error)

	// IsAssociationAlreadyExistent reports whether (tenantRoleId, permissionId) is registered
	IsAssociationAlreadyExistent(ctx context.Context, tenantRoleID, permissionID int64) (bool, error)

	// GetAssociationID resolves the id of the (tenantRoleId, permissionId) grant
	GetAssociationID(ctx context.Context, tenantRoleID, permissionID int64) (int64, bool, error)
}

// TenantRoleUserFilter narrows a paged listing. Set fields are AND-combined.
type TenantRoleUserFilter struct {
	TenantRoleID *int64
	UserID       *int64
}

// TenantRoleUserStore abstracts storage of tenant roles granted to users
type TenantRoleUserStore interface {
	// GetAll returns one page of grants in insertion order
	GetAll(ctx context.Context, filter TenantRoleUserFilter, pageNo, pageSize int) (*model.Page[model.TenantRoleUser], error)

	// Get retrieves a grant by id.
	// Returns errdefs.ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id int64) (*model.TenantRoleUser, error)

	// Save inserts or updates a grant.
	// Returns errdefs.ErrUniquenessConflict if (tenantRoleId, userId) is taken.
	Save(ctx context.Context, link *model.TenantRoleUser) error

	// Delete removes a grant, returning false when there was no such row
	Delete(ctx context.Context, id int64) (bool, error)

	// IsAssociationAlreadyExistent reports whether (tenantRoleId, userId) is registered
	IsAssociationAlreadyExistent(ctx context.Context, tenantRoleID, userID int64) (bool, error)

	// GetAssociationID resolves the id of the (tenantRoleId, userId) grant
	GetAssociationID(ctx context.Context, tenantRoleID, userID int64) (int64, bool, error)

	// IsUserAssociatedWithTenant reports whether the user holds any role in the tenant
	IsUserAssociatedWithTenant(ctx context.Context, userID, tenantID int64) (bool, error)
}
