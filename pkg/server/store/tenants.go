package store

import (
	"context"

	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
)

// TenantStore abstracts tenant storage operations
type TenantStore interface {
	// Get retrieves a tenant by id.
	// Returns errdefs.ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id int64) (*model.Tenant, error)

	// GetByIDs returns the tenants with the given ids; unknown ids are skipped
	GetByIDs(ctx context.Context, ids []int64) ([]model.Tenant, error)

	// Create validates and stores a tenant.
	// Returns errdefs.ErrInvalidArgument when the variant's rules are broken
	// and errdefs.ErrUniquenessConflict when the name is taken.
	Create(ctx context.Context, tenant *model.Tenant) error

	// Exists reports whether a tenant exists
	Exists(ctx context.Context, id int64) (bool, error)
}
