package store

import (
	"context"

	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
)

// PermissionStore abstracts storage of permissions and the actions and
// resources they refer to
type PermissionStore interface {
	// GetAll returns one page of permissions ordered by id. A non-empty
	// search keeps the permissions whose name contains it, ignoring case.
	GetAll(ctx context.Context, search string, pageNo, pageSize int) (*model.Page[model.Permission], error)

	// GetByIDs returns the permissions with the given ids
	GetByIDs(ctx context.Context, ids []int64) ([]model.Permission, error)

	// Create stores a permission.
	// Returns errdefs.ErrUniquenessConflict when the name is taken.
	Create(ctx context.Context, permission *model.Permission) error

	// GetActionsByIDs returns the actions with the given ids
	GetActionsByIDs(ctx context.Context, ids []int64) ([]model.Action, error)

	// GetResourcesByIDs returns the resources with the given ids
	GetResourcesByIDs(ctx context.Context, ids []int64) ([]model.Resource, error)
}
