package store

import (
	"context"

	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
)

// RoleStore abstracts role storage operations
type RoleStore interface {
	// Get retrieves a role by id.
	// Returns errdefs.ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id int64) (*model.Role, error)

	// GetByIDs returns the roles with the given ids; unknown ids are skipped
	GetByIDs(ctx context.Context, ids []int64) ([]model.Role, error)

	// Create stores a role.
	// Returns errdefs.ErrUniquenessConflict when the name is taken.
	Create(ctx context.Context, role *model.Role) error

	// Exists reports whether a role exists
	Exists(ctx context.Context, id int64) (bool, error)
}
