package store

import (
	"context"

	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
)

// ActiveTenantStore abstracts storage of the tenants a user may switch to
type ActiveTenantStore interface {
	// GetByUser lists the active tenant records of a user
	GetByUser(ctx context.Context, userID int64) ([]model.ActiveTenant, error)

	// Exists reports whether the user has a record for the tenant
	Exists(ctx context.Context, userID, tenantID int64) (bool, error)

	// Create stores a new record
	Create(ctx context.Context, activeTenant *model.ActiveTenant) error

	// DeleteByUserAndTenant removes the user's record for the tenant
	DeleteByUserAndTenant(ctx context.Context, userID, tenantID int64) (bool, error)
}
