// Package store provides storage abstractions for the IAM server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints and the association service to be decoupled from the
// specific database implementation. The GORM implementations live in
// pkg/server/store/gorm.
//
// # Available Stores
//
//   - TenantRoleStore: tenant roles, their uniqueness and dependency checks
//   - TenantRolePermissionStore: permissions granted to tenant roles
//   - TenantRoleUserStore: tenant roles granted to users
//   - ActiveTenantStore: tenants a user may switch to
//   - TenantStore, RoleStore, PermissionStore: the associated parties
//   - HealthStore: database connectivity
//
// # Errors
//
// Stores report failures with the sentinels of pkg/errdefs:
//
//	tr, err := tenantRoles.Get(ctx, id)
//	if errors.Is(err, errdefs.ErrNotFound) {
//	    // Handle not found
//	}
package store
