// Package association implements the workflows that link permissions and
// users to (tenant, role) pairs.
//
// Assignments create the tenant role on first use and are idempotent:
//
//	svc := association.NewService(association.Stores{...}, logger)
//	link, err := svc.AssignPermission(ctx, tenantID, roleID, permissionID)
//
// Unassignments fail with errdefs.ErrNotFound when the link does not exist
// and never remove the tenant role itself; DeleteTenantRole does that once
// nothing references it.
package association
