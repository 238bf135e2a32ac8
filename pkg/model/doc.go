// Package model defines the entities of the tenant role association core.
//
// The structs double as GORM models and as the JSON shapes exchanged over
// the REST API. Every entity embeds Audit; ids and optional fields are
// pointers so that unsaved entities and absent values serialize as null.
//
// # Entities
//
//   - Tenant: ROOT, CLIENT or SUB organisational unit
//   - Role, Permission, Action, Resource, User: the associated parties
//   - TenantRole: a role made available inside a tenant
//   - TenantRolePermission: a permission granted to a tenant role
//   - TenantRoleUser: a tenant role granted to a user
//   - ActiveTenant: the tenants a user may switch to
//
// # Database Schema
//
//   - tenants, roles, permissions, actions, resources, users
//   - tenant_roles: UNIQUE (tenant_id, role_id)
//   - tenant_role_permissions: UNIQUE (tenant_role_id, permission_id)
//   - tenant_role_users: UNIQUE (tenant_role_id, user_id)
//   - active_tenants
package model
