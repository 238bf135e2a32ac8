package model

// TenantRole binds one role to one tenant. The pair (TenantID, RoleID) is
// unique.
type TenantRole struct {
	ID       *int64 `gorm:"column:id;primaryKey" json:"id"`
	TenantID int64  `gorm:"column:tenant_id" json:"tenantId"`
	RoleID   int64  `gorm:"column:role_id" json:"roleId"`
	Audit
}

func (TenantRole) TableName() string {
	return "tenant_roles"
}

// TenantRolePermission grants a permission to a tenant role. The pair
// (TenantRoleID, PermissionID) is unique.
type TenantRolePermission struct {
	ID           *int64 `gorm:"column:id;primaryKey" json:"id"`
	TenantRoleID int64  `gorm:"column:tenant_role_id" json:"tenantRoleId"`
	PermissionID int64  `gorm:"column:permission_id" json:"permissionId"`
	Audit
}

func (TenantRolePermission) TableName() string {
	return "tenant_role_permissions"
}

// TenantRoleUser grants a tenant role to a user. The pair
// (TenantRoleID, UserID) is unique.
type TenantRoleUser struct {
	ID           *int64 `gorm:"column:id;primaryKey" json:"id"`
	TenantRoleID int64  `gorm:"column:tenant_role_id" json:"tenantRoleId"`
	UserID       int64  `gorm:"column:user_id" json:"userId"`
	Audit
}

func (TenantRoleUser) TableName() string {
	return "tenant_role_users"
}
