package model

// ActiveTenant records a tenant a user may operate under. At most one
// record per user is flagged active; the assignment workflow keeps it that
// way.
type ActiveTenant struct {
	ID             *int64 `gorm:"column:id;primaryKey" json:"id"`
	UserID         int64  `gorm:"column:user_id" json:"userId"`
	TenantID       int64  `gorm:"column:tenant_id" json:"tenantId"`
	IsTenantActive bool   `gorm:"column:is_tenant_active" json:"isTenantActive"`
	Audit
}

func (ActiveTenant) TableName() string {
	return "active_tenants"
}
