package model

// Role is a named set of permissions that can be granted inside a tenant.
// Names are unique across the system.
type Role struct {
	ID          *int64  `gorm:"column:id;primaryKey" json:"id"`
	Name        string  `gorm:"column:name" json:"name"`
	Description *string `gorm:"column:description" json:"description"`
	Audit
}

func (Role) TableName() string {
	return "roles"
}
