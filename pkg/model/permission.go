package model

// Permission allows an action on a resource.
type Permission struct {
	ID         *int64 `gorm:"column:id;primaryKey" json:"id"`
	Name       string `gorm:"column:name" json:"name"`
	ActionID   *int64 `gorm:"column:action_id" json:"actionId"`
	ResourceID *int64 `gorm:"column:resource_id" json:"resourceId"`
	Audit
}

func (Permission) TableName() string {
	return "permissions"
}

type Action struct {
	ID   *int64 `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name" json:"name"`
	Audit
}

func (Action) TableName() string {
	return "actions"
}

type Resource struct {
	ID   *int64 `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name" json:"name"`
	Audit
}

func (Resource) TableName() string {
	return "resources"
}
