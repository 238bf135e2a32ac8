package model

import "time"

// Audit holds the bookkeeping columns shared by every entity. Absent values
// serialize as JSON null.
type Audit struct {
	CreateUser     *int64     `gorm:"column:create_user" json:"createUser"`
	LastUpdateUser *int64     `gorm:"column:last_update_user" json:"lastUpdateUser"`
	CreateDate     *time.Time `gorm:"column:create_date" json:"createDate"`
	LastUpdate     *time.Time `gorm:"column:last_update" json:"lastUpdate"`
}

// Touch stamps the audit columns for a write made by userID. The creation
// columns are only set once.
func (a *Audit) Touch(userID *int64, now time.Time) {
	if a.CreateDate == nil {
		a.CreateDate = &now
		a.CreateUser = userID
	}
	a.Modified(userID, now)
}

// Modified stamps only the last update columns
func (a *Audit) Modified(userID *int64, now time.Time) {
	a.LastUpdate = &now
	a.LastUpdateUser = userID
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
