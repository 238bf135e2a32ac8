package model

import "strings"

// User is the account a TenantRoleUser points to. Users are managed by the
// user service; this module only reads them to label assignments.
type User struct {
	ID        *int64 `json:"id"`
	Logon     string `json:"logon"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// DisplayName is the full name of the user, or the logon when no name is
// known.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Logon
	}
	return name
}
