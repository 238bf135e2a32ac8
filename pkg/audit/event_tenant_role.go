package audit

import (
	"fmt"
	"strconv"
)

// TenantRoleDeleteEvent records the removal of a (tenant, role) association
type TenantRoleDeleteEvent struct {
	UserID       string
	ClientIP     string
	TenantRoleID int64
	Success      bool
	ErrorMessage string
}

func (e TenantRoleDeleteEvent) MessageID() string {
	return "tenant-role-delete"
}

func (e TenantRoleDeleteEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s deleted tenant role %d", e.UserID, e.TenantRoleID)
	}
	msg := fmt.Sprintf("%s tried to delete tenant role %d", e.UserID, e.TenantRoleID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e TenantRoleDeleteEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e TenantRoleDeleteEvent) Facility() int {
	return FacilityAuthPriv
}

func (e TenantRoleDeleteEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"tenant_role": strconv.FormatInt(e.TenantRoleID, 10),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "delete",
			"result":    result(e.Success),
		},
	}
}
