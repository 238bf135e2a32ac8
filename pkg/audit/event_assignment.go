package audit

import (
	"fmt"
	"strconv"
)

// AssignmentEvent records a permission or user being linked to, or unlinked
// from, a (tenant, role) pair.
type AssignmentEvent struct {
	UserID       string
	ClientIP     string
	Operation    string // "assign" or "unassign"
	Kind         string // "permission" or "user"
	TenantID     int64
	RoleID       int64
	TargetID     int64
	Success      bool
	ErrorMessage string
}

func (e AssignmentEvent) MessageID() string {
	return e.Kind + "-" + e.Operation
}

func (e AssignmentEvent) Message() string {
	preposition := "to"
	if e.Operation == "unassign" {
		preposition = "from"
	}
	target := fmt.Sprintf("%s %d %s role %d in tenant %d", e.Kind, e.TargetID, preposition, e.RoleID, e.TenantID)
	if e.Success {
		return fmt.Sprintf("%s %sed %s", e.UserID, e.Operation, target)
	}
	msg := fmt.Sprintf("%s tried to %s %s", e.UserID, e.Operation, target)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AssignmentEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e AssignmentEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AssignmentEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDAssignment: {
			"tenant": strconv.FormatInt(e.TenantID, 10),
			"role":   strconv.FormatInt(e.RoleID, 10),
			e.Kind:   strconv.FormatInt(e.TargetID, 10),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
}
