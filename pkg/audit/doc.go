// Package audit records security-relevant changes to tenant role
// associations as RFC5424 syslog messages.
//
// Events are written to stdout by DefaultLogger and, when
// AUDIT_DATABASE_URL is set, persisted to the messages table:
//
//	audit.Log(audit.AssignmentEvent{
//	    UserID:    "17",
//	    ClientIP:  "10.0.0.1",
//	    Operation: "assign",
//	    Kind:      "permission",
//	    TenantID:  5,
//	    RoleID:    9,
//	    TargetID:  42,
//	    Success:   true,
//	})
//
// Set IAM_AUDIT_ENABLED=false to turn auditing off.
package audit
