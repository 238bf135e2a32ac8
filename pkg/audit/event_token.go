package audit

import "fmt"

// TokenEvent records an access token being issued or refreshed
type TokenEvent struct {
	Subject      string
	ClientIP     string
	GrantType    string
	Success      bool
	ErrorMessage string
}

func (e TokenEvent) MessageID() string {
	return "token"
}

func (e TokenEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s obtained an access token via %s", e.Subject, e.GrantType)
	}
	msg := fmt.Sprintf("%s failed to obtain an access token via %s", e.Subject, e.GrantType)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e TokenEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e TokenEvent) Facility() int {
	return FacilityAuth
}

func (e TokenEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user":       e.Subject,
			"grant_type": e.GrantType,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "token",
			"result":    result(e.Success),
		},
	}
}
