// Package client is the Go client of the IAM service.
//
// Every operation runs through Call, which resolves the endpoint, presents
// the session's access token, and on an expired token refreshes the
// session and retries exactly once:
//
//	auth := client.NewAuthClient("https://iam.example.com")
//	session := client.NewSession(tokens, auth)
//	c := client.New("https://iam.example.com", session, client.WithLogger(logger))
//
//	link, err := c.TenantRolePermissions().Assign(ctx, tenantID, roleID, permissionID)
//	switch {
//	case errors.Is(err, errdefs.ErrSessionExpired):
//	    // authenticate again
//	case errors.Is(err, errdefs.ErrRemoteCall):
//	    // inspect the *errdefs.RemoteCallError
//	}
package client
