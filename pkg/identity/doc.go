// Package identity carries the authenticated caller of a request.
//
// The JWT middleware validates the bearer token and stores an Identity in
// the request context. Stores read it back to stamp the audit columns of
// the rows they write.
//
// # Basic Usage
//
//	id, err := identity.FromClaims(claims)
//	id.WithRemoteIP(clientIP).WithRequestID(requestID)
//	ctx = identity.Set(ctx, id)
//
//	// later, in a store
//	createdBy := identity.UserID(ctx) // nil when unauthenticated
package identity
