// Package token issues and verifies the HS256 access and refresh tokens of
// the IAM server.
//
// Both tokens carry the user id as subject and a "use" claim. The refresh
// grant of POST /token exchanges a refresh token for a new pair.
package token
