package identity

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the authenticated identity for a request.
// It combines token claims with request-specific context.
type Identity struct {
	// Token claims
	UserID    int64
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Request context
	RemoteIP  net.IP // Client IP address
	RequestID string // X-Request-ID header
}

// FromClaims creates an Identity from validated JWT claims. The subject must
// be the numeric user id.
func FromClaims(claims *jwt.RegisteredClaims) (*Identity, error) {
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, err
	}

	id := &Identity{
		UserID:  userID,
		Subject: claims.Subject,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// WithRequestID sets the request id.
func (i *Identity) WithRequestID(requestID string) *Identity {
	i.RequestID = requestID
	return i
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}

// UserID returns the authenticated user's id, or nil for anonymous and
// internal calls. It is what the stores record as create/update user.
func UserID(ctx context.Context) *int64 {
	id, ok := Get(ctx)
	if !ok || id == nil {
		return nil
	}
	userID := id.UserID
	return &userID
}
