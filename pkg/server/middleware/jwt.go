package middleware

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/identity"
	"github.com/doodlesbykumbi/iam-in-go/pkg/logging"
	"github.com/doodlesbykumbi/iam-in-go/pkg/token"
)

// TokenParser verifies bearer tokens
type TokenParser interface {
	Parse(raw, use string) (*token.Claims, error)
}

// JWTAuthenticator is middleware that validates bearer access tokens
type JWTAuthenticator struct {
	Parser TokenParser

	// TrustedProxy reports whether X-Forwarded-For sent by ip is honored
	TrustedProxy func(ip string) bool
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(parser TokenParser) *JWTAuthenticator {
	return &JWTAuthenticator{Parser: parser}
}

// Middleware returns an HTTP middleware that validates JWT tokens and stores
// the caller's identity in the request context
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, errdefs.CodeUnauthorized, "Authorization missing")
			return
		}

		raw, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			unauthorized(w, errdefs.CodeUnauthorized, "Malformed authorization header")
			return
		}

		claims, err := j.Parser.Parse(strings.TrimSpace(raw), token.UseAccess)
		if err != nil {
			if errors.Is(err, errdefs.ErrTokenExpired) {
				unauthorized(w, errdefs.CodeTokenExpired, "Token expired")
				return
			}
			logging.FromContext(r.Context()).Debug("rejected bearer token", zap.Error(err))
			unauthorized(w, errdefs.CodeUnauthorized, "Invalid token")
			return
		}

		id, err := identity.FromClaims(&claims.RegisteredClaims)
		if err != nil {
			unauthorized(w, errdefs.CodeUnauthorized, "Invalid token subject")
			return
		}
		id.WithRemoteIP(j.ClientIP(r)).WithRequestID(r.Header.Get(RequestIDHeader))

		ctx := identity.Set(r.Context(), id)
		ctx = logging.WithContext(ctx, logging.FromContext(ctx).With(zap.Int64("userId", id.UserID)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIP is the caller address, taken from X-Forwarded-For when the peer is a
// trusted proxy
func (j *JWTAuthenticator) ClientIP(r *http.Request) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if j.TrustedProxy != nil && j.TrustedProxy(host) {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first := strings.TrimSpace(strings.Split(fwd, ",")[0])
			if ip := net.ParseIP(first); ip != nil {
				return ip
			}
		}
	}
	return net.ParseIP(host)
}

func unauthorized(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(errdefs.ErrorResponse{
		Error: errdefs.ErrorDetail{Code: code, Message: message},
	})
}
