package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/identity"
	"github.com/doodlesbykumbi/iam-in-go/pkg/token"
)

func newIssuer(t *testing.T, accessTTL time.Duration) *token.Issuer {
	issuer, err := token.NewIssuer([]byte("middleware-test-key"), accessTTL, time.Hour)
	require.NoError(t, err)
	return issuer
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errdefs.ErrorDetail {
	var body errdefs.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestMiddleware_MissingAuthorization(t *testing.T) {
	auth := NewJWTAuthenticator(newIssuer(t, time.Minute))

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authorization missing", decodeError(t, rec).Message)
}

func TestMiddleware_MalformedAuthorizationHeader(t *testing.T) {
	auth := NewJWTAuthenticator(newIssuer(t, time.Minute))

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"token scheme", `Token token="xyz"`},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"random string", "something random"},
		{"empty bearer", "Bearer "},
		{"garbage bearer", "Bearer not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, errdefs.CodeUnauthorized, decodeError(t, rec).Code)
		})
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	issuer := newIssuer(t, -time.Minute)
	auth := NewJWTAuthenticator(issuer)

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	pair, err := issuer.Issue(17)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, errdefs.CodeTokenExpired, decodeError(t, rec).Code)
}

func TestMiddleware_RefreshTokenRejected(t *testing.T) {
	issuer := newIssuer(t, time.Minute)
	auth := NewJWTAuthenticator(issuer)

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	pair, err := issuer.Issue(17)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_IdentityFromContext(t *testing.T) {
	issuer := newIssuer(t, time.Minute)
	auth := NewJWTAuthenticator(issuer)
	auth.TrustedProxy = func(ip string) bool { return ip == "10.0.0.1" }

	var got *identity.Identity
	handler := RequestID(nil)(auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = identity.Get(r.Context())
	})))

	pair, err := issuer.Issue(17)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "10.0.0.1:4711"
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.NotNil(t, got)
	assert.EqualValues(t, 17, got.UserID)
	assert.Equal(t, "203.0.113.9", got.RemoteIP.String())
	assert.Equal(t, rec.Header().Get(RequestIDHeader), got.RequestID)
	_, err = uuid.Parse(got.RequestID)
	assert.NoError(t, err)
}

func TestRequestID_KeepsIncomingID(t *testing.T) {
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}
