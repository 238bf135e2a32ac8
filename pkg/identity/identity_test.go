package identity

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromClaims(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	expires := issued.Add(10 * time.Minute)

	t.Run("numeric subject", func(t *testing.T) {
		id, err := FromClaims(&jwt.RegisteredClaims{
			Subject:   "42",
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		})
		require.NoError(t, err)
		assert.EqualValues(t, 42, id.UserID)
		assert.Equal(t, "42", id.Subject)
		assert.Equal(t, issued, id.IssuedAt.UTC())
		assert.Equal(t, expires, id.ExpiresAt.UTC())
	})

	t.Run("non numeric subject", func(t *testing.T) {
		_, err := FromClaims(&jwt.RegisteredClaims{Subject: "alice"})
		assert.Error(t, err)
	})
}

func TestIdentity_WithMethods(t *testing.T) {
	id := &Identity{UserID: 7}

	ip := net.ParseIP("192.168.1.100")
	id.WithRemoteIP(ip).WithRequestID("req-1")

	assert.Equal(t, ip, id.RemoteIP)
	assert.Equal(t, "req-1", id.RequestID)
}

func TestContext(t *testing.T) {
	t.Run("get from empty context", func(t *testing.T) {
		_, ok := Get(context.Background())
		assert.False(t, ok)
		assert.Nil(t, UserID(context.Background()))
	})

	t.Run("set and get", func(t *testing.T) {
		ctx := Set(context.Background(), &Identity{UserID: 9})

		id, ok := Get(ctx)
		require.True(t, ok)
		assert.EqualValues(t, 9, id.UserID)

		userID := UserID(ctx)
		require.NotNil(t, userID)
		assert.EqualValues(t, 9, *userID)
	})
}
