package errdefs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid argument", InvalidArgument("pageSize must be positive"), http.StatusBadRequest, CodeInvalidArgument},
		{"token expired", ErrTokenExpired, http.StatusUnauthorized, CodeTokenExpired},
		{"not found", NotFound("tenant role %d", 4), http.StatusNotFound, CodeNotFound},
		{"uniqueness", UniquenessConflict("tenant 1 role 2"), http.StatusConflict, CodeUniquenessConflict},
		{"dependency", fmt.Errorf("delete: %w", DependencyConflict("tenant role 3")), http.StatusConflict, CodeDependencyConflict},
		{"other", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := HTTPStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestFromStatus(t *testing.T) {
	assert.Equal(t, ErrUniquenessConflict, FromStatus(http.StatusConflict, CodeUniquenessConflict))
	assert.Equal(t, ErrDependencyConflict, FromStatus(http.StatusConflict, CodeDependencyConflict))
	assert.Equal(t, ErrTokenExpired, FromStatus(http.StatusUnauthorized, ""))
	assert.Equal(t, ErrNotFound, FromStatus(http.StatusNotFound, ""))
	assert.Nil(t, FromStatus(http.StatusInternalServerError, ""))
}

func TestRemoteCallError(t *testing.T) {
	err := error(&RemoteCallError{
		Operation:  "get tenant role",
		StatusCode: http.StatusNotFound,
		Message:    "tenant role 7 not found",
		Err:        ErrNotFound,
	})

	assert.True(t, errors.Is(err, ErrRemoteCall))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrUniquenessConflict))
	assert.Contains(t, err.Error(), "status 404")

	var rce *RemoteCallError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &rce))
	assert.Equal(t, "get tenant role", rce.Operation)
}
