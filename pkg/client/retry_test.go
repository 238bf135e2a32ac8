package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
)

type fakeRefresher struct {
	calls int32
	next  string
	err   error
	empty bool
}

func (f *fakeRefresher) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil || f.empty {
		return nil, f.err
	}
	return &TokenPair{AccessToken: f.next, RefreshToken: "r2"}, nil
}

func writeError(w http.ResponseWriter, err error) {
	status, body := errdefs.NewErrorResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// tokenServer accepts only the token "good" and counts requests
func tokenServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.Header.Get("Authorization") != "Bearer good" {
			writeError(w, errdefs.ErrTokenExpired)
			return
		}
		_ = json.NewEncoder(w).Encode(model.TenantRole{ID: model.Ptr(int64(7)), TenantID: 5, RoleID: 9})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCall_Success(t *testing.T) {
	var hits int32
	srv := tokenServer(t, &hits)

	var states []State
	hook := func(op string, from, to State) { states = append(states, to) }
	refresher := &fakeRefresher{next: "good"}
	c := New(srv.URL, NewSession(TokenPair{AccessToken: "good", RefreshToken: "r1"}, refresher), WithTransitionHook(hook))

	tr, err := c.TenantRoles().Get(context.Background(), 7)
	require.NoError(t, err)
	assert.EqualValues(t, 9, tr.RoleID)
	assert.EqualValues(t, 1, hits)
	assert.EqualValues(t, 0, refresher.calls)
	assert.Equal(t, []State{StateCalling, StateSuccess}, states)
}

func TestCall_RefreshesAndRetriesOnce(t *testing.T) {
	var hits int32
	srv := tokenServer(t, &hits)

	var states []State
	hook := func(op string, from, to State) { states = append(states, to) }
	refresher := &fakeRefresher{next: "good"}
	session := NewSession(TokenPair{AccessToken: "stale", RefreshToken: "r1"}, refresher)
	c := New(srv.URL, session, WithTransitionHook(hook))

	tr, err := c.TenantRoles().Get(context.Background(), 7)
	require.NoError(t, err)
	assert.EqualValues(t, 7, *tr.ID)

	assert.EqualValues(t, 2, hits)
	assert.EqualValues(t, 1, refresher.calls)
	assert.Equal(t, "good", session.AccessToken())
	assert.Equal(t, []State{StateCalling, StateAuthFailed, StateRefreshing, StateRetrying, StateSuccess}, states)
}

func TestCall_SecondExpiryIsSessionExpired(t *testing.T) {
	var hits int32
	srv := tokenServer(t, &hits)

	refresher := &fakeRefresher{next: "still-bad"}
	c := New(srv.URL, NewSession(TokenPair{AccessToken: "stale", RefreshToken: "r1"}, refresher))

	_, err := c.TenantRoles().Get(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errdefs.ErrSessionExpired))
	assert.False(t, errors.Is(err, errdefs.ErrRemoteCall))
	assert.EqualValues(t, 2, hits)
	assert.EqualValues(t, 1, refresher.calls)
}

func TestCall_RefreshFailure(t *testing.T) {
	var hits int32
	srv := tokenServer(t, &hits)

	var last State
	refresher := &fakeRefresher{err: errors.New("refresh token revoked")}
	c := New(srv.URL, NewSession(TokenPair{AccessToken: "stale", RefreshToken: "r1"}, refresher),
		WithTransitionHook(func(op string, from, to State) { last = to }))

	_, err := c.TenantRoles().Get(context.Background(), 7)
	assert.True(t, errors.Is(err, errdefs.ErrSessionExpired))
	assert.Contains(t, err.Error(), "refresh token revoked")
	assert.EqualValues(t, 1, hits)
	assert.Equal(t, StateFailed, last)
}

func TestCall_ConfigurationError(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
	}{
		{"unparseable", "://missing-scheme"},
		{"relative", "iam.local/api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			r := NewRetrier(tt.baseURL, NewSession(TokenPair{AccessToken: "good"}, nil))
			_, err := Call(context.Background(), r, "get tenant role", "tenantrole/7",
				func(ctx context.Context, endpoint *url.URL, token string) (int, error) {
					called = true
					return 0, nil
				})
			assert.True(t, errors.Is(err, errdefs.ErrConfiguration))
			assert.False(t, called)
		})
	}
}

func TestCall_ResolvesAgainstBasePath(t *testing.T) {
	r := NewRetrier("https://iam.local/api/", NewSession(TokenPair{AccessToken: "good"}, nil))

	got, err := Call(context.Background(), r, "count", "tenantrole/count?x=1",
		func(ctx context.Context, endpoint *url.URL, token string) (string, error) {
			return endpoint.String(), nil
		})
	require.NoError(t, err)
	assert.Equal(t, "https://iam.local/api/tenantrole/count?x=1", got)
}

func TestCall_TypedRemoteErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		want   error
	}{
		{"not found", errdefs.NotFound("tenant role 7"), http.StatusNotFound, errdefs.ErrNotFound},
		{"uniqueness", errdefs.UniquenessConflict("tenant 5 role 9"), http.StatusConflict, errdefs.ErrUniquenessConflict},
		{"dependency", errdefs.DependencyConflict("tenant role 7"), http.StatusConflict, errdefs.ErrDependencyConflict},
		{"internal", errors.New("database is down"), http.StatusInternalServerError, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, tt.err)
			}))
			defer srv.Close()

			c := New(srv.URL, NewSession(TokenPair{AccessToken: "good"}, nil))
			_, err := c.TenantRoles().Get(context.Background(), 7)
			require.Error(t, err)

			assert.True(t, errors.Is(err, errdefs.ErrRemoteCall))
			if tt.want != nil {
				assert.True(t, errors.Is(err, tt.want))
			}
			var rce *errdefs.RemoteCallError
			require.True(t, errors.As(err, &rce))
			assert.Equal(t, tt.status, rce.StatusCode)
			assert.Equal(t, "get tenant role", rce.Operation)
			assert.Contains(t, rce.Message, tt.err.Error())
		})
	}
}

func TestCall_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := New(srv.URL, NewSession(TokenPair{AccessToken: "good"}, nil), WithTimeout(50*time.Millisecond))
	_, err := c.TenantRoles().Count(context.Background())

	assert.True(t, errors.Is(err, errdefs.ErrRemoteCall))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestCall_NoSession(t *testing.T) {
	r := NewRetrier("https://iam.local", nil)
	_, err := Call(context.Background(), r, "count", "tenantrole/count",
		func(ctx context.Context, endpoint *url.URL, token string) (int, error) { return 0, nil })
	assert.True(t, errors.Is(err, errdefs.ErrConfiguration))
}
