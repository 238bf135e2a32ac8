package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
)

// TokenHolder supplies the bearer token of a session and renews it
type TokenHolder interface {
	AccessToken() string
	Refresh(ctx context.Context) error
}

// Refresher exchanges a refresh token for a new token pair
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

// TokenPair is an access token and the refresh token that renews it
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// Session holds the tokens of one authenticated user. Tokens only change
// through Refresh.
type Session struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	refresher    Refresher
}

var _ TokenHolder = (*Session)(nil)

// NewSession creates a session from an initial token pair
func NewSession(pair TokenPair, refresher Refresher) *Session {
	return &Session{
		accessToken:  pair.AccessToken,
		refreshToken: pair.RefreshToken,
		refresher:    refresher,
	}
}

// AccessToken returns the current access token
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// Refresh renews the access token. Concurrent callers are serialized so the
// refresh token is presented once per rotation.
func (s *Session) Refresh(ctx context.Context) error {
	if s.refresher == nil {
		return errors.New("session has no refresher")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refreshToken == "" {
		return errors.New("session has no refresh token")
	}

	pair, err := s.refresher.Refresh(ctx, s.refreshToken)
	if err != nil {
		return err
	}
	if pair == nil {
		return fmt.Errorf("%w: refresh returned no token pair", errdefs.ErrSessionExpired)
	}
	if pair.AccessToken == "" {
		return errors.New("refresh returned an empty access token")
	}

	s.accessToken = pair.AccessToken
	if pair.RefreshToken != "" {
		s.refreshToken = pair.RefreshToken
	}
	return nil
}
