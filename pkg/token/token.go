package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
)

const (
	UseAccess  = "access"
	UseRefresh = "refresh"

	TypeBearer = "Bearer"
)

// ErrInvalidToken is returned for tokens that are malformed, badly signed or
// of the wrong use
var ErrInvalidToken = errors.New("invalid token")

// Claims are the claims of access and refresh tokens
type Claims struct {
	Use string `json:"use"`
	jwt.RegisteredClaims
}

// Pair is the response of a token grant
type Pair struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Issuer signs and verifies HS256 tokens
type Issuer struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewIssuer creates an Issuer
func NewIssuer(key []byte, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if len(key) == 0 {
		return nil, errdefs.Configuration("token signing key is empty")
	}
	return &Issuer{key: key, accessTTL: accessTTL, refreshTTL: refreshTTL, now: time.Now}, nil
}

// Issue mints an access and refresh token for userID
func (i *Issuer) Issue(userID int64) (*Pair, error) {
	subject := strconv.FormatInt(userID, 10)

	access, err := i.sign(subject, UseAccess, i.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := i.sign(subject, UseRefresh, i.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &Pair{
		AccessToken:  access,
		TokenType:    TypeBearer,
		ExpiresIn:    int64(i.accessTTL / time.Second),
		RefreshToken: refresh,
	}, nil
}

// Refresh exchanges a refresh token for a new pair
func (i *Issuer) Refresh(refreshToken string) (*Pair, error) {
	claims, err := i.Parse(refreshToken, UseRefresh)
	if err != nil {
		return nil, err
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidToken, claims.Subject)
	}
	return i.Issue(userID)
}

// Parse verifies raw and checks it was issued for use. An expired token
// yields errdefs.ErrTokenExpired.
func (i *Issuer) Parse(raw, use string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errdefs.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Use != use {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrInvalidToken, use, claims.Use)
	}
	return claims, nil
}

func (i *Issuer) sign(subject, use string, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		Use: use,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", use, err)
	}
	return signed, nil
}
