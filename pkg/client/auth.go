package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// AuthClient talks to the token endpoint of the IAM service
type AuthClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

var _ Refresher = (*AuthClient)(nil)

// NewAuthClient creates a new AuthClient
func NewAuthClient(baseURL string) *AuthClient {
	return &AuthClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// tokenError is the OAuth style error body of the token endpoint
type tokenError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Refresh exchanges a refresh token for a new token pair
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)

	endpoint, err := url.JoinPath(c.BaseURL, "token")
	if err != nil {
		return nil, fmt.Errorf("invalid auth url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var errResp tokenError
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
			return nil, fmt.Errorf("error refreshing token: %d %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("error refreshing token: %s - %s", errResp.Error, errResp.ErrorDescription)
	}

	var pair TokenPair
	if err := json.Unmarshal(body, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}
