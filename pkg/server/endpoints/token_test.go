package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/iam-in-go/pkg/token"
)

func tokenRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestTokenEndpoint(t *testing.T) {
	t.Run("exchanges a refresh token", func(t *testing.T) {
		ts := newTestServer(t)
		pair, err := ts.issuer.Issue(17)
		require.NoError(t, err)

		w := ts.doAnonymous(t, tokenRequest(url.Values{
			"grant_type":    {"refresh_token"},
			"refresh_token": {pair.RefreshToken},
		}))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

		var got token.Pair
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, token.TypeBearer, got.TokenType)
		assert.EqualValues(t, 60, got.ExpiresIn)

		claims, err := ts.issuer.Parse(got.AccessToken, token.UseAccess)
		require.NoError(t, err)
		assert.Equal(t, "17", claims.Subject)
	})

	tests := []struct {
		name     string
		form     func(pair *token.Pair) url.Values
		wantCode string
	}{
		{
			name: "unsupported grant",
			form: func(*token.Pair) url.Values {
				return url.Values{"grant_type": {"password"}}
			},
			wantCode: "unsupported_grant_type",
		},
		{
			name: "missing refresh token",
			form: func(*token.Pair) url.Values {
				return url.Values{"grant_type": {"refresh_token"}}
			},
			wantCode: "invalid_request",
		},
		{
			name: "access token used as refresh token",
			form: func(pair *token.Pair) url.Values {
				return url.Values{"grant_type": {"refresh_token"}, "refresh_token": {pair.AccessToken}}
			},
			wantCode: "invalid_grant",
		},
		{
			name: "garbage",
			form: func(*token.Pair) url.Values {
				return url.Values{"grant_type": {"refresh_token"}, "refresh_token": {"not.a.jwt"}}
			},
			wantCode: "invalid_grant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			pair, err := ts.issuer.Issue(17)
			require.NoError(t, err)

			w := ts.doAnonymous(t, tokenRequest(tt.form(pair)))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var body TokenErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error)
			assert.NotEmpty(t, body.ErrorDescription)
		})
	}
}
