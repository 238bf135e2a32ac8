package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/iam-in-go/pkg/audit"
	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/logging"
	"github.com/doodlesbykumbi/iam-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/iam-in-go/pkg/token"
)

const grantTypeRefreshToken = "refresh_token"

// TokenErrorResponse is the OAuth style error body of POST /token
type TokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// RegisterTokenEndpoints registers the token endpoint. It is public; the
// refresh token in the form is the credential.
func RegisterTokenEndpoints(s *server.Server) {
	s.Router.HandleFunc("/token", handleToken(s.Issuer, s.JWTMiddleware)).Methods("POST")
}

func handleToken(issuer *token.Issuer, jwtAuth *middleware.JWTAuthenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())
		if err := r.ParseForm(); err != nil {
			respondWithTokenError(w, http.StatusBadRequest, "invalid_request", "malformed form body")
			return
		}

		grantType := r.PostForm.Get("grant_type")
		event := audit.TokenEvent{GrantType: grantType, Subject: "unknown"}
		if ip := jwtAuth.ClientIP(r); ip != nil {
			event.ClientIP = ip.String()
		}

		if grantType != grantTypeRefreshToken {
			respondWithTokenError(w, http.StatusBadRequest, "unsupported_grant_type", "grant_type must be refresh_token")
			return
		}
		refreshToken := r.PostForm.Get("refresh_token")
		if refreshToken == "" {
			respondWithTokenError(w, http.StatusBadRequest, "invalid_request", "refresh_token is required")
			return
		}

		if claims, err := issuer.Parse(refreshToken, token.UseRefresh); err == nil {
			event.Subject = claims.Subject
		}

		pair, err := issuer.Refresh(refreshToken)
		if err != nil {
			event.ErrorMessage = err.Error()
			audit.Log(event)
			logger.Info("token refresh rejected", zap.Error(err))

			description := "refresh token is invalid"
			if errors.Is(err, errdefs.ErrTokenExpired) {
				description = "refresh token has expired"
			}
			respondWithTokenError(w, http.StatusBadRequest, "invalid_grant", description)
			return
		}

		event.Success = true
		audit.Log(event)
		metrics.TokensIssuedTotal.WithLabelValues(grantType).Inc()

		w.Header().Set("Cache-Control", "no-store")
		respondWithJSON(w, http.StatusOK, pair)
	}
}

func respondWithTokenError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(TokenErrorResponse{Error: code, ErrorDescription: description})
}
