package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doodlesbykumbi/iam-in-go/pkg/config"
	"github.com/doodlesbykumbi/iam-in-go/pkg/token"
)

func (s *StepsContext) issuer(accessTTL time.Duration) (*token.Issuer, error) {
	cfg := config.Default()
	return token.NewIssuer([]byte(s.tc.SigningKey), accessTTL, cfg.RefreshTTL())
}

func (s *StepsContext) iAmAuthenticatedAsUser(userID int64) error {
	issuer, err := s.issuer(config.Default().AccessTTL())
	if err != nil {
		return err
	}
	s.userID = userID
	s.pair, err = issuer.Issue(userID)
	return err
}

func (s *StepsContext) iAmNotAuthenticated() error {
	s.pair = nil
	return nil
}

// myAccessTokenHasExpired swaps the access token for one that expired a
// minute ago, keeping the refresh token valid
func (s *StepsContext) myAccessTokenHasExpired() error {
	if s.pair == nil {
		return fmt.Errorf("not authenticated")
	}
	issuer, err := s.issuer(-time.Minute)
	if err != nil {
		return err
	}
	expired, err := issuer.Issue(s.userID)
	if err != nil {
		return err
	}
	s.pair.AccessToken = expired.AccessToken
	return nil
}

func (s *StepsContext) iRequestANewTokenWithMyRefreshToken() error {
	if s.pair == nil {
		return fmt.Errorf("not authenticated")
	}
	return s.iRequestANewTokenWith(s.pair.RefreshToken)
}

func (s *StepsContext) iRequestANewTokenWith(refreshToken string) error {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	req, err := http.NewRequest("POST", s.serverURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *StepsContext) iShouldReceiveAValidTokenPair() error {
	var pair token.Pair
	if err := json.Unmarshal(s.responseBody, &pair); err != nil {
		return fmt.Errorf("response is not a token pair: %w", err)
	}
	issuer, err := s.issuer(config.Default().AccessTTL())
	if err != nil {
		return err
	}
	claims, err := issuer.Parse(pair.AccessToken, token.UseAccess)
	if err != nil {
		return fmt.Errorf("access token does not verify: %w", err)
	}
	if _, err := issuer.Parse(pair.RefreshToken, token.UseRefresh); err != nil {
		return fmt.Errorf("refresh token does not verify: %w", err)
	}
	if s.userID != 0 && claims.Subject != fmt.Sprintf("%d", s.userID) {
		return fmt.Errorf("expected subject %d, got %s", s.userID, claims.Subject)
	}
	s.pair = &pair
	return nil
}
