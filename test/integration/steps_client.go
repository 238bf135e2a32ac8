package integration

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/iam-in-go/pkg/client"
	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
)

// clientSteps drives the Go client against the running server
type clientSteps struct {
	s *StepsContext

	tokenHits     int64
	expireRefresh bool
	page          *model.Page[model.TenantRole]
	err           error
}

// countingTransport counts the requests made to the token endpoint
type countingTransport struct {
	next http.RoundTripper
	hits *int64
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if strings.HasSuffix(req.URL.Path, "/token") {
		atomic.AddInt64(t.hits, 1)
	}
	return t.next.RoundTrip(req)
}

// expiringRefresher refreshes for real but hands back an access token that
// is already expired, so the retried call is rejected again
type expiringRefresher struct {
	next  client.Refresher
	steps *StepsContext
}

func (r *expiringRefresher) Refresh(ctx context.Context, refreshToken string) (*client.TokenPair, error) {
	pair, err := r.next.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	issuer, err := r.steps.issuer(-time.Minute)
	if err != nil {
		return nil, err
	}
	expired, err := issuer.Issue(r.steps.userID)
	if err != nil {
		return nil, err
	}
	pair.AccessToken = expired.AccessToken
	return pair, nil
}

func (c *clientSteps) register(sc *godog.ScenarioContext) {
	sc.Step(`^refreshed access tokens are already expired$`, c.refreshedAccessTokensAreAlreadyExpired)
	sc.Step(`^I list tenant roles with the client$`, c.iListTenantRolesWithTheClient)
	sc.Step(`^the client call should succeed with (\d+) results?$`, c.theClientCallShouldSucceedWith)
	sc.Step(`^the client call should fail with an expired session$`, c.theClientCallShouldFailWithAnExpiredSession)
	sc.Step(`^the token endpoint should have been called (\d+) times?$`, c.theTokenEndpointShouldHaveBeenCalled)
}

func (c *clientSteps) refreshedAccessTokensAreAlreadyExpired() error {
	c.expireRefresh = true
	return nil
}

func (c *clientSteps) newClient() (*client.Client, error) {
	if c.s.pair == nil {
		return nil, fmt.Errorf("not authenticated")
	}
	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: &countingTransport{next: http.DefaultTransport, hits: &c.tokenHits},
	}
	auth := client.NewAuthClient(c.s.serverURL)
	auth.HTTPClient = httpClient

	var refresher client.Refresher = auth
	if c.expireRefresh {
		refresher = &expiringRefresher{next: auth, steps: c.s}
	}
	session := client.NewSession(client.TokenPair{
		AccessToken:  c.s.pair.AccessToken,
		RefreshToken: c.s.pair.RefreshToken,
	}, refresher)
	return client.New(c.s.serverURL, session, client.WithHTTPClient(httpClient), client.WithTimeout(10*time.Second)), nil
}

func (c *clientSteps) iListTenantRolesWithTheClient() error {
	iam, err := c.newClient()
	if err != nil {
		return err
	}
	c.page, c.err = iam.TenantRoles().GetAll(context.Background(), client.TenantRoleQuery{}, 1, 10)
	return nil
}

func (c *clientSteps) theClientCallShouldSucceedWith(expected int) error {
	if c.err != nil {
		return fmt.Errorf("client call failed: %w", c.err)
	}
	if len(c.page.Results) != expected {
		return fmt.Errorf("expected %d results, got %d", expected, len(c.page.Results))
	}
	return nil
}

func (c *clientSteps) theClientCallShouldFailWithAnExpiredSession() error {
	if !errors.Is(c.err, errdefs.ErrSessionExpired) {
		return fmt.Errorf("expected an expired session, got %v", c.err)
	}
	return nil
}

func (c *clientSteps) theTokenEndpointShouldHaveBeenCalled(expected int64) error {
	if hits := atomic.LoadInt64(&c.tokenHits); hits != expected {
		return fmt.Errorf("expected %d token requests, got %d", expected, hits)
	}
	return nil
}
