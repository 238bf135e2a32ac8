package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/token"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	serverURL    string
	instance     *ServerInstance
	response     *http.Response
	responseBody []byte
	pair         *token.Pair
	userID       int64
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:        tc,
		serverURL: tc.ServerURL,
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^the IAM server is running$`, s.theIAMServerIsRunning)
	sc.Step(`^an IAM server with a page size limit of (\d+) is running$`, s.anIAMServerWithPageSizeLimit)
	sc.Step(`^a tenant (\d+) named "([^"]*)" exists$`, s.aTenantExists)
	sc.Step(`^a role (\d+) named "([^"]*)" exists$`, s.aRoleExists)
	sc.Step(`^a permission (\d+) named "([^"]*)" exists$`, s.aPermissionExists)

	// Authentication steps
	sc.Step(`^I am authenticated as user (\d+)$`, s.iAmAuthenticatedAsUser)
	sc.Step(`^I am not authenticated$`, s.iAmNotAuthenticated)
	sc.Step(`^my access token has expired$`, s.myAccessTokenHasExpired)
	sc.Step(`^I request a new token with my refresh token$`, s.iRequestANewTokenWithMyRefreshToken)
	sc.Step(`^I request a new token with refresh token "([^"]*)"$`, s.iRequestANewTokenWith)
	sc.Step(`^I should receive a valid token pair$`, s.iShouldReceiveAValidTokenPair)

	// Request steps
	sc.Step(`^I send a (GET|POST|DELETE) request to "([^"]*)"$`, s.iSendARequestTo)
	sc.Step(`^I send a POST request to "([^"]*)" with body:$`, s.iSendAPOSTRequestWithBody)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response body should be "([^"]*)"$`, s.theResponseBodyShouldBe)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, s.theResponseFieldShouldBe)
	sc.Step(`^the error code should be "([^"]*)"$`, s.theErrorCodeShouldBe)
	sc.Step(`^the response should list (\d+) results?$`, s.theResponseShouldListResults)

	// Database steps
	sc.Step(`^(\d+) tenant roles? should exist$`, s.tenantRolesShouldExist)
	sc.Step(`^user (\d+) should have (\d+) active tenants?$`, s.userShouldHaveActiveTenants)

	(&clientSteps{s: s}).register(sc)

	sc.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		if s.instance != nil {
			s.instance.Stop()
		}
		return ctx, err
	})
}

// Background steps

func (s *StepsContext) theIAMServerIsRunning() error {
	return s.tc.Reset()
}

func (s *StepsContext) anIAMServerWithPageSizeLimit(limit int) error {
	cfg := DefaultServerConfig()
	cfg.PageSizeMax = limit
	instance, err := StartServer(s.tc, cfg)
	if err != nil {
		return err
	}
	s.instance = instance
	s.serverURL = instance.ServerURL
	return nil
}

func (s *StepsContext) aTenantExists(id int64, name string) error {
	return s.tc.DB.Exec(`INSERT INTO tenants (id, name, tenant_key, tenant_type, create_date)
		VALUES (?, ?, ?, 'CLIENT', ?)`, id, name, strings.ToLower(name), time.Now()).Error
}

func (s *StepsContext) aRoleExists(id int64, name string) error {
	return s.tc.DB.Exec(`INSERT INTO roles (id, name, create_date) VALUES (?, ?, ?)`,
		id, name, time.Now()).Error
}

func (s *StepsContext) aPermissionExists(id int64, name string) error {
	return s.tc.DB.Exec(`INSERT INTO permissions (id, name, create_date) VALUES (?, ?, ?)`,
		id, name, time.Now()).Error
}

// Request steps

func (s *StepsContext) iSendARequestTo(method, path string) error {
	return s.send(method, path, "", nil)
}

func (s *StepsContext) iSendAPOSTRequestWithBody(path string, body *godog.DocString) error {
	return s.send("POST", path, "application/json", strings.NewReader(body.Content))
}

func (s *StepsContext) send(method, path, contentType string, body io.Reader) error {
	req, err := http.NewRequest(method, s.serverURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.pair != nil {
		req.Header.Set("Authorization", token.TypeBearer+" "+s.pair.AccessToken)
	}
	return s.do(req)
}

func (s *StepsContext) do(req *http.Request) error {
	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expected int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldBe(expected string) error {
	actual := strings.TrimSpace(string(s.responseBody))
	if actual != expected {
		return fmt.Errorf("expected body %q, got %q", expected, actual)
	}
	return nil
}

func (s *StepsContext) theResponseFieldShouldBe(field, expected string) error {
	var body map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("response is not a JSON object: %w", err)
	}
	value, ok := body[field]
	if !ok {
		return fmt.Errorf("response has no field %q: %s", field, string(s.responseBody))
	}
	if actual := fmt.Sprintf("%v", value); actual != expected {
		return fmt.Errorf("expected %s to be %q, got %q", field, expected, actual)
	}
	return nil
}

func (s *StepsContext) theErrorCodeShouldBe(expected string) error {
	var body errdefs.ErrorResponse
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("response is not an error body: %w", err)
	}
	if body.Error.Code != expected {
		return fmt.Errorf("expected error code %q, got %q (%s)", expected, body.Error.Code, body.Error.Message)
	}
	return nil
}

func (s *StepsContext) theResponseShouldListResults(expected int) error {
	var page struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(s.responseBody, &page); err != nil {
		return fmt.Errorf("response is not a page: %w", err)
	}
	if len(page.Results) != expected {
		return fmt.Errorf("expected %d results, got %d", expected, len(page.Results))
	}
	return nil
}

// Database steps

func (s *StepsContext) tenantRolesShouldExist(expected int64) error {
	var count int64
	if err := s.tc.DB.Raw(`SELECT COUNT(*) FROM tenant_roles`).Scan(&count).Error; err != nil {
		return err
	}
	if count != expected {
		return fmt.Errorf("expected %d tenant roles, got %d", expected, count)
	}
	return nil
}

func (s *StepsContext) userShouldHaveActiveTenants(userID, expected int64) error {
	var count int64
	if err := s.tc.DB.Raw(`SELECT COUNT(*) FROM active_tenants WHERE user_id = ?`, userID).Scan(&count).Error; err != nil {
		return err
	}
	if count != expected {
		return fmt.Errorf("expected user %d to have %d active tenants, got %d", userID, expected, count)
	}
	return nil
}
