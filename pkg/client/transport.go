package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
)

type transport struct {
	http   *http.Client
	logger *zap.Logger
}

// do sends one JSON request and decodes the response into out. Non-2xx
// responses become a *errdefs.RemoteCallError whose cause is the sentinel
// matching the error code in the body.
func (t *transport) do(ctx context.Context, method string, endpoint *url.URL, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return errdefs.Configuration("building request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return t.responseError(method, endpoint, resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (t *transport) responseError(method string, endpoint *url.URL, status int, body []byte) error {
	var errResp errdefs.ErrorResponse
	message := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}
	if message == "" {
		message = http.StatusText(status)
	}

	t.logger.Warn("remote call returned an error",
		zap.String("method", method),
		zap.String("url", endpoint.Redacted()),
		zap.Int("status", status),
		zap.String("code", errResp.Error.Code),
		zap.String("message", message),
	)

	cause := errdefs.FromStatus(status, errResp.Error.Code)
	if cause == nil {
		cause = errors.New(message)
	}
	return &errdefs.RemoteCallError{StatusCode: status, Message: message, Err: cause}
}
