package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/metrics"
)

// DefaultTimeout bounds every remote call, retry included
const DefaultTimeout = 30 * time.Second

// Op performs one attempt of a remote operation against endpoint using token
type Op[T any] func(ctx context.Context, endpoint *url.URL, token string) (T, error)

// Retrier runs remote operations with a single token refresh and retry
type Retrier struct {
	baseURL string
	holder  TokenHolder
	timeout time.Duration
	logger  *zap.Logger
	hook    TransitionHook
}

// NewRetrier creates a Retrier for the service at baseURL
func NewRetrier(baseURL string, holder TokenHolder, opts ...Option) *Retrier {
	o := newOptions(opts)
	return &Retrier{
		baseURL: baseURL,
		holder:  holder,
		timeout: o.timeout,
		logger:  o.logger,
		hook:    o.hook,
	}
}

// Call runs op against baseURL+path.
//
// A malformed endpoint fails with ErrConfiguration before op runs. When op
// reports ErrTokenExpired the session is refreshed and op runs exactly once
// more; a failed refresh or a second expiry ends in ErrSessionExpired. Any
// other failure is returned as a *errdefs.RemoteCallError.
func Call[T any](ctx context.Context, r *Retrier, operation, path string, op Op[T]) (T, error) {
	var zero T
	start := time.Now()
	state := StateIdle
	move := func(to State) {
		if r.hook != nil {
			r.hook(operation, state, to)
		}
		state = to
	}
	finish := func(outcome string) {
		metrics.RemoteCallsTotal.WithLabelValues(operation, outcome).Inc()
		metrics.RemoteCallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}

	endpoint, err := r.resolve(path)
	if err != nil {
		move(StateFailed)
		finish("failed")
		return zero, err
	}
	if r.holder == nil {
		move(StateFailed)
		finish("failed")
		return zero, errdefs.Configuration("no session for %s", operation)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	move(StateCalling)
	v, err := op(ctx, endpoint, r.holder.AccessToken())
	if err == nil {
		move(StateSuccess)
		finish("success")
		return v, nil
	}
	if !errors.Is(err, errdefs.ErrTokenExpired) {
		move(StateFailed)
		finish("failed")
		return zero, remoteError(operation, err)
	}

	move(StateAuthFailed)
	r.logger.Info("access token expired, refreshing", zap.String("operation", operation))

	move(StateRefreshing)
	if err := r.holder.Refresh(ctx); err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		r.logger.Warn("token refresh failed", zap.String("operation", operation), zap.Error(err))
		move(StateFailed)
		finish("session_expired")
		return zero, fmt.Errorf("%w: %s: refresh failed: %v", errdefs.ErrSessionExpired, operation, err)
	}
	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()

	move(StateRetrying)
	v, err = op(ctx, endpoint, r.holder.AccessToken())
	switch {
	case err == nil:
		move(StateSuccess)
		finish("retried")
		return v, nil
	case errors.Is(err, errdefs.ErrTokenExpired):
		r.logger.Warn("token rejected after refresh", zap.String("operation", operation))
		move(StateFailed)
		finish("session_expired")
		return zero, fmt.Errorf("%w: %s: token rejected after refresh", errdefs.ErrSessionExpired, operation)
	default:
		move(StateFailed)
		finish("failed")
		return zero, remoteError(operation, err)
	}
}

func (r *Retrier) resolve(path string) (*url.URL, error) {
	base, err := url.Parse(r.baseURL)
	if err != nil {
		return nil, errdefs.Configuration("invalid base url %q: %v", r.baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errdefs.Configuration("base url %q must be absolute", r.baseURL)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return nil, errdefs.Configuration("invalid path %q: %v", path, err)
	}
	if ref.IsAbs() || ref.Host != "" {
		return nil, errdefs.Configuration("path %q must be relative", path)
	}

	endpoint := base.JoinPath(ref.Path)
	endpoint.RawQuery = ref.RawQuery
	return endpoint, nil
}

func remoteError(operation string, err error) error {
	var rce *errdefs.RemoteCallError
	if errors.As(err, &rce) {
		if rce.Operation == "" {
			rce.Operation = operation
		}
		return rce
	}
	msg := err.Error()
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "timed out"
	}
	return &errdefs.RemoteCallError{Operation: operation, Message: msg, Err: err}
}
