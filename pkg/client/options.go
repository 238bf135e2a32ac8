package client

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

type options struct {
	timeout    time.Duration
	logger     *zap.Logger
	hook       TransitionHook
	httpClient *http.Client
}

// Option configures a Client or a Retrier
type Option func(*options)

// WithTimeout overrides DefaultTimeout
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTransitionHook observes call state changes
func WithTransitionHook(hook TransitionHook) Option {
	return func(o *options) { o.hook = hook }
}

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		timeout:    DefaultTimeout,
		logger:     zap.NewNop(),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
