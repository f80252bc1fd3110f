// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package portal

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/Ununennium119/Net2Emami/internal/config"
	"github.com/Ununennium119/Net2Emami/internal/info"
	"github.com/Ununennium119/Net2Emami/internal/logger"
)

const (
	// LoginURL is the captive portal login endpoint.
	LoginURL = "https://net2.sharif.edu/login"
	// LogoutURL is the captive portal logout endpoint.
	LogoutURL = "https://net2.sharif.edu/logout"
	// DefaultTimeout bounds every call so that a stalled request cannot block the cycle.
	DefaultTimeout = 2 * time.Second

	// RequestIDHeader carries the id generated for every call.
	RequestIDHeader = "X-Request-Id"

	usernameField = "username"
	passwordField = "password"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	loginURL  string
	logoutURL string
	timeout   time.Duration
	log       logger.Logger
}

func newOptions() *options {
	return &options{
		loginURL:  LoginURL,
		logoutURL: LogoutURL,
		timeout:   DefaultTimeout,
		log:       logger.NewNullLogger(),
	}
}

// WithEndpoints points the client to a different portal.
func WithEndpoints(loginURL, logoutURL string) Option {
	return func(o *options) {
		if loginURL != "" {
			o.loginURL = loginURL
		}
		if logoutURL != "" {
			o.logoutURL = logoutURL
		}
	}
}

// WithTimeout overrides DefaultTimeout. Values lower than 1ms are ignored.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout >= time.Millisecond {
			o.timeout = timeout
		}
	}
}

// WithLogger sets the logger receiving the HTTP library diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// Client talks to the captive portal.
type Client struct {
	options

	rest *resty.Client
}

// NewClient returns a Client for the captive portal. Retries are left to the caller.
func NewClient(opts ...Option) *Client {
	o := newOptions()
	for _, opt := range opts {
		opt(o)
	}

	rest := resty.New().
		SetTimeout(o.timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", info.UserAgent()).
		SetLogger(logger.RequestLogger(o.log))

	return &Client{
		options: *o,
		rest:    rest,
	}
}

// Login posts the credentials as a form to the login endpoint.
func (c *Client) Login(ctx context.Context, credentials config.Credentials) Result {
	request := c.rest.R().SetFormData(map[string]string{
		usernameField: credentials.Username,
		passwordField: credentials.Password,
	})

	return c.do(ctx, request, resty.MethodPost, c.loginURL)
}

// Logout calls the logout endpoint.
func (c *Client) Logout(ctx context.Context) Result {
	return c.do(ctx, c.rest.R(), resty.MethodGet, c.logoutURL)
}

// do executes the request and classifies its outcome. Cancelling ctx does not abort a
// request already sent: it runs until it completes or the client timeout expires.
func (c *Client) do(ctx context.Context, request *resty.Request, method, url string) Result {
	requestID := uuid.NewString()
	request.SetContext(context.WithoutCancel(ctx)).SetHeader(RequestIDHeader, requestID)

	start := time.Now()
	response, err := request.Execute(method, url)
	result := Result{
		RequestID: requestID,
		Elapsed:   time.Since(start),
	}

	if err != nil {
		result.Kind = KindTransientNetworkFailure
		result.cause = err
		return result
	}

	result.StatusCode = response.StatusCode()
	if result.StatusCode != http.StatusOK {
		result.Kind = KindRejectedByServer
	}

	return result
}
