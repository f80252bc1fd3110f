// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package fake provides a scripted captive portal listening on the loopback interface.
package fake

import (
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Ununennium119/Net2Emami/internal/logger"
)

const (
	LoginPath  = "/login"
	LogoutPath = "/logout"

	requestIDHeader = "X-Request-Id"
	requestIDLocal  = "requestId"
	shutdownTimeout = 5 * time.Second
)

// Call is a request received by the portal.
type Call struct {
	Method    string
	Path      string
	Username  string
	Password  string
	RequestID string
	UserAgent string
	At        time.Time
}

// Portal answers login and logout calls with scripted status codes. Once a route
// script is exhausted every further call on that route is answered with 200.
type Portal struct {
	tb       testing.TB
	app      *fiber.App
	listener net.Listener

	lock     sync.Mutex
	statuses map[string][]int
	delays   map[string]time.Duration
	calls    []Call
}

// NewPortal starts a portal on a random loopback port. It is stopped on test cleanup.
func NewPortal(tb testing.TB, log logger.Logger) *Portal {
	tb.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		tb.Fatalf("fake portal listen: %s", err)
	}

	portal := &Portal{
		tb:       tb,
		listener: listener,
		statuses: make(map[string][]int),
		delays:   make(map[string]time.Duration),
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Immutable:             true,
	})
	app.Use(requestLogger(log))
	app.Post(LoginPath, portal.handle(LoginPath))
	app.Get(LogoutPath, portal.handle(LogoutPath))
	portal.app = app

	go func() {
		_ = app.Listener(listener)
	}()

	tb.Cleanup(portal.Close)
	return portal
}

// URL returns the base URL of the portal.
func (p *Portal) URL() string {
	return "http://" + p.listener.Addr().String()
}

// LoginURL returns the URL of the login endpoint.
func (p *Portal) LoginURL() string {
	return p.URL() + LoginPath
}

// LogoutURL returns the URL of the logout endpoint.
func (p *Portal) LogoutURL() string {
	return p.URL() + LogoutPath
}

// ScriptLogin queues the status codes returned by the next login calls.
func (p *Portal) ScriptLogin(statuses ...int) {
	p.script(LoginPath, statuses)
}

// ScriptLogout queues the status codes returned by the next logout calls.
func (p *Portal) ScriptLogout(statuses ...int) {
	p.script(LogoutPath, statuses)
}

// DelayLogin makes every login call wait before answering.
func (p *Portal) DelayLogin(delay time.Duration) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.delays[LoginPath] = delay
}

// DelayLogout makes every logout call wait before answering.
func (p *Portal) DelayLogout(delay time.Duration) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.delays[LogoutPath] = delay
}

// Calls returns a copy of the calls received so far.
func (p *Portal) Calls() []Call {
	p.lock.Lock()
	defer p.lock.Unlock()

	calls := make([]Call, len(p.calls))
	copy(calls, p.calls)
	return calls
}

// Close stops the portal. Calling it more than once is safe.
func (p *Portal) Close() {
	p.tb.Helper()
	if err := p.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		p.tb.Logf("fake portal shutdown: %s", err)
	}
	_ = p.listener.Close()
}

func (p *Portal) script(path string, statuses []int) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.statuses[path] = append(p.statuses[path], statuses...)
}

func (p *Portal) handle(path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		call := Call{
			Method:    c.Method(),
			Path:      c.Path(),
			RequestID: requestIDFromLocals(c),
			UserAgent: c.Get(fiber.HeaderUserAgent),
			At:        time.Now(),
		}
		if c.Method() == fiber.MethodPost {
			call.Username = c.FormValue("username")
			call.Password = c.FormValue("password")
		}

		status, delay := p.record(path, call)
		if delay > 0 {
			time.Sleep(delay)
		}

		return c.SendStatus(status)
	}
}

// record stores the call and pops the next scripted status for path.
func (p *Portal) record(path string, call Call) (int, time.Duration) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.calls = append(p.calls, call)
	status := http.StatusOK
	if queue := p.statuses[path]; len(queue) > 0 {
		status = queue[0]
		p.statuses[path] = queue[1:]
	}

	return status, p.delays[path]
}

// requestLogger logs every request and its completion, tagging both with the
// caller's request id or a generated one.
func requestLogger(log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals(requestIDLocal, requestID)

		start := time.Now()
		log.Debug("incoming request", "method", c.Method(), "path", c.Path(), "requestId", requestID)
		err := c.Next()
		log.Debug("request completed",
			"method", c.Method(),
			"path", c.Path(),
			"requestId", requestID,
			"status", c.Response().StatusCode(),
			"responseTime", time.Since(start).Milliseconds(),
		)

		return err
	}
}

func requestIDFromLocals(c *fiber.Ctx) string {
	requestID, _ := c.Locals(requestIDLocal).(string)
	return requestID
}
