// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Ununennium119/Net2Emami/internal/config"
	"github.com/Ununennium119/Net2Emami/internal/logger"
	"github.com/Ununennium119/Net2Emami/internal/portal"
)

const (
	loginOperation  = "Login"
	logoutOperation = "Logout"
)

// Portal is the captive portal the cycler logs in to and out of.
type Portal interface {
	Login(ctx context.Context, credentials config.Credentials) portal.Result
	Logout(ctx context.Context) portal.Result
}

// Cycler runs the logout, login, wait loop.
type Cycler struct {
	credentials config.Credentials
	timings     config.Timings
	portal      Portal
	log         logger.Logger

	state    atomic.Int32
	stop     chan struct{}
	stopOnce sync.Once
}

// New returns a Cycler ready to Run.
func New(credentials config.Credentials, timings config.Timings, client Portal, log logger.Logger) *Cycler {
	if log == nil {
		log = logger.NewNullLogger()
	}

	return &Cycler{
		credentials: credentials,
		timings:     timings,
		portal:      client,
		log:         log,
		stop:        make(chan struct{}),
	}
}

// State returns the current state of the cycler.
func (c *Cycler) State() State {
	return State(c.state.Load())
}

// Run blocks until Stop is called or ctx is cancelled. A stop request ends any wait
// in progress immediately; a request already sent is left to complete or time out.
// Before returning Run shuts the logger down. A Cycler runs at most once.
func (c *Cycler) Run(ctx context.Context) {
	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		c.log.Warn("session cycle already started", "state", c.State().String())
		return
	}

	c.log.Info("Press Ctrl+C to stop.")
	c.loop(ctx)

	c.state.Store(int32(StateStopping))
	c.log.Info("Stopping...")
	c.log.Shutdown()
	c.state.Store(int32(StateStopped))
}

// Stop asks Run to return. It can be called any number of times from any goroutine.
func (c *Cycler) Stop() {
	c.stopOnce.Do(func() {
		c.state.CompareAndSwap(int32(StateRunning), int32(StateStopping))
		close(c.stop)
	})
}

func (c *Cycler) loop(ctx context.Context) {
	for cycle := 1; ; cycle++ {
		c.log.Debug("starting cycle", "cycle", cycle)
		if !c.retry(ctx, logoutOperation, c.AttemptLogout, c.timings.LogoutRetryInterval) {
			return
		}
		if !c.retry(ctx, loginOperation, c.AttemptLogin, c.timings.LoginRetryInterval) {
			return
		}

		c.log.Info("Waiting for the next cycle", "interval", c.timings.CycleInterval.String())
		if !c.wait(ctx, c.timings.CycleInterval) {
			return
		}
	}
}

// retry calls attempt until it succeeds, waiting interval after every failure.
// It returns false if the cycler is stopped first.
func (c *Cycler) retry(ctx context.Context, operation string, attempt func(context.Context) bool, interval time.Duration) bool {
	for {
		if c.stopping(ctx) {
			return false
		}
		if attempt(ctx) {
			return true
		}

		c.log.Debug("retrying "+operation, "interval", interval.String())
		if !c.wait(ctx, interval) {
			return false
		}
	}
}

// wait sleeps for interval and reports false if the cycler was stopped meanwhile.
func (c *Cycler) wait(ctx context.Context, interval time.Duration) bool {
	timer := time.NewTimer(interval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-c.stop:
		return false
	case <-ctx.Done():
		return false
	}
}

func (c *Cycler) stopping(ctx context.Context) bool {
	select {
	case <-c.stop:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// AttemptLogin posts the credentials to the portal and reports whether it answered 200.
func (c *Cycler) AttemptLogin(ctx context.Context) bool {
	c.log.Info("Sending login request...")
	return c.report(loginOperation, c.portal.Login(ctx, c.credentials))
}

// AttemptLogout calls the portal logout and reports whether it answered 200.
func (c *Cycler) AttemptLogout(ctx context.Context) bool {
	c.log.Info("Sending logout request...")
	return c.report(logoutOperation, c.portal.Logout(ctx))
}

// report logs the outcome of a call. Both failure kinds fold into false.
func (c *Cycler) report(operation string, result portal.Result) bool {
	switch result.Kind {
	case portal.KindSuccess:
		c.log.Success(operation + " successful")
	case portal.KindRejectedByServer:
		c.log.Error(operation+" rejected by server", "status", result.StatusCode, "error", result.Err())
	default:
		c.log.Error(operation+" request failed to send", "error", result.Err())
	}

	c.log.Debug(operation+" request completed",
		"outcome", result.Kind.String(),
		"requestId", result.RequestID,
		"elapsed", result.Elapsed.String(),
	)
	return result.OK()
}
