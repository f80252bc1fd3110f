// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Ununennium119/Net2Emami/internal/config"
	"github.com/Ununennium119/Net2Emami/internal/logger"
	"github.com/Ununennium119/Net2Emami/internal/portal"
)

const (
	logoutCall = "logout"
	loginCall  = "login"
)

var (
	accepted  = portal.Result{Kind: portal.KindSuccess, StatusCode: http.StatusOK}
	rejected  = portal.Result{Kind: portal.KindRejectedByServer, StatusCode: http.StatusServiceUnavailable}
	transient = portal.Result{Kind: portal.KindTransientNetworkFailure}
)

type operation struct {
	name   string
	ok     bool
	start  time.Time
	end    time.Time
	params config.Credentials
}

// stubPortal answers with scripted results, then with accepted ones.
type stubPortal struct {
	lock       sync.Mutex
	logouts    []portal.Result
	logins     []portal.Result
	delay      time.Duration
	operations []operation
	afterCall  func(name string, count int)
}

var _ Portal = &stubPortal{}

func (s *stubPortal) Logout(_ context.Context) portal.Result {
	return s.call(logoutCall, &s.logouts, config.Credentials{})
}

func (s *stubPortal) Login(_ context.Context, credentials config.Credentials) portal.Result {
	return s.call(loginCall, &s.logins, credentials)
}

func (s *stubPortal) call(name string, queue *[]portal.Result, credentials config.Credentials) portal.Result {
	start := time.Now()
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.lock.Lock()
	result := accepted
	if len(*queue) > 0 {
		result = (*queue)[0]
		*queue = (*queue)[1:]
	}
	s.operations = append(s.operations, operation{
		name:   name,
		ok:     result.OK(),
		start:  start,
		end:    time.Now(),
		params: credentials,
	})
	count := 0
	for _, op := range s.operations {
		if op.name == name {
			count++
		}
	}
	hook := s.afterCall
	s.lock.Unlock()

	if hook != nil {
		hook(name, count)
	}
	return result
}

func (s *stubPortal) calls() []operation {
	s.lock.Lock()
	defer s.lock.Unlock()

	operations := make([]operation, len(s.operations))
	copy(operations, s.operations)
	return operations
}

func names(operations []operation) []string {
	result := make([]string, 0, len(operations))
	for _, op := range operations {
		result = append(result, op.name)
	}
	return result
}

type entry struct {
	level logger.Level
	msg   string
}

// recordingLogger keeps every message regardless of its level.
type recordingLogger struct {
	lock      sync.Mutex
	entries   []entry
	errs      []error
	shutdowns int
}

var _ logger.Logger = &recordingLogger{}

func (r *recordingLogger) Configure(logger.Level, bool, ...logger.Option) {}
func (r *recordingLogger) SetLevel(logger.Level)                          {}
func (r *recordingLogger) GetLevel() logger.Level                         { return logger.DEBUG }

func (r *recordingLogger) Log(level logger.Level, msg string, args ...interface{}) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.entries = append(r.entries, entry{level: level, msg: msg})
	for _, arg := range args {
		if err, ok := arg.(error); ok {
			r.errs = append(r.errs, err)
		}
	}
}

func (r *recordingLogger) Error(msg string, args ...interface{}) {
	r.Log(logger.ERROR, msg, args...)
}

func (r *recordingLogger) Warn(msg string, args ...interface{}) {
	r.Log(logger.WARN, msg, args...)
}

func (r *recordingLogger) Success(msg string, args ...interface{}) {
	r.Log(logger.SUCCESS, msg, args...)
}

func (r *recordingLogger) Info(msg string, args ...interface{}) {
	r.Log(logger.INFO, msg, args...)
}

func (r *recordingLogger) Debug(msg string, args ...interface{}) {
	r.Log(logger.DEBUG, msg, args...)
}

func (r *recordingLogger) Shutdown() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.shutdowns++
}

// visible returns the entries above DEBUG.
func (r *recordingLogger) visible() []entry {
	r.lock.Lock()
	defer r.lock.Unlock()

	result := make([]entry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.level != logger.DEBUG {
			result = append(result, e)
		}
	}
	return result
}

func (r *recordingLogger) loggedErrors() []error {
	r.lock.Lock()
	defer r.lock.Unlock()

	result := make([]error, len(r.errs))
	copy(result, r.errs)
	return result
}

func (r *recordingLogger) shutdownCount() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.shutdowns
}
