// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package portal

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTransientNetworkFailure reports a request that could not be sent or answered:
	// timeouts, DNS, refused connections, TLS errors.
	ErrTransientNetworkFailure = errors.New("request failed to send")
	// ErrRejectedByServer reports a response with a status code other than 200.
	ErrRejectedByServer = errors.New("rejected by server")
)

//go:generate ${TOOLS_BIN}/stringer -type=Kind -trimprefix=Kind
type Kind int

const (
	KindSuccess Kind = iota
	KindTransientNetworkFailure
	KindRejectedByServer
)

// Result is the outcome of a single portal call.
type Result struct {
	Kind       Kind
	StatusCode int
	Elapsed    time.Duration
	RequestID  string

	cause error
}

// OK reports whether the portal accepted the call.
func (r Result) OK() bool {
	return r.Kind == KindSuccess
}

// Err returns nil for a successful call, otherwise a *FailureError.
func (r Result) Err() error {
	switch r.Kind {
	case KindTransientNetworkFailure:
		return &FailureError{Reason: ErrTransientNetworkFailure, cause: r.cause}
	case KindRejectedByServer:
		return &FailureError{Reason: ErrRejectedByServer, StatusCode: r.StatusCode}
	default:
		return nil
	}
}

// FailureError describes why a portal call failed.
type FailureError struct {
	Reason     error
	StatusCode int

	cause error
}

func (e *FailureError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.Reason, e.cause)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d", e.Reason, e.StatusCode)
	}
	return e.Reason.Error()
}

func (e *FailureError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.cause}
}
