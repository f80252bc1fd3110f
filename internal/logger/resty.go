// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

var _ resty.Logger = &requestLogger{}

// requestLogger exposes a Logger through the printf style interface used by resty.
type requestLogger struct {
	log Logger
}

// RequestLogger adapts log so that it can be passed to resty.Client.SetLogger.
func RequestLogger(log Logger) resty.Logger {
	return &requestLogger{log: log}
}

func (r *requestLogger) Errorf(format string, v ...interface{}) {
	r.log.Error(sprintf(format, v...))
}

func (r *requestLogger) Warnf(format string, v ...interface{}) {
	r.log.Warn(sprintf(format, v...))
}

func (r *requestLogger) Debugf(format string, v ...interface{}) {
	r.log.Debug(sprintf(format, v...))
}

// sprintf formats the message and drops the trailing newline resty appends.
func sprintf(format string, v ...interface{}) string {
	return strings.TrimRight(fmt.Sprintf(format, v...), "\n")
}
