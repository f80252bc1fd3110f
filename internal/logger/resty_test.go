// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	buffer := new(bytes.Buffer)
	log := NewLogger(buffer, WithClock(fixedClock))
	log.SetLevel(WARN)

	requestLogger := RequestLogger(log)
	requestLogger.Errorf("request failed: %s\n", "timeout")
	requestLogger.Warnf("redirect to %s", "/login")
	requestLogger.Debugf("silenced %d", 1)

	lines := strings.Split(buffer.String(), "\n")
	assert.Len(t, lines, 3) // 2 log lines plus 1 trailing empty line
	assert.True(t, strings.HasSuffix(lines[0], "\t\trequest failed: timeout"))
	assert.True(t, strings.HasPrefix(lines[1], "[WARN]"))
}
