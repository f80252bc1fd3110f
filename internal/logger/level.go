// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
)

//go:generate ${TOOLS_BIN}/stringer -type=Level
type Level int

// Levels are ordered from the most to the least severe. A message is emitted
// when its level is lower than or equal to the configured threshold.
const (
	NOLOG Level = iota
	ERROR
	WARN
	SUCCESS
	INFO
	DEBUG
)

// AllLevels lists every level a threshold can be set to.
var AllLevels = []Level{NOLOG, ERROR, WARN, SUCCESS, INFO, DEBUG}

// LevelFromString parses a level name (case insensitive) or its numeric value.
// Unknown values fall back to INFO.
func LevelFromString(level string) Level {
	level = strings.TrimSpace(level)
	if number, err := strconv.Atoi(level); err == nil {
		if number < int(NOLOG) || number > int(DEBUG) {
			return INFO
		}
		return Level(number)
	}

	switch strings.ToUpper(level) {
	case "NOLOG", "NO_LOG", "NONE", "OFF":
		return NOLOG
	case "ERROR":
		return ERROR
	case "WARN", "WARNING":
		return WARN
	case "SUCCESS":
		return SUCCESS
	case "INFO":
		return INFO
	case "DEBUG":
		return DEBUG
	default:
		return INFO
	}
}

// valid reports whether l is one of the declared levels.
func (l Level) valid() bool {
	return l >= NOLOG && l <= DEBUG
}

func (l Level) convertedLevel() hclog.Level {
	switch l {
	case ERROR:
		return hclog.Error
	case WARN:
		return hclog.Warn
	case SUCCESS, INFO:
		return hclog.Info
	case DEBUG:
		return hclog.Debug
	default:
		return hclog.Off
	}
}

func (l Level) colorAttribute() color.Attribute {
	switch l {
	case ERROR:
		return color.FgRed
	case WARN:
		return color.FgYellow
	case SUCCESS:
		return color.FgGreen
	case INFO:
		return color.FgBlue
	default:
		return color.FgWhite
	}
}
