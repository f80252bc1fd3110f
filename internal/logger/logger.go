// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-isatty"

	"github.com/Ununennium119/Net2Emami/internal/info"
)

const (
	timestampLayout = "2006-01-02 15:04:05.000000"
	fileNameLayout  = "20060102_150405"
)

var (
	// nullLogger is a logger that discards all log messages.
	nullLogger Logger = &null{}
)

// Format selects how log lines are rendered.
type Format string

const (
	// TextFormat renders "[TAG] timestamp\t\tmessage" lines.
	TextFormat Format = "text"
	// JSONFormat renders one JSON object per line.
	JSONFormat Format = "json"
)

// FormatFromString parses a format name.
func FormatFromString(format string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(format))) {
	case "", TextFormat:
		return TextFormat, nil
	case JSONFormat:
		return JSONFormat, nil
	default:
		return "", fmt.Errorf("unknown log format %q", format)
	}
}

// Logger describes the interface that must be implemented by all loggers
type Logger interface {
	// Configure sets the level threshold and whether lines are also appended to the run log file.
	// Options change the directory and format; a file already open keeps being used.
	Configure(level Level, writeToFile bool, opts ...Option)

	// SetLevel updates the logger level.
	SetLevel(level Level)

	// GetLevel returns the current level threshold.
	GetLevel() Level

	// Log emit a message and key/value pairs at the provided level.
	Log(level Level, msg string, args ...interface{})

	// Error emit a message and key/value pairs at the ERROR level.
	Error(msg string, args ...interface{})

	// Warn emit a message and key/value pairs at the WARN level.
	Warn(msg string, args ...interface{})

	// Success emit a message and key/value pairs at the SUCCESS level.
	Success(msg string, args ...interface{})

	// Info emit a message and key/value pairs at the INFO level.
	Info(msg string, args ...interface{})

	// Debug emit a message and key/value pairs at the DEBUG level.
	Debug(msg string, args ...interface{})

	// Shutdown flushes and closes the run log file.
	Shutdown()
}

// Make sure that instance is a Logger.
var _ Logger = &instance{}

// Option customizes a logger created by NewLogger.
type Option func(*instance)

// WithDirectory sets the directory where the run log file is created.
func WithDirectory(dir string) Option {
	return func(i *instance) {
		if dir != "" {
			i.dir = dir
		}
	}
}

// WithFormat sets the rendering format.
func WithFormat(format Format) Option {
	return func(i *instance) {
		if format != "" {
			i.format = format
		}
	}
}

// WithClock overrides the time source used for timestamps and the log file name.
func WithClock(now func() time.Time) Option {
	return func(i *instance) {
		if now != nil {
			i.now = now
		}
	}
}

// instance is a Logger implementation.
type instance struct {
	lock sync.Mutex

	console   io.Writer
	colored   bool
	format    Format
	dir       string
	now       func() time.Time
	startedAt time.Time
	json      hclog.Logger

	level       Level
	writeToFile bool
	file        *os.File
}

// NewLogger creates a new logger instance writing to writer. The level threshold
// defaults to INFO and file writing is disabled until Configure enables it.
func NewLogger(writer io.Writer, opts ...Option) Logger {
	i := &instance{
		console: writer,
		colored: isTerminal(writer) && !color.NoColor,
		format:  TextFormat,
		dir:     ".",
		now:     time.Now,
		level:   INFO,
	}

	for _, opt := range opts {
		opt(i)
	}

	i.startedAt = i.now()
	i.applyFormat()

	return i
}

// applyFormat builds the hclog logger used by the JSON format. The caller must hold the lock.
func (i *instance) applyFormat() {
	i.json = nil
	if i.format == JSONFormat {
		i.json = i.newJSONLogger(&sink{instance: i})
	}
}

func (i *instance) newJSONLogger(output io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       info.AppName,
		JSONFormat: true,
		Output:     output,
		TimeFn:     i.now,
		Level:      hclog.Trace,
	})
}

func (i *instance) Configure(level Level, writeToFile bool, opts ...Option) {
	i.lock.Lock()
	defer i.lock.Unlock()

	if len(opts) > 0 {
		for _, opt := range opts {
			opt(i)
		}
		i.applyFormat()
	}

	i.setLevel(level)
	i.writeToFile = writeToFile
	if writeToFile && i.file == nil {
		i.openFile()
	}
}

func (i *instance) SetLevel(level Level) {
	i.lock.Lock()
	defer i.lock.Unlock()

	i.setLevel(level)
}

func (i *instance) setLevel(level Level) {
	if !level.valid() {
		level = INFO
	}
	i.level = level
}

func (i *instance) GetLevel() Level {
	i.lock.Lock()
	defer i.lock.Unlock()

	return i.level
}

func (i *instance) Log(level Level, msg string, args ...interface{}) {
	i.lock.Lock()
	defer i.lock.Unlock()

	i.emit(level, msg, args)
}

func (i *instance) Error(msg string, args ...interface{}) {
	i.Log(ERROR, msg, args...)
}

func (i *instance) Warn(msg string, args ...interface{}) {
	i.Log(WARN, msg, args...)
}

func (i *instance) Success(msg string, args ...interface{}) {
	i.Log(SUCCESS, msg, args...)
}

func (i *instance) Info(msg string, args ...interface{}) {
	i.Log(INFO, msg, args...)
}

func (i *instance) Debug(msg string, args ...interface{}) {
	i.Log(DEBUG, msg, args...)
}

func (i *instance) Shutdown() {
	i.lock.Lock()
	defer i.lock.Unlock()

	i.writeToFile = false
	if i.file == nil {
		return
	}

	name := i.file.Name()
	if err := i.file.Sync(); err != nil {
		i.report("cannot flush log file", "path", name, "error", err)
	}
	if err := i.file.Close(); err != nil {
		i.report("cannot close log file", "path", name, "error", err)
	}
	i.file = nil
}

// emit renders the message if level passes the threshold. The caller must hold the lock.
func (i *instance) emit(level Level, msg string, args []interface{}) {
	if level == NOLOG || !level.valid() || level > i.level {
		return
	}

	if i.json != nil {
		i.json.Log(level.convertedLevel(), msg, append([]interface{}{"tag", level.String()}, args...)...)
		return
	}

	timestamp := i.now()
	line := renderLine(level, timestamp, msg, args, false)
	if i.colored {
		fmt.Fprint(i.console, renderLine(level, timestamp, msg, args, true))
	} else {
		fmt.Fprint(i.console, line)
	}

	i.writeFile([]byte(line))
}

// renderLine builds a single text log line terminated by a newline.
func renderLine(level Level, timestamp time.Time, msg string, args []interface{}, colored bool) string {
	tag := "[" + level.String() + "]"
	if colored {
		c := color.New(level.colorAttribute())
		c.EnableColor()
		tag = c.Sprint(tag)
	}

	builder := new(strings.Builder)
	builder.WriteString(tag)
	builder.WriteString(" ")
	builder.WriteString(timestamp.Format(timestampLayout))
	builder.WriteString("\t\t")
	builder.WriteString(msg)
	for idx := 0; idx < len(args); idx += 2 {
		var value interface{} = "MISSING"
		if idx+1 < len(args) {
			value = args[idx+1]
		}
		fmt.Fprintf(builder, " %v=%v", args[idx], value)
	}
	builder.WriteString("\n")

	return builder.String()
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// NewNullLogger returns a logger that discards all log messages.
func NewNullLogger() Logger {
	return nullLogger
}

// null discards everything.
type null struct{}

func (null) Configure(Level, bool, ...Option)  {}
func (null) SetLevel(Level)                    {}
func (null) GetLevel() Level                   { return NOLOG }
func (null) Log(Level, string, ...interface{}) {}
func (null) Error(string, ...interface{})      {}
func (null) Warn(string, ...interface{})       {}
func (null) Success(string, ...interface{})    {}
func (null) Info(string, ...interface{})       {}
func (null) Debug(string, ...interface{})      {}
func (null) Shutdown()                         {}
