// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Ununennium119/Net2Emami/internal/info"
)

// fileName returns the path of the run log file, derived from the logger creation time.
func (i *instance) fileName() string {
	return filepath.Join(i.dir, info.AppName+"_"+i.startedAt.Format(fileNameLayout)+".log")
}

// openFile creates, or reopens for append, the run log file. A failure disables file
// writing and is reported on the console only. The caller must hold the lock.
func (i *instance) openFile() {
	path := i.fileName()
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		i.writeToFile = false
		i.report("cannot create log file, logging to console only", "path", path, "error", err)
		return
	}

	i.file = file
	i.emit(DEBUG, "writing log file", []interface{}{"path", path})
}

// writeFile appends data to the run log file when file writing is enabled.
// The caller must hold the lock.
func (i *instance) writeFile(data []byte) {
	if !i.writeToFile || i.file == nil {
		return
	}

	if _, err := i.file.Write(data); err != nil {
		name := i.file.Name()
		_ = i.file.Close()
		i.file = nil
		i.writeToFile = false
		i.report("cannot write log file, logging to console only", "path", name, "error", err)
	}
}

// report writes a WARN line about the file sink straight to the console, in the
// configured format. It can be called from inside the hclog output path, so JSON lines
// go through a second hclog logger that does not share the sink.
func (i *instance) report(msg string, args ...interface{}) {
	if WARN > i.level {
		return
	}

	if i.format == JSONFormat {
		i.newJSONLogger(i.console).Log(WARN.convertedLevel(), msg, append([]interface{}{"tag", WARN.String()}, args...)...)
		return
	}

	fmt.Fprint(i.console, renderLine(WARN, i.now(), msg, args, i.colored))
}

// sink receives hclog output and fans it out to the console and the run log file.
// hclog only calls it while the instance lock is held.
type sink struct {
	instance *instance
}

func (s *sink) Write(data []byte) (int, error) {
	if _, err := s.instance.console.Write(data); err != nil {
		return 0, err
	}

	s.instance.writeFile(data)
	return len(data), nil
}
