// Package logging configures the process-wide logger shared by all gosr
// tools. The format is fixed: severity left-justified to seven columns,
// a yymmdd:HH.MM.SS timestamp, the originating function, and the message.
package logging

import (
	"bytes"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// timeLayout renders timestamps as yymmdd:HH.MM.SS.
const timeLayout = "060102:15.04.05"

var setupOnce sync.Once

// Setup configures the shared logger exactly once per process. The quiet
// flag drops the level from debug to info; there are no other states.
// Setup must run after flag parsing and before any tool handler executes,
// so the flag can gate verbosity and handler output is captured.
func Setup(quiet bool) {
	setupOnce.Do(func() {
		configure(logrus.StandardLogger(), quiet)
	})
}

func configure(l *logrus.Logger, quiet bool) {
	l.SetOutput(os.Stderr)
	l.SetReportCaller(true)
	l.SetFormatter(lineFormatter{})
	if quiet {
		l.SetLevel(logrus.InfoLevel)
	} else {
		l.SetLevel(logrus.DebugLevel)
	}
}

// Named returns an entry on the shared logger for a single tool. Handlers
// receive this handle explicitly instead of reaching for package globals.
func Named(tool string) *logrus.Entry {
	return logrus.StandardLogger().WithField("tool", tool)
}

// lineFormatter writes LEVEL  :yymmdd:HH.MM.SS:function| message lines.
type lineFormatter struct{}

func (lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	level := strings.ToUpper(e.Level.String())
	b.WriteString(level)
	for i := len(level); i < 7; i++ {
		b.WriteByte(' ')
	}
	b.WriteByte(':')
	b.WriteString(e.Time.Format(timeLayout))
	b.WriteByte(':')
	b.WriteString(funcName(e))
	b.WriteString("| ")
	b.WriteString(e.Message)
	b.WriteByte('\n')
	return b.Bytes(), nil
}

// funcName reports the bare name of the logging function, falling back to
// the tool field when caller information is unavailable.
func funcName(e *logrus.Entry) string {
	if e.HasCaller() && e.Caller != nil {
		fn := e.Caller.Function
		if i := strings.LastIndex(fn, "."); i >= 0 {
			fn = fn[i+1:]
		}
		return fn
	}
	if tool, ok := e.Data["tool"].(string); ok {
		return tool
	}
	return ""
}
