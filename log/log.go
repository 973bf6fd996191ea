// Package log exports the leveled logging primitives used throughout
// the naming server, storage servers, and remote-invocation runtime.
// It offers leveled Debug/Info/Error functions plus Fatal/Fatalf in the
// style of Go's standard log package, backed by logrus so that fields
// attach structured context (call ID, method, path) to each
// line instead of being interpolated into the message string.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Level is the level of logging.
type Level int

// The logging levels, lowest severity first.
const (
	Ldebug Level = iota
	Linfo
	Lerror
	Ldisabled
)

func (l Level) String() string {
	switch l {
	case Ldebug:
		return "debug"
	case Linfo:
		return "info"
	case Lerror:
		return "error"
	case Ldisabled:
		return "disabled"
	}
	return "unknown"
}

func (l Level) logrusLevel() logrus.Level {
	switch l {
	case Ldebug:
		return logrus.DebugLevel
	case Linfo:
		return logrus.InfoLevel
	case Lerror:
		return logrus.ErrorLevel
	default:
		return logrus.PanicLevel + 1 // never fires; Ldisabled short-circuits below.
	}
}

// Field is one piece of structured context attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field. It exists so call sites read log.Info("registered",
// log.F("callID", id), log.F("duplicates", n)) instead of constructing
// logrus.Fields maps by hand.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

var (
	base  = logrus.New()
	level = Linfo
)

func init() {
	base.SetOutput(os.Stderr)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// SetLevel sets the current logging level. Lines below the current
// level are dropped instead of formatted, so the hot read/write/size
// path can log at Debug without cost in production.
func SetLevel(l Level) {
	level = l
	if l == Ldisabled {
		base.SetOutput(io.Discard)
		return
	}
	base.SetOutput(os.Stderr)
	base.SetLevel(l.logrusLevel())
}

// CurrentLevel returns the current logging level.
func CurrentLevel() Level {
	return level
}

func entry(fields []Field) *logrus.Entry {
	if len(fields) == 0 {
		return logrus.NewEntry(base)
	}
	lf := make(logrus.Fields, len(fields))
	for _, f := range fields {
		lf[f.Key] = f.Value
	}
	return base.WithFields(lf)
}

// Debug writes a debug-level message with structured fields.
func Debug(msg string, fields ...Field) {
	if level > Ldebug {
		return
	}
	entry(fields).Debug(msg)
}

// Info writes an info-level message with structured fields.
func Info(msg string, fields ...Field) {
	if level > Linfo {
		return
	}
	entry(fields).Info(msg)
}

// Error writes an error-level message with structured fields.
func Error(msg string, fields ...Field) {
	if level > Lerror {
		return
	}
	entry(fields).Error(msg)
}

// Debugf writes a formatted debug-level message, mirroring the
// fmt.Printf-style convenience functions of Go's log package.
func Debugf(format string, v ...interface{}) {
	if level > Ldebug {
		return
	}
	logrus.NewEntry(base).Debugf(format, v...)
}

// Infof writes a formatted info-level message.
func Infof(format string, v ...interface{}) {
	if level > Linfo {
		return
	}
	logrus.NewEntry(base).Infof(format, v...)
}

// Errorf writes a formatted error-level message.
func Errorf(format string, v ...interface{}) {
	if level > Lerror {
		return
	}
	logrus.NewEntry(base).Errorf(format, v...)
}

// Fatal writes a message and aborts the process, regardless of level;
// at Ldisabled the message is discarded but the process still exits.
func Fatal(v ...interface{}) {
	logrus.NewEntry(base).Fatal(v...)
}

// Fatalf writes a formatted message and aborts the process, regardless
// of level; at Ldisabled the message is discarded.
func Fatalf(format string, v ...interface{}) {
	logrus.NewEntry(base).Fatalf(format, v...)
}
