package tlogger

import (
	"io"
	"os"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

var (
	mu      sync.Mutex
	hlog    log.Logger
	out     io.Writer = os.Stdout
	applied bool
)

func init() {
	configure(out, "info")
}

func configure(w io.Writer, lvl string) {
	base := log.NewLogfmtLogger(log.NewSyncWriter(w))
	hl := log.With(base, "ts", log.DefaultTimestampUTC, "caller", log.Caller(6))

	var opt level.Option
	switch lvl {
	case "debug":
		opt = level.AllowDebug()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	case "all":
		opt = level.AllowAll()
	default:
		opt = level.AllowInfo()
	}

	hlog = level.NewFilter(hl, opt)
}

// ApplyLogLevel sets the minimum logging level. Only the first call per process has an effect.
func ApplyLogLevel(lvl string) {
	mu.Lock()
	defer mu.Unlock()
	if applied {
		return
	}
	applied = true
	configure(out, lvl)
}

// SetOutput redirects log output and resets the level filter to lvl.
func SetOutput(w io.Writer, lvl string) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	configure(out, lvl)
}

// Debug add a log entry w/ Debug level
func Debug(keyvals ...interface{}) {
	level.Debug(hlog).Log(keyvals...)
}

// Info add a log entry w/ Info level
func Info(keyvals ...interface{}) {
	level.Info(hlog).Log(keyvals...)
}

// Warn add a log entry w/ Warn level
func Warn(keyvals ...interface{}) {
	level.Warn(hlog).Log(keyvals...)
}

// Error add a log entry w/ Error level
func Error(keyvals ...interface{}) {
	level.Error(hlog).Log(keyvals...)
}
