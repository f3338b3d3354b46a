package uthread

import (
	"sync"

	"github.com/rs/zerolog"
)

// Logger is the structured logging interface the scheduler traces
// every state transition through, replacing the original C library's
// raw printf tracing (uthread_system_init, uthread_create, ... each
// printed directly to stdout).
//
// Grounded on go-eventloop/logging.go's package-level swappable
// logger design.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, err error, kv ...any)
}

var (
	loggerMu     sync.RWMutex
	activeLogger Logger = noopLogger{}
)

// SetLogger installs the logger used by the package-level scheduler.
// Passing nil restores the no-op default.
func SetLogger(l Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if l == nil {
		l = noopLogger{}
	}
	activeLogger = l
}

func currentLogger() Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return activeLogger
}

// packageLogger defers to SetLogger's current value on every call, so
// the package-level Scheduler always logs through whatever was most
// recently installed, even though it only resolves Logger once at
// construction.
type packageLogger struct{}

func (packageLogger) Debug(msg string, kv ...any)          { currentLogger().Debug(msg, kv...) }
func (packageLogger) Info(msg string, kv ...any)           { currentLogger().Info(msg, kv...) }
func (packageLogger) Warn(msg string, kv ...any)           { currentLogger().Warn(msg, kv...) }
func (packageLogger) Error(msg string, err error, kv ...any) { currentLogger().Error(msg, err, kv...) }

type noopLogger struct{}

func (noopLogger) Debug(string, ...any)        {}
func (noopLogger) Info(string, ...any)         {}
func (noopLogger) Warn(string, ...any)         {}
func (noopLogger) Error(string, error, ...any) {}

// ZerologLogger adapts github.com/rs/zerolog to Logger. kv pairs are
// interpreted as alternating key/value; an odd trailing element is
// logged under the key "extra".
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger wraps an existing zerolog.Logger.
func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{log: l}
}

func withFields(e *zerolog.Event, kv []any) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	if len(kv)%2 == 1 {
		e = e.Interface("extra", kv[len(kv)-1])
	}
	return e
}

func (z *ZerologLogger) Debug(msg string, kv ...any) {
	withFields(z.log.Debug(), kv).Msg(msg)
}

func (z *ZerologLogger) Info(msg string, kv ...any) {
	withFields(z.log.Info(), kv).Msg(msg)
}

func (z *ZerologLogger) Warn(msg string, kv ...any) {
	withFields(z.log.Warn(), kv).Msg(msg)
}

func (z *ZerologLogger) Error(msg string, err error, kv ...any) {
	withFields(z.log.Error().Err(err), kv).Msg(msg)
}
