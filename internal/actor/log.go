package actor

import (
	"context"
	"log/slog"

	"github.com/btcsuite/btclog/v2"
)

// ctxLogger is a thin, context-aware structured logger: every package
// exposes a package-level `log` value with TraceS/DebugS/InfoS/WarnS/ErrorS
// methods
// that accept a context and a message (WarnS and ErrorS also an error)
// followed by key-value pairs. It is
// backed by a standard library slog.Logger so it composes with any
// slog.Handler (text, JSON, or a fan-out handler set).
type ctxLogger struct {
	inner *slog.Logger
}

// newCtxLogger wraps the given slog.Logger, defaulting to slog.Default when
// none is supplied.
func newCtxLogger(inner *slog.Logger) *ctxLogger {
	if inner == nil {
		inner = slog.Default()
	}

	return &ctxLogger{inner: inner}
}

func (l *ctxLogger) TraceS(ctx context.Context, msg string, kv ...any) {
	l.inner.Log(ctx, slog.LevelDebug-4, msg, kv...)
}

func (l *ctxLogger) DebugS(ctx context.Context, msg string, kv ...any) {
	l.inner.DebugContext(ctx, msg, kv...)
}

func (l *ctxLogger) InfoS(ctx context.Context, msg string, kv ...any) {
	l.inner.InfoContext(ctx, msg, kv...)
}

func (l *ctxLogger) WarnS(ctx context.Context, msg string, err error, kv ...any) {
	if err != nil {
		kv = append(kv, "err", err)
	}
	l.inner.WarnContext(ctx, msg, kv...)
}

func (l *ctxLogger) ErrorS(ctx context.Context, msg string, err error, kv ...any) {
	if err != nil {
		kv = append(kv, "err", err)
	}
	l.inner.ErrorContext(ctx, msg, kv...)
}

// log is the package-level logger of this package; the runtime itself does
// not log through it. It can
// be replaced wholesale via SetLogger, e.g. to route actor diagnostics into
// a btclog-backed multi-handler fanning out to file and console sinks.
var log = newCtxLogger(nil)

// SetLogger installs a new backing slog.Logger for all actor-package log
// output. Typical callers hand in a logger built from a btclog.Handler (or a
// handler set fanning out to several sinks) so actor diagnostics share the
// process's structured logging configuration.
func SetLogger(backing *slog.Logger) {
	log = newCtxLogger(backing)
}

// NewSlogHandlerFromBtclog adapts a btclog/v2 handler into the slog.Handler
// this package expects, for callers that already maintain a btclog-based
// logging subsystem (rotating file handler, console handler, etc.).
func NewSlogHandlerFromBtclog(h btclog.Handler) *slog.Logger {
	return slog.New(h)
}
