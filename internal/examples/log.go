package examples

import (
	"context"
	"log/slog"
)

// log mirrors internal/actor's package-level structured logger convention
// (context first, then message and key-values), scoped to this package's
// example actors; it provides only InfoS, ErrorS and DebugS.
var log = logger{slog.Default()}

type logger struct{ *slog.Logger }

func (l logger) InfoS(ctx context.Context, msg string, kv ...any)  { l.InfoContext(ctx, msg, kv...) }
func (l logger) ErrorS(ctx context.Context, msg string, err error, kv ...any) {
	l.ErrorContext(ctx, msg, append(kv, "err", err)...)
}
func (l logger) DebugS(ctx context.Context, msg string, kv ...any) { l.DebugContext(ctx, msg, kv...) }
