package eventlog

import "log/slog"

// log is the package-level logger for diagnostics not tied to a specific
// Store (a Store's own operations log through its configured cfg.Log).
var log = slog.Default()
