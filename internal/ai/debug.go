package ai

import "sync/atomic"

// debugLoggingEnabled gates per-tick debug logging of the AI subsystem.
// Read on every dispatched action.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables debug logging for AI subsystem.
// Called once from main after the log level is known.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if debug logging is enabled.
// Use this to guard debug log calls on hot paths:
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("boss action", "action", a.Name)
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
