// Package logging provides minimal logging utilities for the moonbase BBS.
package logging

import "log"

// DebugEnabled controls whether Debug() produces output.
// It defaults to false; callers enable it by assigning it directly.
var DebugEnabled bool

// Debug logs a message only when DebugEnabled is true.
func Debug(format string, args ...any) {
	if DebugEnabled {
		log.Printf("DEBUG: "+format, args...)
	}
}

// Warnf logs a non-fatal condition: negotiation errors, repository
// retries, anything the session controller should not treat as fatal.
func Warnf(format string, args ...any) {
	log.Printf("WARN: "+format, args...)
}

// Errorf logs a fatal or session-ending condition.
func Errorf(format string, args ...any) {
	log.Printf("ERROR: "+format, args...)
}
