// Package bbserr defines the error kinds shared across the telnet engine,
// repositories, and session controller.
package bbserr

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
)

// Kind classifies an Error the way the session controller needs to react to
// it: end the session silently, show the user a message and continue, or
// abort initialization.
type Kind int

const (
	// KindIO is a transport error that isn't a clean disconnect.
	KindIO Kind = iota
	// KindClientDisconnected means the peer went away; not logged as fatal.
	KindClientDisconnected
	// KindInvalidInput means user-supplied data failed validation.
	KindInvalidInput
	// KindAuthenticationFailed means bad credentials, an inactive account,
	// or too many failed login attempts.
	KindAuthenticationFailed
	// KindConfiguration is an unrecoverable initialization error.
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindClientDisconnected:
		return "client_disconnected"
	case KindInvalidInput:
		return "invalid_input"
	case KindAuthenticationFailed:
		return "authentication_failed"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Error is the concrete error type every package in this module returns.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, bbserr.ErrClientDisconnected) work against the
// sentinel-style Kind checks below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels usable with errors.Is for kind-only comparisons.
var (
	ErrClientDisconnected = &Error{Kind: KindClientDisconnected, Msg: "client disconnected"}
	ErrAuthFailed         = &Error{Kind: KindAuthenticationFailed, Msg: "authentication failed"}
)

// New builds an Error of the given kind wrapping cause.
func New(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// InvalidInput builds a KindInvalidInput error.
func InvalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Msg: fmt.Sprintf(format, args...)}
}

// AuthFailed builds a KindAuthenticationFailed error.
func AuthFailed(format string, args ...any) *Error {
	return &Error{Kind: KindAuthenticationFailed, Msg: fmt.Sprintf(format, args...)}
}

// Configuration builds a KindConfiguration error.
func Configuration(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Msg: fmt.Sprintf(format, args...)}
}

// FromIO reclassifies a raw I/O error the way original_source/src/errors.rs's
// `impl From<std::io::Error> for BbsError` does: EOF/reset/aborted become a
// clean disconnect, everything else is a generic transport error.
func FromIO(err error) *Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.ErrClosedPipe) {
		return &Error{Kind: KindClientDisconnected, Msg: "client disconnected", Cause: err}
	}
	msg := err.Error()
	if strings.Contains(msg, "reset by peer") || strings.Contains(msg, "connection abort") ||
		strings.Contains(msg, "broken pipe") || strings.Contains(msg, "use of closed network connection") {
		return &Error{Kind: KindClientDisconnected, Msg: "client disconnected", Cause: err}
	}
	if ne, ok := err.(net.Error); ok && !ne.Timeout() {
		return &Error{Kind: KindIO, Msg: "network error", Cause: err}
	}
	return &Error{Kind: KindIO, Msg: "io error", Cause: err}
}

// IsClientDisconnected reports whether err classifies as a clean disconnect.
func IsClientDisconnected(err error) bool {
	return IsKind(err, KindClientDisconnected)
}

// IsKind reports whether err is a *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
