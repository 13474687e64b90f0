package yourls

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure categories the client distinguishes.
// Everything downstream of the transport branches on kinds, never on raw
// YOURLS response fields.
type ErrorKind int

const (
	// KindRemote is a response the server produced with a non-success
	// status and a remote-defined code. The remote message is preserved
	// verbatim.
	KindRemote ErrorKind = iota

	// KindNotFound means the keyword or destination does not exist.
	// Expected outcome, used constantly by fallbacks to test existence.
	KindNotFound

	// KindConflict means the keyword already maps to a different
	// destination. Terminal; never auto-resolved.
	KindConflict

	// KindCapabilityAbsent means the server reported the action as
	// unknown, i.e. the optional plugin is not installed.
	KindCapabilityAbsent

	// KindValidation is malformed input caught before any network call.
	KindValidation

	// KindTransport means no response was obtained at all (connection
	// failure, timeout). Retryable at the caller's discretion.
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindCapabilityAbsent:
		return "capability_absent"
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	default:
		return "remote"
	}
}

// APIError is the single error type produced by the transport boundary.
type APIError struct {
	Kind       ErrorKind
	Code       string         // remote code, e.g. "error:keyword", "error:url"
	Message    string         // remote message verbatim, or a local description
	HTTPStatus int            // 0 when no response was obtained
	Raw        map[string]any // parsed response body, if any
	err        error          // wrapped transport error, if any
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("yourls: %s (%s): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("yourls: %s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.err }

func newValidationError(format string, args ...any) *APIError {
	return &APIError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func kindOf(err error) (ErrorKind, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

// IsNotFound reports whether err is a NotFound from the remote.
func IsNotFound(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindNotFound
}

// IsConflict reports whether err is a keyword conflict.
func IsConflict(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindConflict
}

// IsCapabilityAbsent reports whether err means the server lacks the action.
func IsCapabilityAbsent(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindCapabilityAbsent
}

// IsValidation reports whether err is a local input validation failure.
func IsValidation(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindValidation
}

// RemoteCode extracts the remote error code from err, if present.
func RemoteCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}
