package attio

import (
	"fmt"
	"time"
)

// ValidationIssue describes a single field-level failure reported by the
// API inside a 400 response. The fields mirror the wire format and are
// propagated to callers verbatim, never flattened into a message string.
type ValidationIssue struct {
	Code     string   `json:"code"`
	Path     []string `json:"path"`
	Message  string   `json:"message"`
	Expected any      `json:"expected,omitempty"`
	Received any      `json:"received,omitempty"`
}

// APIError is the common portion of every error returned by the Attio
// API. The concrete error types below embed it; callers match them with
// errors.As.
type APIError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string

	// Method and Path identify the request that failed.
	Method string
	Path   string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("attio: %s %s: %s (%s)", e.Method, e.Path, e.Message, e.Code)
	}
	return fmt.Sprintf("attio: %s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// ValidationError is a 400-class response with structured field detail.
type ValidationError struct {
	APIError
	Issues []ValidationIssue
}

// NotFoundError is a 404-class response. Never retried.
type NotFoundError struct {
	APIError
}

// AuthenticationError is a 401-class response. Never retried.
type AuthenticationError struct {
	APIError
}

// RateLimitError is a 429 response. The client retries these with
// backoff; if retries exhaust, the error surfaces with RetryAfter set to
// the server's hint (zero when the header was absent).
type RateLimitError struct {
	APIError
	RetryAfter time.Duration
}

// ServerError is a 5xx response. 503s receive the same retry treatment
// as rate limits; other 5xx codes surface immediately.
type ServerError struct {
	APIError
}

// IdentifierError is raised locally, before any network call, when an
// identifier cannot be resolved: nil/zero id, a composite id missing the
// required key, an empty resolved value, or missing cross-resource
// context (for example an entry without its list).
type IdentifierError struct {
	Key    string
	Reason string
}

func (e *IdentifierError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("attio: identifier %q: %s", e.Key, e.Reason)
	}
	return "attio: identifier: " + e.Reason
}

// ImmutableResourceError is raised locally when save or destroy is
// invoked on a resource type whose capabilities exclude that operation.
type ImmutableResourceError struct {
	Resource string
	Op       string
}

func (e *ImmutableResourceError) Error() string {
	return fmt.Sprintf("attio: %s does not support %s", e.Resource, e.Op)
}

// InvalidValueError is raised locally when an outgoing attribute value
// cannot be shaped for the wire (for example a bare scalar supplied for a
// structured attribute such as a person's name), or when a required
// create field is missing. No network call is made.
type InvalidValueError struct {
	Attribute string
	Reason    string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("attio: attribute %q: %s", e.Attribute, e.Reason)
}

// wireError is the error envelope body: {"error": {...}} or the flat
// {"type": ..., "code": ...} shape older endpoints use.
type wireError struct {
	Type             string            `json:"type"`
	Code             string            `json:"code"`
	Message          string            `json:"message"`
	ValidationErrors []ValidationIssue `json:"validation_errors,omitempty"`
}

// errorFromResponse translates a non-2xx response into the taxonomy.
// The mapping is deterministic on status code; the body supplies detail.
func errorFromResponse(method, path string, status int, we wireError, retryAfter time.Duration) error {
	base := APIError{
		StatusCode: status,
		Type:       we.Type,
		Code:       we.Code,
		Message:    we.Message,
		Method:     method,
		Path:       path,
	}
	switch {
	case status == 401 || status == 403:
		return &AuthenticationError{APIError: base}
	case status == 404:
		return &NotFoundError{APIError: base}
	case status == 429:
		return &RateLimitError{APIError: base, RetryAfter: retryAfter}
	case status >= 500:
		return &ServerError{APIError: base}
	case status >= 400:
		return &ValidationError{APIError: base, Issues: we.ValidationErrors}
	}
	return &base
}
