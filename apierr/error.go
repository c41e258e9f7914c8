// Package apierr represents and classifies errors returned by the Facebook
// Graph API. A failed request — whether the service reported a structured
// error payload, the HTTP round trip failed outright, or the error happened
// locally before anything was sent — becomes a single immutable
// RequestError that callers can inspect programmatically.
package apierr

import (
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// InvalidErrorCode marks an invalid or unknown error code from the service.
const InvalidErrorCode = -1

// InvalidHTTPStatusCode means no valid HTTP status was obtained: the error
// occurred locally, before the request was sent, or the connection itself
// failed. Check Unwrap() for the underlying cause.
const InvalidHTTPStatusCode = -1

// RequestError describes one failed Graph API request. Values are built by
// Extract or FromLocalError and are read-only afterwards; they are safe to
// share across goroutines.
type RequestError struct {
	status     int
	code       int
	subcode    int
	errType    string
	message    string
	body       gjson.Result // decoded response body the error came from
	envelope   gjson.Result // per-request result envelope
	batch      gjson.Result // envelope again, or the whole batch array
	resp       *http.Response
	cause      error
	category   Category
	userAction string
}

func newRequestError(status, code, subcode int, errType, message string,
	body, envelope, batch gjson.Result, resp *http.Response, cause error,
) *RequestError {
	e := &RequestError{
		status:   status,
		code:     code,
		subcode:  subcode,
		errType:  errType,
		message:  message,
		body:     body,
		envelope: envelope,
		batch:    batch,
		resp:     resp,
		cause:    cause,
	}
	if e.cause == nil {
		e.cause = &ServiceError{Request: e, msg: message}
	}
	e.category, e.userAction = classify(e)
	return e
}

// Status returns the HTTP status of the underlying request, or
// InvalidHTTPStatusCode when no HTTP round trip happened.
func (e *RequestError) Status() int {
	return e.status
}

// Code returns the error code assigned by the service, or InvalidErrorCode.
func (e *RequestError) Code() int {
	return e.code
}

// Subcode returns the secondary error code, or InvalidErrorCode.
func (e *RequestError) Subcode() int {
	return e.subcode
}

// Type returns the service's raw textual error classification ("" if the
// payload carried none). Category is usually more useful.
func (e *RequestError) Type() string {
	return e.errType
}

// Message returns the error message reported by the service. When the
// payload carried none, it falls back to the cause's text, and last to the
// standard status text, so it is never empty for a real failure.
func (e *RequestError) Message() string {
	if e.message != "" {
		return e.message
	}
	if msg := e.cause.Error(); msg != "" {
		return msg
	}
	return http.StatusText(e.status)
}

// Body returns the decoded body of the response the error was extracted
// from. Zero Result when the request never produced a body.
func (e *RequestError) Body() gjson.Result {
	return e.body
}

// Envelope returns the full per-request result envelope. In batch mode it
// also carries transport metadata such as the per-request headers array.
func (e *RequestError) Envelope() gjson.Result {
	return e.envelope
}

// BatchResult returns the full response payload. For a single request this
// equals Envelope(); for a batched request it is the whole batch array.
// Check IsArray() to discriminate.
func (e *RequestError) BatchResult() gjson.Result {
	return e.batch
}

// Response returns the HTTP response used for the request, if any. The body
// has already been consumed; it is kept for header inspection.
func (e *RequestError) Response() *http.Response {
	return e.resp
}

// Category returns the classification of the error.
func (e *RequestError) Category() Category {
	return e.category
}

// UserActionMessage returns guidance suitable to show to the user, when the
// classification has one ("" otherwise).
func (e *RequestError) UserActionMessage() string {
	return e.userAction
}

func (e *RequestError) Error() string {
	return e.Message()
}

// Unwrap exposes the underlying cause: the local failure that prevented the
// request, or a ServiceError synthesized from the service's payload.
func (e *RequestError) Unwrap() error {
	return e.cause
}

// String renders a compact diagnostic line for logs; match on the typed
// fields, not on this text.
func (e *RequestError) String() string {
	return fmt.Sprintf("{HttpStatus: %d, errorCode: %d, errorType: %s, errorMessage: %s}",
		e.status, e.code, e.errType, e.message)
}

// ServiceError is the cause attached to a RequestError when the service
// itself reported the failure, so no local error exists to wrap.
type ServiceError struct {
	Request *RequestError
	msg     string
}

func (e *ServiceError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	if e.Request != nil {
		if txt := http.StatusText(e.Request.status); txt != "" {
			return txt
		}
	}
	return "service reported an error"
}
