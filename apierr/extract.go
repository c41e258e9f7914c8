package apierr

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Envelope and error-payload field names. The service reports errors in one
// of two shapes: a nested "error" object, or one or more flat top-level
// error_* fields.
const (
	codeKey = "code"
	bodyKey = "body"

	errorKey             = "error"
	errorTypeFieldKey    = "type"
	errorCodeFieldKey    = "code"
	errorMessageFieldKey = "message"

	errorCodeKey    = "error_code"
	errorSubcodeKey = "error_subcode"
	errorMsgKey     = "error_msg"
	errorReasonKey  = "error_reason"
)

// Extract inspects one request's result envelope and returns the error it
// represents, or nil when the envelope is not an error. The envelope
// conventionally carries the HTTP status under "code" and the (possibly
// pre-serialized) response body under "body". batch is the full response
// payload, passed through to RequestError.BatchResult() unchanged; for a
// non-batched call pass the envelope itself.
//
// Two error shapes are recognized, in order: a nested "error" object wins
// over flat error_code/error_msg/error_reason fields, even when both are
// present. If neither matches but the status is outside [200,300), a
// details-free RequestError is returned. Malformed JSON anywhere in the
// envelope is never escalated from here: it is traced at debug level and
// extraction degrades to the status-only path, leaving the consumer that
// needed the value to report its own failure.
func Extract(envelope, batch gjson.Result, resp *http.Response) *RequestError {
	status, ok := statusOf(envelope)
	if !ok {
		return nil
	}

	body := stringPropertyAsJSON(envelope, bodyKey)

	var (
		errType  string
		message  string
		errCode  = InvalidErrorCode
		subcode  = InvalidErrorCode
		hasError bool
	)

	if body.IsObject() {
		if body.Get(errorKey).Exists() {
			// Nested shape. The error value may itself arrive serialized.
			errObj := stringPropertyAsJSON(body, errorKey)
			if errObj.IsObject() {
				errType = errObj.Get(errorTypeFieldKey).String()
				message = errObj.Get(errorMessageFieldKey).String()
				errCode = intOr(errObj, errorCodeFieldKey, InvalidErrorCode)
				subcode = intOr(errObj, errorSubcodeKey, InvalidErrorCode)
				hasError = true
			} else {
				logrus.WithField("error", errObj.Raw).
					Debug("apierr: error field is not an object, ignoring")
			}
		} else if body.Get(errorCodeKey).Exists() || body.Get(errorMsgKey).Exists() ||
			body.Get(errorReasonKey).Exists() {
			// Flat shape.
			errType = body.Get(errorReasonKey).String()
			message = body.Get(errorMsgKey).String()
			errCode = intOr(body, errorCodeKey, InvalidErrorCode)
			subcode = intOr(body, errorSubcodeKey, InvalidErrorCode)
			hasError = true
		}
	}

	if hasError {
		return newRequestError(status, errCode, subcode, errType, message,
			body, envelope, batch, resp, nil)
	}

	// No error details, but a failure status is still worth reporting.
	if status < 200 || status >= 300 {
		return newRequestError(status, InvalidErrorCode, InvalidErrorCode, "", "",
			body, envelope, batch, resp, nil)
	}

	return nil
}

// FromLocalError builds a RequestError for a failure that happened before a
// valid HTTP status was obtained: connection errors, timeouts, request
// serialization. Both the status and the error code are set to the invalid
// sentinel and err is preserved as the cause.
func FromLocalError(resp *http.Response, err error) *RequestError {
	if err == nil {
		err = &ServiceError{msg: "request failed"}
	}
	return newRequestError(InvalidHTTPStatusCode, InvalidErrorCode, InvalidErrorCode,
		"", "", gjson.Result{}, gjson.Result{}, gjson.Result{}, resp, err)
}

// statusOf reads the envelope's "code" field. A missing field means "not an
// error result"; a non-numeric one is a malformed envelope and is deferred
// the same way malformed bodies are. Numeric strings are accepted.
func statusOf(envelope gjson.Result) (int, bool) {
	code := envelope.Get(codeKey)
	if !code.Exists() {
		return 0, false
	}
	if code.Type == gjson.Number {
		return int(code.Int()), true
	}
	if code.Type == gjson.String {
		if i, err := strconv.Atoi(strings.TrimSpace(code.String())); err == nil {
			return i, true
		}
	}
	logrus.WithField(codeKey, code.Raw).
		Debug("apierr: envelope status code is not numeric, skipping extraction")
	return 0, false
}

// stringPropertyAsJSON reads obj[key] and, when the value is a string that
// looks like serialized JSON, decodes it. Anything else comes back as-is.
// Strings that look like JSON but do not parse stay opaque strings.
func stringPropertyAsJSON(obj gjson.Result, key string) gjson.Result {
	v := obj.Get(key)
	if v.Type != gjson.String {
		return v
	}
	s := strings.TrimSpace(v.String())
	if len(s) == 0 || (s[0] != '{' && s[0] != '[') {
		return v
	}
	if !gjson.Valid(s) {
		logrus.WithField(key, truncate(s, 256)).
			Debug("apierr: field looks like JSON but does not parse, keeping raw")
		return v
	}
	return gjson.Parse(s)
}

// intOr reads obj[key] as an int, accepting numeric strings like "190".
func intOr(obj gjson.Result, key string, def int) int {
	v := obj.Get(key)
	switch v.Type {
	case gjson.Number:
		return int(v.Int())
	case gjson.String:
		if i, err := strconv.Atoi(strings.TrimSpace(v.String())); err == nil {
			return i
		}
	}
	return def
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
