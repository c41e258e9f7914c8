package apierr

// Messages surfaced through UserActionMessage.
const reopenSessionMessage = "Please log into this app again to reconnect your account."

// Documented Graph API error codes this library recognizes. Codes outside
// this table classify as Other (vendor-reported) or by HTTP status.
const (
	ecAPIUnknown         = 1
	ecAPIService         = 2
	ecAPITooManyCalls    = 4
	ecPermissionDenied   = 10
	ecUserTooManyCalls   = 17
	ecInvalidSession     = 102
	ecInvalidToken       = 190
	ecAppThrottled       = 341
	ecBlockedTemporarily = 613

	ecPermissionRangeStart = 200
	ecPermissionRangeEnd   = 299
)

const oauthExceptionType = "OAuthException"

// classify maps an error to its Category and optional user-action message.
// Only publicly documented codes are consulted; anything else falls back to
// the HTTP status, then to Unknown.
func classify(e *RequestError) (Category, string) {
	if e.status == InvalidHTTPStatusCode {
		return CategoryClient, ""
	}

	switch e.code {
	case ecAPIUnknown, ecAPIService:
		return CategoryServer, ""
	case ecAPITooManyCalls, ecUserTooManyCalls, ecAppThrottled, ecBlockedTemporarily:
		return CategoryThrottling, ""
	case ecInvalidSession, ecInvalidToken:
		return CategoryAuthenticationReopenSession, reopenSessionMessage
	case ecPermissionDenied:
		return CategoryPermission, ""
	}
	if e.code >= ecPermissionRangeStart && e.code <= ecPermissionRangeEnd {
		return CategoryPermission, ""
	}
	if e.errType == oauthExceptionType {
		return CategoryAuthenticationRetry, ""
	}

	if e.vendorReported() {
		return CategoryOther, ""
	}
	switch {
	case e.status >= 500:
		return CategoryServer, ""
	case e.status >= 400:
		return CategoryBadRequest, ""
	}
	return CategoryUnknown, ""
}

// vendorReported says whether the service sent any structured error detail,
// as opposed to a bare failure status.
func (e *RequestError) vendorReported() bool {
	return e.code != InvalidErrorCode || e.subcode != InvalidErrorCode ||
		e.errType != "" || e.message != ""
}
