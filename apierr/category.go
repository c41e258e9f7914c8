package apierr

// Category is the coarse classification of a failed request. Unlike the raw
// error code it is stable across API versions and is what retry/recovery
// logic should branch on (e.g. back off on Throttling).
type Category int

const (
	// CategoryUnknown means the error could not be categorized and is
	// likely unrelated to the Graph API itself.
	CategoryUnknown Category = iota

	// CategoryAuthenticationRetry means the request should be retried
	// after some user action (e.g. re-granting a permission).
	CategoryAuthenticationRetry

	// CategoryAuthenticationReopenSession means the session is no longer
	// valid and must be closed and reopened.
	CategoryAuthenticationReopenSession

	// CategoryPermission means the caller lacks a required permission.
	CategoryPermission

	// CategoryServer means the service had an unexpected failure or may be
	// temporarily unavailable.
	CategoryServer

	// CategoryThrottling means the service is throttling the client.
	CategoryThrottling

	// CategoryOther means the service reported an error this library does
	// not recognize, likely newer than this version of it.
	CategoryOther

	// CategoryBadRequest means the request itself was bad or malformed.
	CategoryBadRequest

	// CategoryClient means a client-side failure: transport errors,
	// serialization errors, anything that never reached the service.
	CategoryClient
)

func (c Category) String() string {
	switch c {
	case CategoryAuthenticationRetry:
		return "authentication_retry"
	case CategoryAuthenticationReopenSession:
		return "authentication_reopen_session"
	case CategoryPermission:
		return "permission"
	case CategoryServer:
		return "server"
	case CategoryThrottling:
		return "throttling"
	case CategoryOther:
		return "other"
	case CategoryBadRequest:
		return "bad_request"
	case CategoryClient:
		return "client"
	default:
		return "unknown"
	}
}
