package apierr

import (
	"errors"
	"io"
	"net/http"
	"syscall"
)

// IsRetryable says "worth another shot?" (backoff still on the caller).
func IsRetryable(err error) bool {
	// timeouts from net/http, http2, tls, etc.
	var to interface{ Timeout() bool }
	if errors.As(err, &to) && to.Timeout() {
		return true
	}

	// flaky connections / short reads
	if errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.category {
		case CategoryServer, CategoryThrottling:
			return true
		}
		switch reqErr.status {
		case http.StatusRequestTimeout, // 408
			http.StatusTooEarly,            // 425
			http.StatusTooManyRequests,     // 429
			http.StatusInternalServerError, // 500
			http.StatusBadGateway,          // 502
			http.StatusServiceUnavailable,  // 503
			http.StatusGatewayTimeout:      // 504
			return true
		}
	}
	return false
}
