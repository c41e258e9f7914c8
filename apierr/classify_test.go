package apierr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/fbgraph/fbgraph/apierr"
)

func extractFromBody(t *testing.T, status int, body string) *apierr.RequestError {
	t.Helper()
	raw := fmt.Sprintf(`{"code":%d, "body":%q}`, status, body)
	env := gjson.Parse(raw)
	e := apierr.Extract(env, env, nil)
	if e == nil {
		t.Fatalf("Extract = nil for %s", raw)
	}
	return e
}

func TestClassify_Throttling(t *testing.T) {
	for _, code := range []int{4, 17, 341, 613} {
		e := extractFromBody(t, 400, fmt.Sprintf(`{"error":{"code":%d}}`, code))
		if e.Category() != apierr.CategoryThrottling {
			t.Fatalf("code %d: Category=%s want throttling", code, e.Category())
		}
	}
}

func TestClassify_ReopenSession_SetsUserActionMessage(t *testing.T) {
	e := extractFromBody(t, 400, `{"error":{"type":"OAuthException","message":"Error validating access token","code":190,"error_subcode":463}}`)

	if e.Category() != apierr.CategoryAuthenticationReopenSession {
		t.Fatalf("Category=%s want authentication_reopen_session", e.Category())
	}
	if e.UserActionMessage() == "" {
		t.Fatalf("reopen-session errors should carry a user action message")
	}
}

func TestClassify_OAuthTypeWithoutKnownCode_AuthenticationRetry(t *testing.T) {
	e := extractFromBody(t, 400, `{"error":{"type":"OAuthException","message":"Permissions error"}}`)

	if e.Category() != apierr.CategoryAuthenticationRetry {
		t.Fatalf("Category=%s want authentication_retry", e.Category())
	}
	if e.UserActionMessage() != "" {
		t.Fatalf("UserActionMessage=%q want empty", e.UserActionMessage())
	}
}

func TestClassify_Permission(t *testing.T) {
	for _, code := range []int{10, 200, 250, 299} {
		e := extractFromBody(t, 403, fmt.Sprintf(`{"error":{"code":%d}}`, code))
		if e.Category() != apierr.CategoryPermission {
			t.Fatalf("code %d: Category=%s want permission", code, e.Category())
		}
	}
}

func TestClassify_ServerCodes(t *testing.T) {
	for _, code := range []int{1, 2} {
		e := extractFromBody(t, 500, fmt.Sprintf(`{"error":{"code":%d}}`, code))
		if e.Category() != apierr.CategoryServer {
			t.Fatalf("code %d: Category=%s want server", code, e.Category())
		}
	}
}

func TestClassify_UnrecognizedVendorCode_Other(t *testing.T) {
	e := extractFromBody(t, 404, `{"error_code":803,"error_msg":"Object not found"}`)

	if e.Category() != apierr.CategoryOther {
		t.Fatalf("Category=%s want other", e.Category())
	}
}

func TestClassify_StatusOnly(t *testing.T) {
	if e := extractFromBody(t, 502, `{}`); e.Category() != apierr.CategoryServer {
		t.Fatalf("502: Category=%s want server", e.Category())
	}
	if e := extractFromBody(t, 404, `{}`); e.Category() != apierr.CategoryBadRequest {
		t.Fatalf("404: Category=%s want bad_request", e.Category())
	}
}

func TestClassify_LocalFailure_Client(t *testing.T) {
	e := apierr.FromLocalError(nil, errors.New("dns lookup failed"))

	if e.Category() != apierr.CategoryClient {
		t.Fatalf("Category=%s want client", e.Category())
	}
}

func TestCategory_DefaultIsUnknown(t *testing.T) {
	var c apierr.Category
	if c != apierr.CategoryUnknown {
		t.Fatalf("zero Category = %s, want unknown", c)
	}
	if c.String() != "unknown" {
		t.Fatalf("String()=%q want %q", c.String(), "unknown")
	}
}

func TestIsRetryable_ThrottledAndServer(t *testing.T) {
	thr := extractFromBody(t, 400, `{"error":{"code":4}}`)
	if !apierr.IsRetryable(thr) {
		t.Fatalf("throttled error should be retryable")
	}
	srv := extractFromBody(t, 503, `{}`)
	if !apierr.IsRetryable(srv) {
		t.Fatalf("server error should be retryable")
	}
}

func TestIsRetryable_WrappedRequestError(t *testing.T) {
	e := extractFromBody(t, 429, `{}`)
	wrapped := fmt.Errorf("get me: %w", e)

	if !apierr.IsRetryable(wrapped) {
		t.Fatalf("429 should be retryable through wrapping")
	}
}

type fakeTimeout struct{}

func (fakeTimeout) Error() string { return "i/o timeout" }
func (fakeTimeout) Timeout() bool { return true }

func TestIsRetryable_TransportTimeout(t *testing.T) {
	if !apierr.IsRetryable(fakeTimeout{}) {
		t.Fatalf("timeout errors should be retryable")
	}
}

func TestIsRetryable_BadRequestIsNot(t *testing.T) {
	e := extractFromBody(t, 400, `{"error":{"type":"GraphMethodException","message":"Unsupported get request","code":100}}`)

	if apierr.IsRetryable(e) {
		t.Fatalf("bad request should not be retryable")
	}
}
