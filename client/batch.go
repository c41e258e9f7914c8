package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/fbgraph/fbgraph/apierr"
)

// maxBatchSize is the Graph API's documented limit per batch call.
const maxBatchSize = 50

// BatchRequest is one operation inside a batch call.
type BatchRequest struct {
	Method      string // defaults to GET
	RelativeURL string // e.g. "me/friends?limit=50"
	Body        string // form-encoded body for POST operations
	Name        string // optional, for referencing results between operations
}

// BatchResponse is the outcome of one operation. Exactly one reading
// applies: Err is non-nil when the operation failed, otherwise Result holds
// the operation's result envelope.
type BatchResponse struct {
	Result gjson.Result
	Err    *apierr.RequestError
}

// Body returns the decoded body of the operation's envelope. Batch
// envelopes carry the body pre-serialized as a JSON string.
func (r BatchResponse) Body() gjson.Result {
	b := r.Result.Get("body")
	if b.Type == gjson.String && gjson.Valid(b.String()) {
		return gjson.Parse(b.String())
	}
	return b
}

// Batch executes up to maxBatchSize operations in one round trip. The
// returned slice is index-aligned with reqs; per-operation failures land in
// BatchResponse.Err and do not fail the call. A non-nil error means the
// batch call itself failed.
func (c *Client) Batch(ctx context.Context, reqs ...BatchRequest) ([]BatchResponse, error) {
	if len(reqs) == 0 {
		return nil, errors.New("batch: no requests")
	}
	if len(reqs) > maxBatchSize {
		return nil, fmt.Errorf("batch: %d requests exceed the limit of %d", len(reqs), maxBatchSize)
	}

	payload, err := buildBatchPayload(reqs)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}

	form := url.Values{
		"access_token":    {c.AccessToken},
		"batch":           {payload},
		"include_headers": {"true"},
	}

	target := c.BaseURL + c.Version + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apierr.FromLocalError(nil, fmt.Errorf("batch: create request: %w", err))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierr.FromLocalError(nil, fmt.Errorf("batch: send request: %w", err))
	}
	defer resp.Body.Close()

	slurp, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.FromLocalError(resp, fmt.Errorf("batch: read response: %w", err))
	}

	// The batch call itself can fail (bad token, malformed batch param);
	// that arrives as a plain error object, not an array.
	envelope := buildEnvelope(resp.StatusCode, slurp)
	if apiErr := apierr.Extract(envelope, envelope, resp); apiErr != nil {
		return nil, apiErr
	}

	batchResult := gjson.ParseBytes(slurp)
	if !batchResult.IsArray() {
		return nil, fmt.Errorf("batch: unexpected response shape: %s", batchResult.Type)
	}

	out := make([]BatchResponse, 0, len(reqs))
	batchResult.ForEach(func(_, item gjson.Result) bool {
		br := BatchResponse{Result: item}
		switch {
		case item.Type == gjson.Null:
			// The service returns null for operations it could not complete
			// in time.
			br.Err = apierr.FromLocalError(resp,
				errors.New("batch: operation timed out or was not completed"))
		default:
			br.Err = apierr.Extract(item, batchResult, resp)
		}
		out = append(out, br)
		return true
	})
	if len(out) != len(reqs) {
		return out, fmt.Errorf("batch: got %d results for %d requests", len(out), len(reqs))
	}
	return out, nil
}

func buildBatchPayload(reqs []BatchRequest) (string, error) {
	payload := "[]"
	for _, r := range reqs {
		if strings.TrimSpace(r.RelativeURL) == "" {
			return "", errors.New("relative_url is required")
		}
		method := r.Method
		if method == "" {
			method = http.MethodGet
		}
		op, err := sjson.Set("", "method", method)
		if err != nil {
			return "", err
		}
		if op, err = sjson.Set(op, "relative_url", r.RelativeURL); err != nil {
			return "", err
		}
		if r.Body != "" {
			if op, err = sjson.Set(op, "body", r.Body); err != nil {
				return "", err
			}
		}
		if r.Name != "" {
			if op, err = sjson.Set(op, "name", r.Name); err != nil {
				return "", err
			}
		}
		if payload, err = sjson.SetRaw(payload, "-1", op); err != nil {
			return "", err
		}
	}
	return payload, nil
}
