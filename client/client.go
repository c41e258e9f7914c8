// Package client is an HTTP client for the Facebook Graph API. It issues
// single and batched requests and turns failed responses into
// apierr.RequestError values.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/fbgraph/fbgraph/apierr"
	"github.com/fbgraph/fbgraph/utils"
)

const (
	defaultBaseURL   = "https://graph.facebook.com/"
	defaultVersion   = "v19.0"
	defaultUserAgent = "fbgraph/0.1"
	defaultTimeout   = 30 * time.Second

	// accessTokenEnvKey is read by NewFromEnv.
	accessTokenEnvKey = "FB_ACCESS_TOKEN"
)

type Client struct {
	BaseURL     string
	Version     string
	AccessToken string
	UserAgent   string

	httpClient *http.Client
	log        *logrus.Logger
}

// Option configures a Client at construction time.
type Option func(*Client) error

// WithBaseURL overrides the Graph endpoint (tests, mocks, beta tier).
// A trailing slash is enforced.
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid base URL %q", raw)
		}
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		c.BaseURL = raw
		return nil
	}
}

// WithVersion pins the Graph API version, e.g. "v19.0".
func WithVersion(v string) Option {
	return func(c *Client) error {
		if strings.TrimSpace(v) == "" {
			return errors.New("version must not be empty")
		}
		c.Version = v
		return nil
	}
}

// WithHTTPClient swaps the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) error {
		if h == nil {
			return errors.New("http client must not be nil")
		}
		c.httpClient = h
		return nil
	}
}

// WithHTTPTimeout sets the per-request timeout on the default http client.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		c.httpClient.Timeout = d
		return nil
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		if strings.TrimSpace(ua) == "" {
			return errors.New("user agent must not be empty")
		}
		c.UserAgent = ua
		return nil
	}
}

// WithLogger routes request logging to l instead of the standard logger.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) error {
		if l == nil {
			return errors.New("logger must not be nil")
		}
		c.log = l
		return nil
	}
}

func New(accessToken string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, errors.New("access token is required")
	}
	c := &Client{
		BaseURL:     defaultBaseURL,
		Version:     defaultVersion,
		AccessToken: accessToken,
		UserAgent:   defaultUserAgent,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewFromEnv builds a client from the FB_ACCESS_TOKEN environment variable,
// loading a .env file first if one is found.
func NewFromEnv(opts ...Option) (*Client, error) {
	_ = utils.LoadDotEnv()
	token := utils.GetEnv(accessTokenEnvKey, "")
	if token == "" {
		return nil, fmt.Errorf("%s is not set", accessTokenEnvKey)
	}
	return New(token, opts...)
}

// do sends one request and runs error extraction on the response. A
// transport failure comes back as apierr.FromLocalError; a response that
// extracts to an error comes back as that *apierr.RequestError. On success
// the body is returned parsed, and decoded into v when v is non-nil.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body io.Reader, v any) (gjson.Result, error) {
	target := c.versionedURL(path)
	if params == nil {
		params = url.Values{}
	}
	if params.Get("access_token") == "" {
		params.Set("access_token", c.AccessToken)
	}
	target += "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return gjson.Result{}, apierr.FromLocalError(nil, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, apierr.FromLocalError(nil, fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	slurp, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, apierr.FromLocalError(resp, fmt.Errorf("read response: %w", err))
	}

	c.log.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("graph request")

	envelope := buildEnvelope(resp.StatusCode, slurp)
	if apiErr := apierr.Extract(envelope, envelope, resp); apiErr != nil {
		return gjson.Result{}, apiErr
	}

	result := gjson.ParseBytes(slurp)
	if v != nil {
		if err := json.Unmarshal(slurp, v); err != nil {
			return result, fmt.Errorf("decode response: %w", err)
		}
	}
	return result, nil
}

// buildEnvelope folds a raw response into the {"code":…,"body":…} result
// envelope shape that apierr.Extract consumes. The body stays a string;
// extraction decodes it.
func buildEnvelope(status int, body []byte) gjson.Result {
	raw, _ := sjson.Set("", "code", status)
	raw, _ = sjson.Set(raw, "body", string(body))
	return gjson.Parse(raw)
}

// versionedURL builds "<base>/<version>/<path>".
func (c *Client) versionedURL(path string) string {
	return c.BaseURL + c.Version + "/" + strings.TrimPrefix(path, "/")
}
