package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/fbgraph/fbgraph/utils"
)

// maxConcurrentGets bounds GetAll so a large path list doesn't open an
// unbounded number of connections.
const maxConcurrentGets = 8

// Get reads a Graph object or edge, e.g. Get(ctx, "me", nil) or
// Get(ctx, "me/friends", params).
func (c *Client) Get(ctx context.Context, path string, params url.Values) (gjson.Result, error) {
	res, err := c.do(ctx, http.MethodGet, path, params, nil, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("get %s: %w", path, err)
	}
	return res, nil
}

// Post publishes to a Graph edge with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (gjson.Result, error) {
	buf, err := utils.EncodeJSONBody(body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("post %s: %w", path, err)
	}
	res, err := c.do(ctx, http.MethodPost, path, nil, buf, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("post %s: %w", path, err)
	}
	return res, nil
}

// Delete removes a Graph object.
func (c *Client) Delete(ctx context.Context, path string) (gjson.Result, error) {
	res, err := c.do(ctx, http.MethodDelete, path, nil, nil, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("delete %s: %w", path, err)
	}
	return res, nil
}

// GetAll fetches several paths concurrently and returns the results in the
// same order. The first failure cancels the remaining requests.
func (c *Client) GetAll(ctx context.Context, paths []string) ([]gjson.Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentGets)

	results := make([]gjson.Result, len(paths))
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			res, err := c.Get(ctx, p, nil)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
