// httpclient/methods.go
package httpclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/deploymenttheory/go-api-token-client/response"
)

// RequestOption adjusts a single call made through a method shorthand.
type RequestOption func(*Request)

// WithHeader sets one header on the request.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = http.Header{}
		}
		r.Headers.Set(key, value)
	}
}

// WithHeaders merges h into the request headers.
func WithHeaders(h http.Header) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = http.Header{}
		}
		for k, vs := range h {
			for _, v := range vs {
				r.Headers.Add(k, v)
			}
		}
	}
}

// WithQuery adds one query parameter.
func WithQuery(key, value string) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = url.Values{}
		}
		r.Query.Add(key, value)
	}
}

// WithQueryValues merges v into the query parameters.
func WithQueryValues(v url.Values) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = url.Values{}
		}
		for k, vs := range v {
			for _, val := range vs {
				r.Query.Add(k, val)
			}
		}
	}
}

func newRequest(method, rawURL string, body any, opts []RequestOption) Request {
	req := Request{Method: method, URL: rawURL, Body: body}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, rawURL string, opts ...RequestOption) (*response.Result, error) {
	return c.Request(ctx, newRequest(http.MethodGet, rawURL, nil, opts))
}

// Post sends a POST request with body.
func (c *Client) Post(ctx context.Context, rawURL string, body any, opts ...RequestOption) (*response.Result, error) {
	return c.Request(ctx, newRequest(http.MethodPost, rawURL, body, opts))
}

// Put sends a PUT request with body.
func (c *Client) Put(ctx context.Context, rawURL string, body any, opts ...RequestOption) (*response.Result, error) {
	return c.Request(ctx, newRequest(http.MethodPut, rawURL, body, opts))
}

// Patch sends a PATCH request with body.
func (c *Client) Patch(ctx context.Context, rawURL string, body any, opts ...RequestOption) (*response.Result, error) {
	return c.Request(ctx, newRequest(http.MethodPatch, rawURL, body, opts))
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, rawURL string, opts ...RequestOption) (*response.Result, error) {
	return c.Request(ctx, newRequest(http.MethodDelete, rawURL, nil, opts))
}

// Head sends a HEAD request. The Result carries status and headers only.
func (c *Client) Head(ctx context.Context, rawURL string, opts ...RequestOption) (*response.Result, error) {
	return c.Request(ctx, newRequest(http.MethodHead, rawURL, nil, opts))
}

// Options sends an OPTIONS request.
func (c *Client) Options(ctx context.Context, rawURL string, opts ...RequestOption) (*response.Result, error) {
	return c.Request(ctx, newRequest(http.MethodOptions, rawURL, nil, opts))
}
