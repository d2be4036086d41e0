// httpclient/request.go
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/deploymenttheory/go-api-token-client/logger"
	"github.com/deploymenttheory/go-api-token-client/metrics"
	"github.com/deploymenttheory/go-api-token-client/response"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Request describes one API call. It is passed through unchanged; the access
// token header is applied to each outgoing attempt, never to Headers.
type Request struct {
	Method string
	// URL is resolved against the client's base URL unless it is absolute.
	URL string
	// Body is JSON encoded. []byte, json.RawMessage, string and io.Reader are sent verbatim.
	Body    any
	Headers http.Header
	Query   url.Values
}

// dispatchState tracks a request through at most one token refresh.
type dispatchState int

const (
	stateSent           dispatchState = iota // first attempt in flight
	stateRefreshPending                      // first attempt hit TOKEN_EXPIRED
	stateRetried                             // second and final attempt in flight
	stateFailed                              // refresh failed; original error is surfaced
)

func (s dispatchState) String() string {
	switch s {
	case stateSent:
		return "sent"
	case stateRefreshPending:
		return "refresh_pending"
	case stateRetried:
		return "retried"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Request sends req and unwraps the response.
//
// Errors are *response.TransportError when no response was received and
// *response.HTTPError for non-2xx responses. A TOKEN_EXPIRED HTTPError on the
// first attempt triggers Renew; if Renew succeeds the request is sent once more
// and that outcome is final, otherwise the original HTTPError is returned.
func (c *Client) Request(ctx context.Context, req Request) (*response.Result, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	log := c.Logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("method", req.Method),
		zap.String("url", req.URL),
	)

	var expiredErr error
	state := stateSent
	for {
		switch state {
		case stateSent, stateRetried:
			result, err := c.doRequest(ctx, log, req, body, state)
			if err == nil || state == stateRetried || !response.IsTokenExpired(err) {
				return result, err
			}
			expiredErr = err
			state = stateRefreshPending

		case stateRefreshPending:
			log.Info("Access token expired, attempting refresh")
			if !c.Renew(ctx) {
				state = stateFailed
				continue
			}
			c.Metrics.ObserveRetry()
			state = stateRetried

		case stateFailed:
			log.Debug("Token refresh unsuccessful, returning original error")
			return nil, expiredErr
		}
	}
}

// doRequest performs a single attempt. The access token is read from the store
// here so that a retry picks up the token persisted by Renew.
func (c *Client) doRequest(ctx context.Context, log logger.Logger, req Request, body []byte, state dispatchState) (*response.Result, error) {
	target, err := c.resolveURL(req.URL, req.Query)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if err := c.setRequestHeaders(ctx, httpReq, req.Headers, body != nil); err != nil {
		return nil, err
	}
	c.LogHeaders(log, httpReq)

	log.Debug("Sending request", zap.Stringer("state", state))

	startTime := time.Now()
	resp, err := c.http.Do(httpReq)
	duration := time.Since(startTime)
	if err != nil {
		c.Metrics.ObserveRequest(req.Method, metrics.OutcomeTransportError, duration)
		log.Error("Failed to send request", zap.String("target", target), zap.Error(err))
		return nil, &response.TransportError{Method: req.Method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	CheckDeprecationHeader(resp, log)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		result, err := response.HandleAPISuccessResponse(resp)
		if err != nil {
			c.Metrics.ObserveRequest(req.Method, metrics.OutcomeHTTPError, duration)
			log.Error("Failed to unwrap response", zap.Int("status_code", resp.StatusCode), zap.Error(err))
			return nil, err
		}
		c.Metrics.ObserveRequest(req.Method, metrics.OutcomeSuccess, duration)
		log.Debug("Request succeeded",
			zap.Int("status_code", resp.StatusCode),
			zap.Bool("result", result.Result),
			zap.Duration("duration", duration),
		)
		return result, nil
	}

	apiErr := response.HandleAPIErrorResponse(resp)
	c.Metrics.ObserveRequest(req.Method, metrics.OutcomeHTTPError, duration)
	log.Error("Received error response",
		zap.Int("status_code", apiErr.StatusCode),
		zap.String("code", apiErr.Code),
		zap.String("message", apiErr.Message),
		zap.Stringer("state", state),
		zap.Duration("duration", duration),
	)
	return nil, apiErr
}

// resolveURL joins a relative URL onto the base URL and merges query values.
func (c *Client) resolveURL(raw string, query url.Values) (string, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse request url %q: %w", raw, err)
	}

	var u *url.URL
	if ref.IsAbs() {
		u = ref
	} else {
		// JoinPath expects escaped elements; the decoded Path would lose %25 and %2F
		u = c.baseURL.JoinPath(ref.EscapedPath())
		u.RawQuery = ref.RawQuery
		u.Fragment = ref.Fragment
	}

	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// encodeBody renders the body once so a retry can resend identical bytes.
func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	case string:
		return []byte(b), nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		return data, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		return data, nil
	}
}
