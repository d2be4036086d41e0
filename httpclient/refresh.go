// httpclient/refresh.go
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/deploymenttheory/go-api-token-client/metrics"
	"github.com/deploymenttheory/go-api-token-client/response"
	"go.uber.org/zap"
)

const renewKey = "renew"

// resignRequest is the body posted to the resign endpoint.
type resignRequest struct {
	Token string `json:"token"`
}

// Renew exchanges the stored refresh token for a new access token and persists it.
// It reports false without any network call when no refresh token is stored.
//
// Concurrent callers share one in-flight exchange, so a burst of expired
// requests produces a single resign call and at most one OnRefreshFailure.
// The exchange is not cancelled when ctx is; the caller just stops waiting.
func (c *Client) Renew(ctx context.Context) bool {
	ch := c.refresh.DoChan(renewKey, func() (any, error) {
		return c.renew(context.WithoutCancel(ctx)), nil
	})

	select {
	case res := <-ch:
		ok, _ := res.Val.(bool)
		return ok
	case <-ctx.Done():
		c.Logger.Warn("Stopped waiting for token refresh", zap.Error(ctx.Err()))
		return false
	}
}

func (c *Client) renew(ctx context.Context) bool {
	refreshToken, err := c.store.RefreshToken(ctx)
	if err != nil {
		c.Metrics.ObserveRefresh(metrics.RefreshSkipped)
		c.Logger.Warn("Failed to read refresh token, skipping token refresh", zap.Error(err))
		return false
	}
	if refreshToken == "" {
		c.Metrics.ObserveRefresh(metrics.RefreshSkipped)
		c.Logger.Info("No refresh token stored, skipping token refresh")
		return false
	}

	accessToken, err := c.requestAccessToken(ctx, refreshToken)
	if err == nil {
		if setErr := c.store.SetAccessToken(ctx, accessToken); setErr != nil {
			err = &response.RefreshError{Err: fmt.Errorf("persist access token: %w", setErr)}
		}
	}

	if err != nil {
		c.Metrics.ObserveRefresh(metrics.RefreshFailure)
		c.Logger.Error("Token refresh failed", zap.Error(err))
		if c.config.OnRefreshFailure != nil {
			c.config.OnRefreshFailure(err)
		}
		return false
	}

	c.Metrics.ObserveRefresh(metrics.RefreshSuccess)
	c.Logger.Info("Access token refreshed")
	return true
}

// requestAccessToken posts the refresh token to the resign endpoint. The
// request deliberately carries no access token header. Every failure is
// returned as a *response.RefreshError.
func (c *Client) requestAccessToken(ctx context.Context, refreshToken string) (string, error) {
	target, err := c.resolveURL(c.config.RefreshPath, nil)
	if err != nil {
		return "", &response.RefreshError{Err: err}
	}

	payload, err := json.Marshal(resignRequest{Token: refreshToken})
	if err != nil {
		return "", &response.RefreshError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return "", &response.RefreshError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	c.Logger.Debug("Requesting new access token", zap.String("target", target))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &response.RefreshError{Err: &response.TransportError{Method: http.MethodPost, URL: target, Err: err}}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &response.RefreshError{StatusCode: resp.StatusCode, Err: response.HandleAPIErrorResponse(resp)}
	}

	result, err := response.HandleAPISuccessResponse(resp)
	if err != nil {
		return "", &response.RefreshError{StatusCode: resp.StatusCode, Err: err}
	}

	token, _ := result.Data["data"].(string)
	if token == "" {
		return "", &response.RefreshError{StatusCode: resp.StatusCode, Err: errors.New("resign response carries no access token in data")}
	}
	return token, nil
}
