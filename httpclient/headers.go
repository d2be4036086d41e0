// httpclient/headers.go
package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/deploymenttheory/go-api-token-client/logger"
	"go.uber.org/zap"
)

// setRequestHeaders applies the default headers, then the caller's headers,
// then the access token read from the store at this moment. An empty token
// leaves the header unset.
func (c *Client) setRequestHeaders(ctx context.Context, req *http.Request, custom http.Header, hasBody bool) error {
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}

	for name, values := range custom {
		req.Header.Del(name)
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	token, err := c.store.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("read access token: %w", err)
	}
	if token != "" {
		req.Header.Set(c.config.AccessTokenHeader, token)
	}
	return nil
}

// LogHeaders logs the request headers at debug level, masking credentials when
// ShowSensitiveData is off.
func (c *Client) LogHeaders(log logger.Logger, req *http.Request) {
	if log.GetLogLevel() > logger.LogLevelDebug {
		return
	}

	redactedHeaders := http.Header{}
	for name, values := range req.Header {
		for _, v := range values {
			redactedHeaders.Add(name, c.sensitive.Value(!c.config.ShowSensitiveData, name, v))
		}
	}

	log.Debug("HTTP Request Headers", zap.String("Headers", HeadersToString(redactedHeaders)))
}

// HeadersToString converts a http.Header to a string for logging,
// with each header on a new line in name order.
func HeadersToString(headers http.Header) string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	headerStrings := make([]string, 0, len(names))
	for _, name := range names {
		headerStrings = append(headerStrings, fmt.Sprintf("%s: %s", name, strings.Join(headers[name], ", ")))
	}
	return strings.Join(headerStrings, "\n")
}

// CheckDeprecationHeader checks the response headers for the Deprecation header and logs a warning if present.
func CheckDeprecationHeader(resp *http.Response, log logger.Logger) {
	deprecationHeader := resp.Header.Get("Deprecation")
	if deprecationHeader != "" {
		log.Warn("API endpoint is deprecated",
			zap.String("Date", deprecationHeader),
			zap.String("Endpoint", resp.Request.URL.String()),
		)
	}
}
