// response/error.go
// This package provides utility functions and structures for unwrapping API responses
// and categorizing HTTP error responses.
package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"golang.org/x/net/html"
)

// CodeTokenExpired is the backend error code signalling that the access token
// is no longer valid and a refresh should be attempted.
const CodeTokenExpired = "TOKEN_EXPIRED"

// HTTPError is returned when the server responded with a non-2xx status.
type HTTPError struct {
	StatusCode  int    `json:"status_code"`      // HTTP status code
	Status      int    `json:"status,omitempty"` // status field from the body, if any
	Code        string `json:"code,omitempty"`   // backend error code, e.g. TOKEN_EXPIRED
	Message     string `json:"message"`          // Summary of the error
	Method      string `json:"method"`           // HTTP method used for the request
	URL         string `json:"url"`              // The URL of the HTTP request
	RawResponse string `json:"raw_response"`     // Raw response body for debugging
}

// Error returns a string representation of the HTTPError, making it compatible with the error interface.
func (e *HTTPError) Error() string {
	data, err := json.Marshal(e)
	if err == nil {
		return string(data)
	}
	return fmt.Sprintf("API Error: StatusCode=%d, Message=%s", e.StatusCode, e.Message)
}

// TokenExpired reports whether the backend flagged the access token as expired.
func (e *HTTPError) TokenExpired() bool {
	return e.Code == CodeTokenExpired
}

// TransportError is returned when no response was received at all.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: no response received: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RefreshError describes a failed exchange of the refresh token. It is handed
// to the logger and the refresh failure callback; callers of a request receive
// the original HTTPError instead.
type RefreshError struct {
	StatusCode int // zero when no response was received
	Err        error
}

func (e *RefreshError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("token refresh failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("token refresh failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// IsTokenExpired reports whether err wraps an HTTPError carrying TOKEN_EXPIRED.
func IsTokenExpired(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.TokenExpired()
}

// HandleAPIErrorResponse reads a non-2xx response and converts it to an HTTPError.
// The body is parsed according to its MIME type.
func HandleAPIErrorResponse(resp *http.Response) *HTTPError {
	apiError := &HTTPError{
		StatusCode: resp.StatusCode,
		Message:    "API Error Response",
	}
	if resp.Request != nil {
		apiError.Method = resp.Request.Method
		apiError.URL = resp.Request.URL.String()
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		apiError.RawResponse = "Failed to read response body"
		return apiError
	}
	apiError.RawResponse = string(bodyBytes)

	mimeType, _ := parseHeader(resp.Header.Get("Content-Type"))
	switch {
	case mimeType == "application/json", strings.HasSuffix(mimeType, "+json"):
		parseJSONResponse(bodyBytes, apiError)
	case mimeType == "application/xml", mimeType == "text/xml":
		parseXMLResponse(bodyBytes, apiError)
	case mimeType == "text/html":
		parseHTMLResponse(bodyBytes, apiError)
	case mimeType == "text/plain":
		parseTextResponse(bodyBytes, apiError)
	case looksLikeJSON(bodyBytes):
		parseJSONResponse(bodyBytes, apiError)
	case len(bodyBytes) == 0:
		apiError.Message = http.StatusText(resp.StatusCode)
	default:
		apiError.Message = "Unknown content type error"
	}

	return apiError
}

// parseJSONResponse extracts status, message and code from a JSON error body.
// Fields of the wrong type are ignored rather than failing the whole parse.
func parseJSONResponse(bodyBytes []byte, apiError *HTTPError) {
	var body map[string]any
	if err := json.Unmarshal(bodyBytes, &body); err != nil {
		apiError.Message = "An unknown error occurred"
		return
	}

	switch s := body["status"].(type) {
	case float64:
		apiError.Status = int(s)
	case string:
		if n, err := strconv.Atoi(s); err == nil {
			apiError.Status = n
		}
	}

	switch c := body["code"].(type) {
	case string:
		apiError.Code = c
	case float64:
		apiError.Code = strconv.FormatFloat(c, 'f', -1, 64)
	}

	if msg, ok := body["message"].(string); ok && msg != "" {
		apiError.Message = msg
	} else if msg, ok := body["error"].(string); ok && msg != "" {
		apiError.Message = msg
	} else {
		apiError.Message = http.StatusText(apiError.StatusCode)
	}
}

// parseXMLResponse dynamically parses XML error responses and accumulates potential error messages.
func parseXMLResponse(bodyBytes []byte, apiError *HTTPError) {
	doc, err := xmlquery.Parse(bytes.NewReader(bodyBytes))
	if err != nil {
		return
	}

	var messages []string
	var traverse func(*xmlquery.Node)
	traverse = func(n *xmlquery.Node) {
		if n.Type == xmlquery.TextNode && strings.TrimSpace(n.Data) != "" {
			messages = append(messages, strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	if code := xmlquery.FindOne(doc, "//code"); code != nil {
		apiError.Code = strings.TrimSpace(code.InnerText())
	}

	if len(messages) > 0 {
		apiError.Message = strings.Join(messages, "; ")
	} else {
		apiError.Message = "Failed to extract error details from XML response"
	}
}

// parseTextResponse uses a plain text body verbatim as the message.
func parseTextResponse(bodyBytes []byte, apiError *HTTPError) {
	apiError.Message = strings.TrimSpace(string(bodyBytes))
}

// parseHTMLResponse builds the message from the page <title> and each <p>, in
// document order. Typically produced by a proxy or load balancer rather than the API itself.
func parseHTMLResponse(bodyBytes []byte, apiError *HTTPError) {
	doc, err := html.Parse(bytes.NewReader(bodyBytes))
	if err != nil {
		return
	}

	var messages []string
	for n := range doc.Descendants() {
		if n.Type != html.ElementNode || (n.Data != "title" && n.Data != "p") {
			continue
		}
		if text := htmlText(n); text != "" {
			messages = append(messages, text)
		}
	}

	if len(messages) > 0 {
		apiError.Message = strings.Join(messages, "; ")
	} else {
		apiError.Message = "HTML Error: See 'raw_response' field for details."
	}
}

// htmlText flattens the text under n, rendering anchors as [Link: href].
func htmlText(n *html.Node) string {
	var parts []string
	for c := range n.Descendants() {
		switch {
		case c.Type == html.TextNode:
			if t := strings.TrimSpace(c.Data); t != "" {
				parts = append(parts, t)
			}
		case c.Type == html.ElementNode && c.Data == "a":
			for _, attr := range c.Attr {
				if attr.Key == "href" {
					parts = append(parts, "[Link: "+attr.Val+"]")
					break
				}
			}
		}
	}
	return strings.Join(parts, " ")
}

func looksLikeJSON(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && (b[0] == '{' || b[0] == '[')
}
