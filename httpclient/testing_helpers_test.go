// httpclient/testing_helpers_test.go
package httpclient

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/deploymenttheory/go-api-token-client/logger"
	"github.com/deploymenttheory/go-api-token-client/tokenstore"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordedRequest is what the fake backend saw for one call.
type recordedRequest struct {
	Method      string
	Path        string
	EscapedPath string
	Query       string
	Header      http.Header
	Body        []byte
}

// fakeBackend records every request and dispatches to per-path handlers.
type fakeBackend struct {
	t        *testing.T
	server   *httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
	handlers map[string]http.HandlerFunc
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{t: t, handlers: map[string]http.HandlerFunc{}}
	b.server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) handle(path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[path] = h
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.requests = append(b.requests, recordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		EscapedPath: r.URL.EscapedPath(),
		Query:       r.URL.RawQuery,
		Header:      r.Header.Clone(),
		Body:        body,
	})
	h, ok := b.handlers[r.URL.Path]
	b.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "no route"})
		return
	}
	h(w, r)
}

// calls returns the recorded requests for path.
func (b *fakeBackend) calls(path string) []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []recordedRequest
	for _, r := range b.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (b *fakeBackend) total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func tokenExpired(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]any{
		"status":  401,
		"message": "jwt expired",
		"code":    "TOKEN_EXPIRED",
	})
}

// resignWith answers the resign endpoint with a new access token.
func resignWith(token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"result": true, "data": token})
	}
}

// newTestClient builds a client against the backend with a quiet logger.
func newTestClient(t *testing.T, b *fakeBackend, store tokenstore.Store, mutate ...func(*ClientConfig)) *Client {
	t.Helper()
	cfg := ClientConfig{
		BaseURL:    b.server.URL,
		TokenStore: store,
		Logger:     logger.NewZapLogger(zap.NewNop(), logger.LogLevelDebug),
	}
	for _, m := range mutate {
		m(&cfg)
	}
	client, err := BuildClient(cfg)
	require.NoError(t, err)
	return client
}
