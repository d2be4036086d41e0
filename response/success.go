// response/success.go
/* Responsible for unwrapping successful API responses. The body is read once and, when it is JSON,
decoded so the backend's `result` flag and payload fields are available without a second pass. */
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Result is the unwrapped body of a 2xx response.
type Result struct {
	// Result is the boolean `result` field of a JSON object body; false when absent.
	Result bool
	// Data holds every field of a JSON object body, including `result`.
	Data map[string]any
	// Raw is the undecoded body. Empty for HEAD and 204 responses.
	Raw []byte

	StatusCode int
	Header     http.Header
}

// Decode unmarshals the raw JSON body into out.
func (r *Result) Decode(out any) error {
	if len(r.Raw) == 0 {
		return errors.New("response has no body to decode")
	}
	if err := json.Unmarshal(r.Raw, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// MarshalJSON renders the payload as the backend sent it, which is what
// callers printing a Result expect to see.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r.Data != nil {
		return json.Marshal(r.Data)
	}
	if len(r.Raw) > 0 && json.Valid(r.Raw) {
		return r.Raw, nil
	}
	return json.Marshal(map[string]any{"result": r.Result})
}

// HandleAPISuccessResponse reads the response body and unwraps it into a Result.
func HandleAPISuccessResponse(resp *http.Response) (*Result, error) {
	result := &Result{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if len(bodyBytes) == 0 {
		return result, nil
	}
	result.Raw = bodyBytes

	mimeType, _ := parseHeader(resp.Header.Get("Content-Type"))
	isJSON := mimeType == "application/json" || strings.HasSuffix(mimeType, "+json")
	if !isJSON && !looksLikeJSON(bodyBytes) {
		return result, nil
	}

	var payload any
	if err := json.Unmarshal(bodyBytes, &payload); err != nil {
		if isJSON {
			return nil, fmt.Errorf("decode JSON response body: %w", err)
		}
		return result, nil
	}

	if obj, ok := payload.(map[string]any); ok {
		result.Data = obj
		result.Result, _ = obj["result"].(bool)
	}

	return result, nil
}
