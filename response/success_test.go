// response/success_test.go
package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func successResponse(status int, contentType, body string) *http.Response {
	recorder := httptest.NewRecorder()
	if contentType != "" {
		recorder.Header().Set("Content-Type", contentType)
	}
	recorder.WriteHeader(status)
	recorder.WriteString(body)
	return recorder.Result()
}

func TestHandleAPISuccessResponse_JSONObject(t *testing.T) {
	result, err := HandleAPISuccessResponse(successResponse(http.StatusOK, "application/json", `{"result":true,"items":[]}`))
	require.NoError(t, err)

	assert.True(t, result.Result)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, []any{}, result.Data["items"])

	var typed struct {
		Result bool     `json:"result"`
		Items  []string `json:"items"`
	}
	require.NoError(t, result.Decode(&typed))
	assert.True(t, typed.Result)
	assert.Empty(t, typed.Items)
}

func TestHandleAPISuccessResponse_ResultFlag(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"result false", `{"result":false,"data":1}`, false},
		{"result absent", `{"data":1}`, false},
		{"result not boolean", `{"result":"yes"}`, false},
		{"array body", `[1,2,3]`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := HandleAPISuccessResponse(successResponse(http.StatusOK, "application/json", tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Result)
			assert.Equal(t, tt.body, string(result.Raw))
		})
	}
}

func TestHandleAPISuccessResponse_NoBody(t *testing.T) {
	result, err := HandleAPISuccessResponse(successResponse(http.StatusNoContent, "", ""))
	require.NoError(t, err)

	assert.False(t, result.Result)
	assert.Nil(t, result.Data)
	assert.Empty(t, result.Raw)
	assert.Error(t, result.Decode(&struct{}{}))
}

func TestHandleAPISuccessResponse_NonJSON(t *testing.T) {
	result, err := HandleAPISuccessResponse(successResponse(http.StatusOK, "text/plain", "pong"))
	require.NoError(t, err)

	assert.Nil(t, result.Data)
	assert.Equal(t, "pong", string(result.Raw))
}

func TestHandleAPISuccessResponse_MalformedJSON(t *testing.T) {
	_, err := HandleAPISuccessResponse(successResponse(http.StatusOK, "application/json", `{"result":`))
	assert.Error(t, err)
}

func TestResultMarshalJSON(t *testing.T) {
	result, err := HandleAPISuccessResponse(successResponse(http.StatusOK, "application/json", `{"result":true,"items":[]}`))
	require.NoError(t, err)

	out, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":true,"items":[]}`, string(out))

	out, err = json.Marshal(&Result{Result: false})
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":false}`, string(out))
}
