// version_test.go
package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGetUserAgentHeader verifies that the GetUserAgentHeader function returns the expected user agent string
func TestGetUserAgentHeader(t *testing.T) {
	assert.Equal(t, GetAppName()+"/"+GetVersion(), GetUserAgentHeader(), "User agent string should match expected format")
}
