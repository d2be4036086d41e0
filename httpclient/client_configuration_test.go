// httpclient/client_configuration_test.go
package httpclient

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deploymenttheory/go-api-token-client/mocklogger"
	"github.com/deploymenttheory/go-api-token-client/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSetDefaultValuesClientConfig(t *testing.T) {
	config := ClientConfig{BaseURL: "https://api.example.com"}
	SetDefaultValuesClientConfig(&config)

	assert.Equal(t, DefaultAccessTokenHeader, config.AccessTokenHeader)
	assert.Equal(t, DefaultRefreshPath, config.RefreshPath)
	assert.Equal(t, DefaultLogLevelString, config.LogLevel)
	assert.Equal(t, DefaultLogOutputFormatString, config.LogOutputFormat)
	assert.Equal(t, DefaultCustomTimeout, config.CustomTimeout)
	assert.Equal(t, version.GetUserAgentHeader(), config.UserAgent)
	assert.NotNil(t, config.TokenStore)
}

func TestSetDefaultValuesKeepsExplicitValues(t *testing.T) {
	config := ClientConfig{
		BaseURL:           "https://api.example.com",
		AccessTokenHeader: "X-Session",
		RefreshPath:       "/session/renew",
		CustomTimeout:     3 * time.Second,
		UserAgent:         "inventory-sync/2.1",
	}
	SetDefaultValuesClientConfig(&config)

	assert.Equal(t, "X-Session", config.AccessTokenHeader)
	assert.Equal(t, "/session/renew", config.RefreshPath)
	assert.Equal(t, 3*time.Second, config.CustomTimeout)
	assert.Equal(t, "inventory-sync/2.1", config.UserAgent)
}

func TestValidateClientConfig(t *testing.T) {
	valid := func() ClientConfig {
		c := ClientConfig{BaseURL: "https://api.example.com"}
		SetDefaultValuesClientConfig(&c)
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*ClientConfig)
		wantErr string
	}{
		{"defaults are valid", func(*ClientConfig) {}, ""},
		{"missing base url", func(c *ClientConfig) { c.BaseURL = "" }, "base url is required"},
		{"unsupported scheme", func(c *ClientConfig) { c.BaseURL = "ftp://api.example.com" }, "http or https"},
		{"no host", func(c *ClientConfig) { c.BaseURL = "https://" }, "no host"},
		{"bad header name", func(c *ClientConfig) { c.AccessTokenHeader = "x access token" }, "header name"},
		{"relative refresh path", func(c *ClientConfig) { c.RefreshPath = "auth/resign" }, "refresh path"},
		{"absolute refresh url", func(c *ClientConfig) { c.RefreshPath = "https://auth.example.com/resign" }, ""},
		{"bad log level", func(c *ClientConfig) { c.LogLevel = "LogLevelLoud" }, "invalid log level"},
		{"bad log format", func(c *ClientConfig) { c.LogOutputFormat = "xml" }, "invalid log output format"},
		{"negative timeout", func(c *ClientConfig) { c.CustomTimeout = -time.Second }, "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := validateClientConfig(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildClientRejectsInvalidConfig(t *testing.T) {
	client, err := BuildClient(ClientConfig{BaseURL: "not a url"})
	assert.Nil(t, client)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestBuildClientWithoutLoggerBuildsZap(t *testing.T) {
	client, err := BuildClient(ClientConfig{
		BaseURL:         "https://api.example.com",
		LogLevel:        "LogLevelWarn",
		LogOutputFormat: "json",
	})
	require.NoError(t, err)
	require.NotNil(t, client.Logger)
	assert.Nil(t, client.Metrics)
	assert.Equal(t, "https://api.example.com", client.Config().BaseURL)
}

func TestBuildClientUsesProvidedLogger(t *testing.T) {
	mockLogger := mocklogger.Permissive()
	_, err := BuildClient(ClientConfig{BaseURL: "https://api.example.com", Logger: mockLogger})
	require.NoError(t, err)

	mockLogger.AssertCalled(t, "Debug", "New API client initialized", mock.Anything)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apiclient.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"base_url": "https://api.example.com/v1",
		"access_token_header": "X-Session",
		"log_output_format": "json",
		"show_sensitive_data": true,
		"custom_timeout": "5s"
	}`), 0o600))

	config, err := LoadConfigFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v1", config.BaseURL)
	assert.Equal(t, "X-Session", config.AccessTokenHeader)
	assert.Equal(t, DefaultRefreshPath, config.RefreshPath)
	assert.Equal(t, "json", config.LogOutputFormat)
	assert.True(t, config.ShowSensitiveData)
	assert.Equal(t, 5*time.Second, config.CustomTimeout)
}

func TestLoadConfigFromFileEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apiclient.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://api.example.com\nrefresh_path: /auth/resign\n"), 0o600))
	t.Setenv("APICLIENT_REFRESH_PATH", "/v2/auth/resign")

	config, err := LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/v2/auth/resign", config.RefreshPath)
}

func TestLoadConfigFromFileMissing(t *testing.T) {
	_, err := LoadConfigFromFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("APICLIENT_BASE_URL", "https://api.example.com")
	t.Setenv("APICLIENT_ACCESS_TOKEN_HEADER", "X-Session")
	t.Setenv("APICLIENT_CUSTOM_TIMEOUT", "30s")

	config, err := LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", config.BaseURL)
	assert.Equal(t, "X-Session", config.AccessTokenHeader)
	assert.Equal(t, 30*time.Second, config.CustomTimeout)
	assert.False(t, config.ShowSensitiveData)
	assert.Equal(t, DefaultLogLevelString, config.LogLevel)
}

func TestLoadConfigFromEnvRequiresBaseURL(t *testing.T) {
	t.Setenv("APICLIENT_BASE_URL", "")
	_, err := LoadConfigFromEnv()
	assert.ErrorContains(t, err, "APICLIENT_BASE_URL")
}
