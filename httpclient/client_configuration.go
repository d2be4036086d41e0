// httpclient/client_configuration.go
// Description: This file contains the client configuration, its defaults, validation, and loading from a file or environment variables.
package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/deploymenttheory/go-api-token-client/logger"
	"github.com/deploymenttheory/go-api-token-client/metrics"
	"github.com/deploymenttheory/go-api-token-client/tokenstore"
	"github.com/deploymenttheory/go-api-token-client/version"
	"github.com/spf13/viper"
	"golang.org/x/net/http/httpguts"
)

const (
	DefaultAccessTokenHeader     = "x-access-token"
	DefaultRefreshPath           = "/auth/resign"
	DefaultLogLevelString        = "LogLevelInfo"
	DefaultLogOutputFormatString = logger.LogOutputPretty
	DefaultCustomTimeout         = 10 * time.Second

	// EnvPrefix is prepended to every configuration key read from the environment.
	EnvPrefix = "APICLIENT"
)

var validLogFormats = []string{
	logger.LogOutputJSON,
	logger.LogOutputPretty,
}

// ClientConfig holds every option of the client. Only BaseURL is required.
type ClientConfig struct {
	// BaseURL is the location relative request URLs are resolved against.
	BaseURL string
	// AccessTokenHeader names the header carrying the access token.
	AccessTokenHeader string
	// RefreshPath is the resign endpoint, relative to BaseURL unless absolute.
	RefreshPath string

	// TokenStore holds the access and refresh tokens. Defaults to an empty in-memory store.
	TokenStore tokenstore.Store
	// TokenAccessors override individual get/set operations of TokenStore.
	TokenAccessors tokenstore.Accessors

	// Log
	ErrorLog          logger.Sink   // Warn and Error output; zero value is logger.Default()
	InfoLog           logger.Sink   // Debug and Info output; a Custom sink gets Debug only at debug level
	Logger            logger.Logger // base logger; built from LogLevel and LogOutputFormat when nil
	LogLevel          string
	LogOutputFormat   string // "json" or "pretty"
	ShowSensitiveData bool   // log token headers unredacted; off by default

	// OnRefreshFailure is called once for every refresh attempt that fails.
	OnRefreshFailure func(err error)

	// Misc
	CustomTimeout time.Duration
	UserAgent     string
	HTTPClient    *http.Client
	Metrics       *metrics.Collector
}

// SetDefaultValuesClientConfig fills every unset field with its default.
func SetDefaultValuesClientConfig(config *ClientConfig) {
	if config.AccessTokenHeader == "" {
		config.AccessTokenHeader = DefaultAccessTokenHeader
	}

	if config.RefreshPath == "" {
		config.RefreshPath = DefaultRefreshPath
	}

	if config.TokenStore == nil {
		config.TokenStore = tokenstore.NewMemoryStore("", "")
	}

	if config.LogLevel == "" {
		config.LogLevel = DefaultLogLevelString
	}

	if config.LogOutputFormat == "" {
		config.LogOutputFormat = DefaultLogOutputFormatString
	}

	if config.CustomTimeout == 0 {
		config.CustomTimeout = DefaultCustomTimeout
	}

	if config.UserAgent == "" {
		config.UserAgent = version.GetUserAgentHeader()
	}
}

func validateClientConfig(config ClientConfig) error {
	if config.BaseURL == "" {
		return errors.New("base url is required")
	}

	u, err := url.Parse(config.BaseURL)
	if err != nil {
		return fmt.Errorf("base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base url must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("base url has no host")
	}

	if !httpguts.ValidHeaderFieldName(config.AccessTokenHeader) {
		return fmt.Errorf("invalid access token header name: %q", config.AccessTokenHeader)
	}

	if !strings.HasPrefix(config.RefreshPath, "/") {
		ref, err := url.Parse(config.RefreshPath)
		if err != nil || !ref.IsAbs() {
			return fmt.Errorf("refresh path must start with / or be an absolute url: %q", config.RefreshPath)
		}
	}

	if !logger.IsValidLogLevel(config.LogLevel) {
		return fmt.Errorf("invalid log level: %s", config.LogLevel)
	}

	if !slices.Contains(validLogFormats, config.LogOutputFormat) {
		return fmt.Errorf("invalid log output format: %s", config.LogOutputFormat)
	}

	if config.CustomTimeout < 0 {
		return errors.New("timeout cannot be less than 0 seconds")
	}

	return nil
}

// LoadConfigFromFile reads the serialisable part of ClientConfig from a JSON, YAML or TOML file.
// Environment variables prefixed with APICLIENT_ override values from the file.
func LoadConfigFromFile(path string) (*ClientConfig, error) {
	v := newConfigViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	return configFromViper(v), nil
}

// LoadConfigFromEnv reads the serialisable part of ClientConfig from APICLIENT_* environment variables,
// e.g. APICLIENT_BASE_URL and APICLIENT_REFRESH_PATH.
func LoadConfigFromEnv() (*ClientConfig, error) {
	cfg := ConfigFromEnv()
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%s_BASE_URL is not set", EnvPrefix)
	}
	return cfg, nil
}

// ConfigFromEnv is LoadConfigFromEnv without the BaseURL requirement, for callers
// that supply the base URL some other way.
func ConfigFromEnv() *ClientConfig {
	return configFromViper(newConfigViper())
}

func newConfigViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("base_url", "")
	v.SetDefault("access_token_header", DefaultAccessTokenHeader)
	v.SetDefault("refresh_path", DefaultRefreshPath)
	v.SetDefault("log_level", DefaultLogLevelString)
	v.SetDefault("log_output_format", DefaultLogOutputFormatString)
	v.SetDefault("show_sensitive_data", false)
	v.SetDefault("custom_timeout", DefaultCustomTimeout)
	v.SetDefault("user_agent", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func configFromViper(v *viper.Viper) *ClientConfig {
	return &ClientConfig{
		BaseURL:           v.GetString("base_url"),
		AccessTokenHeader: v.GetString("access_token_header"),
		RefreshPath:       v.GetString("refresh_path"),
		LogLevel:          v.GetString("log_level"),
		LogOutputFormat:   v.GetString("log_output_format"),
		ShowSensitiveData: v.GetBool("show_sensitive_data"),
		CustomTimeout:     v.GetDuration("custom_timeout"),
		UserAgent:         v.GetString("user_agent"),
	}
}
