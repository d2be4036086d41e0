// httpclient/client.go
/* The `httpclient` package provides an HTTP client for APIs that authenticate with a short-lived access token
and a longer-lived refresh token. Every request carries the access token currently held by the configured
token store. When the API answers with the TOKEN_EXPIRED error code the client exchanges the refresh token
for a new access token at the resign endpoint and retries the original request exactly once. */
package httpclient

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/deploymenttheory/go-api-token-client/headers/redact"
	"github.com/deploymenttheory/go-api-token-client/logger"
	"github.com/deploymenttheory/go-api-token-client/metrics"
	"github.com/deploymenttheory/go-api-token-client/tokenstore"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Client is safe for concurrent use. Its configuration is fixed at BuildClient.
type Client struct {
	config    ClientConfig
	http      *http.Client
	baseURL   *url.URL
	store     tokenstore.Store
	sensitive redact.Set
	refresh   singleflight.Group

	Logger  logger.Logger
	Metrics *metrics.Collector
}

// BuildClient creates a new HTTP client with the provided configuration.
// Unset fields take the package defaults.
func BuildClient(config ClientConfig) (*Client, error) {
	SetDefaultValuesClientConfig(&config)

	if err := validateClientConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: base url: %w", err)
	}

	//region Logging

	sensitive := redact.NewSet(config.AccessTokenHeader)

	base := config.Logger
	if base == nil {
		var redacted redact.Set
		if !config.ShowSensitiveData {
			redacted = sensitive
		}
		base, err = logger.BuildLogger(logger.ParseLogLevelFromString(config.LogLevel), config.LogOutputFormat, redacted)
		if err != nil {
			return nil, err
		}
	}
	log := logger.NewRoutedLogger(base, config.ErrorLog, config.InfoLog)

	//endregion

	//region HTTP

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.CustomTimeout}
	}

	//endregion

	client := &Client{
		config:    config,
		http:      httpClient,
		baseURL:   baseURL,
		store:     tokenstore.WithAccessors(config.TokenStore, config.TokenAccessors),
		sensitive: sensitive,
		Logger:    log,
		Metrics:   config.Metrics,
	}

	log.Debug("New API client initialized",
		zap.String("Base URL", config.BaseURL),
		zap.String("Access Token Header", config.AccessTokenHeader),
		zap.String("Refresh Path", config.RefreshPath),
		zap.String("Logging Level", config.LogLevel),
		zap.String("Log Encoding Format", config.LogOutputFormat),
		zap.Bool("Show Sensitive Data In Logs", config.ShowSensitiveData),
		zap.Duration("Custom Timeout", config.CustomTimeout),
		zap.String("User Agent", config.UserAgent),
	)

	return client, nil
}

// Config returns a copy of the configuration the client was built with.
func (c *Client) Config() ClientConfig {
	return c.config
}
