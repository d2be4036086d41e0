// internal/cli/root.go
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/deploymenttheory/go-api-token-client/headers/redact"
	"github.com/deploymenttheory/go-api-token-client/httpclient"
	"github.com/deploymenttheory/go-api-token-client/logger"
	"github.com/deploymenttheory/go-api-token-client/response"
	"github.com/deploymenttheory/go-api-token-client/tokenstore"
	"github.com/deploymenttheory/go-api-token-client/version"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	baseURL    string
	tokenFile  string
	redisAddr  string
	redisKey   string
	logLevel   string
	logFormat  string
}

// NewRootCommand creates the apicall command tree.
func NewRootCommand() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "apicall <method> <path>",
		Short: "Send an authenticated request to a token protected API",
		Long: `apicall sends one request with the stored access token attached. When the API
reports TOKEN_EXPIRED the stored refresh token is exchanged for a new access token
and the request is sent again once.`,
		Args:          cobra.ExactArgs(2),
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var (
		data    string
		headers []string
		query   []string
	)
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		client, closeStore, err := opts.buildClient(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		req := httpclient.Request{Method: strings.ToUpper(args[0]), URL: args[1]}
		if data != "" {
			req.Body = json.RawMessage(data)
		}
		if req.Headers, err = parseHeaders(headers); err != nil {
			return err
		}
		if req.Query, err = parsePairs("query", query); err != nil {
			return err
		}

		result, err := client.Request(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	}

	rootCmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	rootCmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "Request header as name=value (repeatable)")
	rootCmd.Flags().StringArrayVarP(&query, "query", "q", nil, "Query parameter as key=value (repeatable)")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Client configuration file (json, yaml or toml)")
	flags.StringVar(&opts.baseURL, "base-url", "", "API base URL, overrides the configuration")
	flags.StringVar(&opts.tokenFile, "token-file", "", "Credentials file (default is the user config dir)")
	flags.StringVar(&opts.redisAddr, "redis-addr", "", "Keep tokens in Redis at this address instead of a file")
	flags.StringVar(&opts.redisKey, "redis-prefix", "apiclient:tokens:", "Redis key prefix for stored tokens")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format (pretty, json)")

	rootCmd.AddCommand(newRenewCommand(&opts))
	rootCmd.AddCommand(newTokensCommand(&opts))

	return rootCmd
}

func newRenewCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "renew",
		Short: "Exchange the stored refresh token for a new access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeStore, err := opts.buildClient(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			if !client.Renew(cmd.Context()) {
				return errors.New("token refresh failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "access token refreshed")
			return nil
		},
	}
}

func newTokensCommand(opts *options) *cobra.Command {
	tokensCmd := &cobra.Command{
		Use:   "tokens",
		Short: "Manage stored tokens",
	}

	var access, refresh string
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Store an access and/or refresh token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if access == "" && refresh == "" {
				return errors.New("nothing to store: pass --access and/or --refresh")
			}
			store, closeStore, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := cmd.Context()
			if access != "" {
				if err := store.SetAccessToken(ctx, access); err != nil {
					return fmt.Errorf("store access token: %w", err)
				}
			}
			if refresh != "" {
				if err := store.SetRefreshToken(ctx, refresh); err != nil {
					return fmt.Errorf("store refresh token: %w", err)
				}
			}
			return nil
		},
	}
	setCmd.Flags().StringVar(&access, "access", "", "Access token")
	setCmd.Flags().StringVar(&refresh, "refresh", "", "Refresh token")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored tokens, masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := cmd.Context()
			access, err := store.AccessToken(ctx)
			if err != nil {
				return err
			}
			refresh, err := store.RefreshToken(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "store:         %s\n", opts.describeStore(store))
			fmt.Fprintf(cmd.OutOrStdout(), "access_token:  %s\nrefresh_token: %s\n", mask(access), mask(refresh))
			return nil
		},
	}

	tokensCmd.AddCommand(setCmd, showCmd)
	return tokensCmd
}

// loadConfig reads the config file when given, otherwise APICLIENT_* variables,
// then applies flag overrides.
func (o *options) loadConfig() (*httpclient.ClientConfig, error) {
	var (
		config *httpclient.ClientConfig
		err    error
	)
	if o.configPath != "" {
		if config, err = httpclient.LoadConfigFromFile(o.configPath); err != nil {
			return nil, err
		}
	} else {
		config = httpclient.ConfigFromEnv()
	}

	if o.baseURL != "" {
		config.BaseURL = o.baseURL
	}
	if o.logLevel != "" {
		config.LogLevel = o.logLevel
	}
	if o.logFormat != "" {
		config.LogOutputFormat = o.logFormat
	}
	if config.BaseURL == "" {
		return nil, fmt.Errorf("no base url: set %s_BASE_URL or pass --base-url", httpclient.EnvPrefix)
	}
	return config, nil
}

// openStore returns the token store selected by the flags and a func releasing it.
func (o *options) openStore() (tokenstore.Store, func(), error) {
	if o.redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: o.redisAddr})
		return tokenstore.NewRedisStore(rdb, tokenstore.WithKeyPrefix(o.redisKey)), func() { _ = rdb.Close() }, nil
	}

	path := o.tokenFile
	if path == "" {
		var err error
		if path, err = tokenstore.DefaultCredentialsPath(); err != nil {
			return nil, nil, err
		}
	}
	return tokenstore.NewFileStore(path), func() {}, nil
}

// describeStore names where store keeps the tokens.
func (o *options) describeStore(store tokenstore.Store) string {
	if fs, ok := store.(*tokenstore.FileStore); ok {
		return fs.Path()
	}
	return fmt.Sprintf("redis %s prefix %s", o.redisAddr, o.redisKey)
}

func (o *options) buildClient(cmd *cobra.Command) (*httpclient.Client, func(), error) {
	config, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	store, closeStore, err := o.openStore()
	if err != nil {
		return nil, nil, err
	}

	httpclient.SetDefaultValuesClientConfig(config)
	var sensitive redact.Set
	if !config.ShowSensitiveData {
		sensitive = redact.NewSet(config.AccessTokenHeader)
	}
	config.Logger = logger.NewLogger(cmd.ErrOrStderr(), logger.ParseLogLevelFromString(config.LogLevel), config.LogOutputFormat, sensitive)
	config.TokenStore = store
	config.OnRefreshFailure = func(err error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "token refresh failed (%v); store new tokens with 'apicall tokens set'\n", err)
	}

	client, err := httpclient.BuildClient(*config)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return client, closeStore, nil
}

func parseHeaders(pairs []string) (http.Header, error) {
	values, err := parsePairs("header", pairs)
	if err != nil || values == nil {
		return nil, err
	}
	h := http.Header{}
	for k, vs := range values {
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	return h, nil
}

func parsePairs(kind string, pairs []string) (map[string][]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string][]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid %s %q, expected key=value", kind, p)
		}
		out[k] = append(out[k], v)
	}
	return out, nil
}

func printJSON(w io.Writer, result *response.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func mask(token string) string {
	switch {
	case token == "":
		return "(none)"
	case len(token) <= 8:
		return strings.Repeat("*", len(token))
	default:
		return token[:4] + strings.Repeat("*", len(token)-4)
	}
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
