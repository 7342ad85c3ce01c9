// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

// Package config loads TaskShare server configuration.
//
// Sources are layered in increasing precedence: built-in defaults, an
// optional YAML file, environment variables, then command-line flags.
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Error codes returned by Load and Validate.
const (
	CodeInvalid       = "CONFIG_INVALID"
	CodeMissingSecret = "CONFIG_MISSING_SECRET"
)

// EnvPrefix marks environment variables that map onto config keys, e.g.
// TASKSHARE_HTTP_ADDR sets http.addr.
const EnvPrefix = "TASKSHARE_"

// Default values.
const (
	DefaultHTTPAddr          = ":8080"
	DefaultMetricsAddr       = "127.0.0.1:9100"
	DefaultLogFormat         = "json"
	DefaultLogLevel          = "info"
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultConnectAttempts   = 5
	DefaultConnectBackoff    = 500 * time.Millisecond
)

// Config is the complete server configuration.
type Config struct {
	HTTP     HTTP     `koanf:"http" json:"http,omitempty"`
	Metrics  Metrics  `koanf:"metrics" json:"metrics,omitempty"`
	Log      Log      `koanf:"log" json:"log,omitempty"`
	Database Database `koanf:"database" json:"database,omitempty"`
	JWT      JWT      `koanf:"jwt" json:"jwt,omitempty"`
	CORS     CORS     `koanf:"cors" json:"cors,omitempty"`
}

// HTTP configures the API listener.
type HTTP struct {
	Addr              string        `koanf:"addr" json:"addr,omitempty" jsonschema:"description=API listen address"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" json:"read_header_timeout,omitempty" jsonschema:"type=string,description=Go duration such as 10s"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout,omitempty" jsonschema:"type=string,description=Go duration such as 10s"`
	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string `koanf:"tls_cert_file" json:"tls_cert_file,omitempty" jsonschema:"description=PEM certificate for HTTPS"`
	TLSKeyFile  string `koanf:"tls_key_file" json:"tls_key_file,omitempty" jsonschema:"description=PEM private key for HTTPS"`
}

// TLSEnabled reports whether a certificate and key are configured.
func (h HTTP) TLSEnabled() bool {
	return h.TLSCertFile != "" && h.TLSKeyFile != ""
}

// Metrics configures the observability listener. An empty address disables it.
type Metrics struct {
	Addr string `koanf:"addr" json:"addr,omitempty" jsonschema:"description=metrics and health listen address (empty disables)"`
}

// Log configures structured logging.
type Log struct {
	Format string `koanf:"format" json:"format,omitempty" jsonschema:"enum=json,enum=text"`
	Level  string `koanf:"level" json:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// Database configures the PostgreSQL pool.
type Database struct {
	URL             string        `koanf:"url" json:"url,omitempty"`
	MaxConns        int32         `koanf:"max_conns" json:"max_conns,omitempty" jsonschema:"minimum=0"`
	ConnectAttempts uint64        `koanf:"connect_attempts" json:"connect_attempts,omitempty" jsonschema:"minimum=1"`
	ConnectBackoff  time.Duration `koanf:"connect_backoff" json:"connect_backoff,omitempty" jsonschema:"type=string,description=Go duration such as 500ms"`
}

// JWT holds the session token signing secret.
type JWT struct {
	Secret string `koanf:"secret" json:"secret,omitempty"`
}

// CORS lists the browser origins allowed to make credentialed requests.
type CORS struct {
	AllowedOrigins []string `koanf:"allowed_origins" json:"allowed_origins,omitempty" jsonschema:"description=glob patterns such as https://*.taskshare.app"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTP: HTTP{
			Addr:              DefaultHTTPAddr,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			ShutdownTimeout:   DefaultShutdownTimeout,
		},
		Metrics: Metrics{Addr: DefaultMetricsAddr},
		Log:     Log{Format: DefaultLogFormat, Level: DefaultLogLevel},
		Database: Database{
			ConnectAttempts: DefaultConnectAttempts,
			ConnectBackoff:  DefaultConnectBackoff,
		},
	}
}

// defaultKeys flattens Default into koanf keys.
func defaultKeys() map[string]any {
	d := Default()
	return map[string]any{
		"http.addr":                 d.HTTP.Addr,
		"http.read_header_timeout":  d.HTTP.ReadHeaderTimeout,
		"http.shutdown_timeout":     d.HTTP.ShutdownTimeout,
		"metrics.addr":              d.Metrics.Addr,
		"log.format":                d.Log.Format,
		"log.level":                 d.Log.Level,
		"database.connect_attempts": d.Database.ConnectAttempts,
		"database.connect_backoff":  d.Database.ConnectBackoff,
	}
}

// envAliases are unprefixed variables kept for deployment compatibility.
var envAliases = map[string]string{
	"JWT_SECRET":   "jwt.secret",
	"DATABASE_URL": "database.url",
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"http-addr":    "http.addr",
	"metrics-addr": "metrics.addr",
	"log-format":   "log.format",
	"log-level":    "log.level",
	"database-url": "database.url",
	"tls-cert":     "http.tls_cert_file",
	"tls-key":      "http.tls_key_file",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("http-addr", DefaultHTTPAddr, "API listen address")
	fs.String("metrics-addr", DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	fs.String("log-format", DefaultLogFormat, "log format (json or text)")
	fs.String("log-level", DefaultLogLevel, "log level (debug, info, warn, error)")
	fs.String("database-url", "", "PostgreSQL connection URL (default: $DATABASE_URL)")
	fs.String("tls-cert", "", "PEM certificate file; serves HTTPS together with --tls-key")
	fs.String("tls-key", "", "PEM private key file")
}

// Load builds the configuration. path may be empty; flags may be nil.
// Load does not call Validate.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaultKeys() {
		if err := k.Set(key, value); err != nil {
			return nil, oops.Code(CodeInvalid).With("key", key).Wrap(err)
		}
	}

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
		if err != nil {
			return nil, oops.Code(CodeInvalid).With("path", path).Wrap(err)
		}
		if err := ValidateSchema(data); err != nil {
			return nil, oops.Code(CodeInvalid).With("path", path).Wrap(err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code(CodeInvalid).With("path", path).Wrap(err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envKey), nil); err != nil {
		return nil, oops.Code(CodeInvalid).With("source", "environment").Wrap(err)
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code(CodeInvalid).With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code(CodeInvalid).With("operation", "decode config").Wrap(err)
	}
	return &cfg, nil
}

// envKey maps an environment variable onto a config key. An empty key
// tells the provider to skip the variable. Empty values are skipped so they
// never mask the file layer.
func envKey(name, value string) (string, any) {
	if value == "" {
		return "", nil
	}
	if key, ok := envAliases[name]; ok {
		return key, value
	}
	rest, ok := strings.CutPrefix(name, EnvPrefix)
	if !ok {
		return "", nil
	}
	section, field, ok := strings.Cut(strings.ToLower(rest), "_")
	if !ok || section == "" || field == "" {
		return "", nil
	}
	key := section + "." + field
	if key == "cors.allowed_origins" {
		return key, splitList(value)
	}
	return key, value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks everything the server needs to start.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return oops.Code(CodeMissingSecret).Errorf("JWT_SECRET is required")
	}
	if c.HTTP.Addr == "" {
		return oops.Code(CodeInvalid).Errorf("http.addr is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code(CodeInvalid).With("format", c.Log.Format).
			Errorf("log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return oops.Code(CodeInvalid).Errorf("http.shutdown_timeout must be positive")
	}
	if (c.HTTP.TLSCertFile == "") != (c.HTTP.TLSKeyFile == "") {
		return oops.Code(CodeInvalid).Errorf("http.tls_cert_file and http.tls_key_file must be set together")
	}
	return c.ValidateDatabase()
}

// ValidateDatabase checks only the database settings, for commands that do
// not serve requests.
func (c *Config) ValidateDatabase() error {
	if c.Database.URL == "" {
		return oops.Code(CodeInvalid).Errorf("DATABASE_URL is required")
	}
	if c.Database.MaxConns < 0 {
		return oops.Code(CodeInvalid).With("max_conns", c.Database.MaxConns).
			Errorf("database.max_conns must not be negative")
	}
	return nil
}

// ParseLevel converts a log.level value to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, oops.Code(CodeInvalid).With("level", s).Wrap(err)
	}
	return level, nil
}
