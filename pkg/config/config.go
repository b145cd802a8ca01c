package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// HTTPConfig is the HTTP configuration for the server.
type HTTPConfig struct {
	// ListenAddr is the address on which the HTTP server will listen.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`

	// PublicURL is the public URL of the HTTP server.
	// It is used as the issuer of access tokens.
	PublicURL string `env:"PUBLIC_URL" yaml:"public_url"`

	// CORSOrigins is the list of allowed CORS origins.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," yaml:"cors_origins"`
}

// StatsConfig is the configuration for the stats server.
type StatsConfig struct {
	// ListenAddr is the address on which the stats server will listen.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`
}

// LogConfig is the logger configuration.
type LogConfig struct {
	// Format is the format of the logs.
	// Valid values are "json", "logfmt", and "text".
	Format string `env:"FORMAT" yaml:"format"`

	// Time format for the log `ts` field.
	// Format must be described in Golang's time format.
	TimeFormat string `env:"TIME_FORMAT" yaml:"time_format"`

	// Path to a file to write logs to.
	// If not set, logs will be written to stderr.
	Path string `env:"PATH" yaml:"path"`
}

// DBConfig is the database connection configuration.
type DBConfig struct {
	// Driver is the driver for the database.
	// Valid values are "sqlite", "postgres", and "pgx".
	Driver string `env:"DRIVER" yaml:"driver"`

	// DataSource is the database data source name.
	DataSource string `env:"DATA_SOURCE" yaml:"data_source"`
}

// RedisConfig is the Redis connection configuration.
type RedisConfig struct {
	Addr     string `env:"ADDR" yaml:"addr"`
	Username string `env:"USERNAME" yaml:"username"`
	Password string `env:"PASSWORD" yaml:"password"`
	DB       int    `env:"DB" yaml:"db"`
}

// CacheConfig is the cache configuration.
type CacheConfig struct {
	// Driver is the cache driver.
	// Valid values are "lru", "redis", and "noop".
	Driver string `env:"DRIVER" yaml:"driver"`

	// Size is the maximum number of items kept by the lru driver.
	Size int `env:"SIZE" yaml:"size"`

	// LedgerTTL is how long quiz answer records are kept for export.
	LedgerTTL time.Duration `env:"LEDGER_TTL" yaml:"ledger_ttl"`

	// Redis is the Redis configuration used by the redis driver.
	Redis RedisConfig `envPrefix:"REDIS_" yaml:"redis"`
}

// JWTConfig is the access token configuration.
type JWTConfig struct {
	// KeyPath is the path to the Ed25519 key used to sign tokens.
	KeyPath string `env:"KEY_PATH" yaml:"key_path"`

	// Expiry is the lifetime of an issued token.
	Expiry time.Duration `env:"EXPIRY" yaml:"expiry"`
}

// JobsConfig is the configuration for cron jobs.
type JobsConfig struct {
	// NotifyRetakes is the cron spec of the quiz retake reminder sweep.
	NotifyRetakes string `env:"NOTIFY_RETAKES" yaml:"notify_retakes"`
}

// Config is the configuration for QuizHub.
type Config struct {
	// Name is the name of the server.
	Name string `env:"NAME" yaml:"name"`

	// HTTP is the configuration for the HTTP server.
	HTTP HTTPConfig `envPrefix:"HTTP_" yaml:"http"`

	// Stats is the configuration for the stats server.
	Stats StatsConfig `envPrefix:"STATS_" yaml:"stats"`

	// Log is the logger configuration.
	Log LogConfig `envPrefix:"LOG_" yaml:"log"`

	// DB is the database configuration.
	DB DBConfig `envPrefix:"DB_" yaml:"db"`

	// Cache is the cache configuration.
	Cache CacheConfig `envPrefix:"CACHE_" yaml:"cache"`

	// JWT is the access token configuration.
	JWT JWTConfig `envPrefix:"JWT_" yaml:"jwt"`

	// Jobs is the configuration for cron jobs
	Jobs JobsConfig `envPrefix:"JOBS_" yaml:"jobs"`

	// DataPath is the path to the directory where QuizHub will store its data.
	DataPath string `env:"DATA_PATH" yaml:"-"`
}

var (
	// ErrNilConfig is returned when a nil config is passed to a function.
	ErrNilConfig = errors.New("nil config")

	// ErrUnknownCacheDriver is returned when the cache driver is not supported.
	ErrUnknownCacheDriver = errors.New("unknown cache driver")
)

// Environ returns the config as a list of environment variables.
func (c *Config) Environ() []string {
	if c == nil {
		return nil
	}

	return []string{
		fmt.Sprintf("QUIZHUB_DATA_PATH=%s", c.DataPath),
		fmt.Sprintf("QUIZHUB_NAME=%s", c.Name),
		fmt.Sprintf("QUIZHUB_HTTP_LISTEN_ADDR=%s", c.HTTP.ListenAddr),
		fmt.Sprintf("QUIZHUB_HTTP_PUBLIC_URL=%s", c.HTTP.PublicURL),
		fmt.Sprintf("QUIZHUB_HTTP_CORS_ORIGINS=%s", strings.Join(c.HTTP.CORSOrigins, ",")),
		fmt.Sprintf("QUIZHUB_STATS_LISTEN_ADDR=%s", c.Stats.ListenAddr),
		fmt.Sprintf("QUIZHUB_LOG_FORMAT=%s", c.Log.Format),
		fmt.Sprintf("QUIZHUB_LOG_TIME_FORMAT=%s", c.Log.TimeFormat),
		fmt.Sprintf("QUIZHUB_DB_DRIVER=%s", c.DB.Driver),
		fmt.Sprintf("QUIZHUB_DB_DATA_SOURCE=%s", c.DB.DataSource),
		fmt.Sprintf("QUIZHUB_CACHE_DRIVER=%s", c.Cache.Driver),
		fmt.Sprintf("QUIZHUB_CACHE_SIZE=%d", c.Cache.Size),
		fmt.Sprintf("QUIZHUB_CACHE_LEDGER_TTL=%s", c.Cache.LedgerTTL),
		fmt.Sprintf("QUIZHUB_CACHE_REDIS_ADDR=%s", c.Cache.Redis.Addr),
		fmt.Sprintf("QUIZHUB_JWT_KEY_PATH=%s", c.JWT.KeyPath),
		fmt.Sprintf("QUIZHUB_JWT_EXPIRY=%s", c.JWT.Expiry),
		fmt.Sprintf("QUIZHUB_JOBS_NOTIFY_RETAKES=%s", c.Jobs.NotifyRetakes),
	}
}

// IsDebug returns true if the server is running in debug mode.
func IsDebug() bool {
	debug, _ := strconv.ParseBool(os.Getenv("QUIZHUB_DEBUG"))
	return debug
}

// IsVerbose returns true if the server is running in verbose mode.
// Verbose mode is only enabled if debug mode is enabled.
func IsVerbose() bool {
	verbose, _ := strconv.ParseBool(os.Getenv("QUIZHUB_VERBOSE"))
	return IsDebug() && verbose
}

// parseFile parses the given file as a configuration file.
// The file must be in YAML format.
func parseFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer f.Close() // nolint: errcheck
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	return cfg.Validate()
}

// ParseFile parses the config from the default file path.
// This also calls Validate() on the config.
func (c *Config) ParseFile() error {
	return parseFile(c, c.ConfigPath())
}

// parseEnv parses the environment variables as a configuration file.
func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix: "QUIZHUB_",
	}); err != nil {
		return fmt.Errorf("parse environment variables: %w", err)
	}

	return cfg.Validate()
}

// ParseEnv parses the config from the environment variables.
// This also calls Validate() on the config.
func (c *Config) ParseEnv() error {
	return parseEnv(c)
}

// Parse parses the config from the default file path and environment variables.
// This also calls Validate() on the config.
func (c *Config) Parse() error {
	if err := c.ParseFile(); err != nil {
		return err
	}

	return c.ParseEnv()
}

// writeConfig writes the configuration to the given file.
func writeConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(newConfigFile(cfg)), 0o644) // nolint: errcheck, gosec
}

// WriteConfig writes the configuration to the default file.
func (c *Config) WriteConfig() error {
	return writeConfig(c, c.ConfigPath())
}

// DefaultDataPath returns the path to the data directory.
// It uses the QUIZHUB_DATA_PATH environment variable if set, otherwise it
// uses "data".
func DefaultDataPath() string {
	dp := os.Getenv("QUIZHUB_DATA_PATH")
	if dp == "" {
		dp = "data"
	}

	return dp
}

// ConfigPath returns the path to the config file. QUIZHUB_CONFIG_LOCATION
// takes precedence when it points to an existing file.
func (c *Config) ConfigPath() string { // nolint:revive
	if path := os.Getenv("QUIZHUB_CONFIG_LOCATION"); exist(path) {
		return path
	}

	return filepath.Join(c.DataPath, "config.yaml")
}

func exist(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Exist returns true if the config file exists.
func (c *Config) Exist() bool {
	return exist(c.ConfigPath())
}

// DefaultConfig returns the default Config. All the path values are relative
// to the data directory.
// Use Validate() to validate the config and ensure absolute paths.
func DefaultConfig() *Config {
	return &Config{
		Name:     "QuizHub",
		DataPath: DefaultDataPath(),
		HTTP: HTTPConfig{
			ListenAddr: ":8080",
			PublicURL:  "http://localhost:8080",
		},
		Stats: StatsConfig{
			ListenAddr: "localhost:8081",
		},
		Log: LogConfig{
			Format:     "text",
			TimeFormat: time.DateTime,
		},
		DB: DBConfig{
			Driver: "sqlite",
			DataSource: "quizhub.db" +
				"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		},
		Cache: CacheConfig{
			Driver:    "lru",
			Size:      10000,
			LedgerTTL: 48 * time.Hour,
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		JWT: JWTConfig{
			KeyPath: filepath.Join("keys", "quizhub_jwt_ed25519"),
			Expiry:  24 * time.Hour,
		},
		Jobs: JobsConfig{
			NotifyRetakes: "0 0 * * *",
		},
	}
}

// Validate validates the configuration.
// It updates the configuration with absolute paths.
func (c *Config) Validate() error {
	// Use absolute paths
	if !filepath.IsAbs(c.DataPath) {
		dp, err := filepath.Abs(c.DataPath)
		if err != nil {
			return err
		}
		c.DataPath = dp
	}

	c.HTTP.PublicURL = strings.TrimSuffix(c.HTTP.PublicURL, "/")

	if c.JWT.KeyPath != "" && !filepath.IsAbs(c.JWT.KeyPath) {
		c.JWT.KeyPath = filepath.Join(c.DataPath, c.JWT.KeyPath)
	}

	if strings.HasPrefix(c.DB.Driver, "sqlite") && !filepath.IsAbs(c.DB.DataSource) {
		c.DB.DataSource = filepath.Join(c.DataPath, c.DB.DataSource)
	}

	switch c.Cache.Driver {
	case "", "lru", "redis", "noop":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCacheDriver, c.Cache.Driver)
	}

	if c.JWT.Expiry < 0 {
		return fmt.Errorf("invalid jwt expiry: %s", c.JWT.Expiry)
	}

	return nil
}
