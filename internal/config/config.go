package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/mcoot/backlogbingo/internal/api"
	"github.com/mcoot/backlogbingo/internal/services/source"
	boltstorage "github.com/mcoot/backlogbingo/internal/storage/bolt"
	redisstorage "github.com/mcoot/backlogbingo/internal/storage/redis"
)

// Prefix for environment variable names, so PORT becomes BINGO_PORT
const envPrefix = "BINGO"

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageBolt   = "bolt"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the server configuration, read from BINGO_* environment variables
type Config struct {
	Host string `default:"" desc:"Interface to listen on, empty for all"`
	Port int    `default:"8080" desc:"Port for the HTTP server"`

	ReadTimeout     time.Duration `split_words:"true" default:"15s" desc:"HTTP read timeout"`
	WriteTimeout    time.Duration `split_words:"true" default:"30s" desc:"HTTP write timeout"`
	ShutdownTimeout time.Duration `split_words:"true" default:"30s" desc:"Grace period for in-flight requests on shutdown"`

	LogLevel  slog.Level `split_words:"true" default:"info" desc:"debug, info, warn or error"`
	LogFormat string     `split_words:"true" default:"json" desc:"json or text"`

	// STORAGE picks where profiles, rules, sources and cards live
	Storage       string        `default:"memory" desc:"memory, redis or bolt"`
	RedisURL      string        `split_words:"true" desc:"Redis connection URL, required for redis storage"`
	RedisPoolSize int           `split_words:"true" default:"10" desc:"Redis connection pool size"`
	ProfileTTL    time.Duration `split_words:"true" default:"720h" desc:"Expiry of idle profiles in redis, 0 to keep forever"`
	BoltPath      string        `split_words:"true" default:"bingo.db" desc:"Database file for bolt storage"`

	FetchTimeout      time.Duration `split_words:"true" default:"15s" desc:"Timeout for card source downloads"`
	FetchMaxBytes     int64         `split_words:"true" default:"1048576" desc:"Largest card source that may be downloaded"`
	FetchConcurrency  int           `split_words:"true" default:"8" desc:"Simultaneous card source downloads"`
	FetchAllowPrivate bool          `split_words:"true" default:"false" desc:"Allow card source downloads from loopback, private and link-local addresses"`

	// METRICS exposes prometheus metrics on /metrics
	Metrics bool `default:"true" desc:"Enable Prometheus exporter on /metrics"`
}

// Load reads the given dotenv files (".env" when none are named) into the
// environment and parses the configuration. Missing dotenv files are fine.
// Variables already set in the environment win over dotenv values.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load dotenv: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the environment only
func Parse() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that envconfig cannot
func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageBolt:
	case StorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: %s_REDIS_URL is required when %s_STORAGE=redis", ErrInvalidConfig, envPrefix, envPrefix)
		}
	default:
		return fmt.Errorf("%w: unknown storage %q", ErrInvalidConfig, c.Storage)
	}

	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	return nil
}

// Logger builds the application logger writing to w
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Server returns the HTTP server settings
func (c Config) Server() api.ServerConfig {
	cfg := api.DefaultServerConfig()
	cfg.Host = c.Host
	cfg.Port = c.Port
	cfg.ReadTimeout = c.ReadTimeout
	cfg.WriteTimeout = c.WriteTimeout
	cfg.ShutdownTimeout = c.ShutdownTimeout
	return cfg
}

// Redis returns the redis storage settings
func (c Config) Redis() redisstorage.Config {
	cfg := redisstorage.DefaultConfig()
	cfg.URL = c.RedisURL
	cfg.PoolSize = c.RedisPoolSize
	cfg.ProfileTTL = c.ProfileTTL
	return cfg
}

// Bolt returns the bolt storage settings
func (c Config) Bolt() boltstorage.Config {
	cfg := boltstorage.DefaultConfig()
	cfg.Path = c.BoltPath
	return cfg
}

// Fetch returns the card source download settings
func (c Config) Fetch() source.FetchConfig {
	return source.FetchConfig{
		Timeout:       c.FetchTimeout,
		MaxBytes:      c.FetchMaxBytes,
		MaxConcurrent: c.FetchConcurrency,
		AllowPrivate:  c.FetchAllowPrivate,
	}
}

// see https://github.com/kelseyhightower/envconfig/blob/v1.4.0/usage.go#L31
const usageFormat = `This server is configured with the following environment variables:
KEY	DESCRIPTION	DEFAULT
{{range .}}{{usage_key .}}	{{usage_description .}}	{{usage_default .}}
{{end}}`

// Usage writes a table of the recognised environment variables to w
func Usage(w io.Writer) error {
	tabs := tabwriter.NewWriter(w, 1, 0, 4, ' ', 0)
	if err := envconfig.Usagef(envPrefix, &Config{}, tabs, usageFormat); err != nil {
		return err
	}
	return tabs.Flush()
}
