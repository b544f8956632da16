// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultServerPort is the default ops HTTP server port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize is the default maximum request body size (1MB).
	DefaultMaxRequestSize = 1 << 20

	// DefaultClientRetryMaxAttempts keeps the baseline single-attempt behavior.
	DefaultClientRetryMaxAttempts = 1

	// DefaultClientRetryMultiplier is the default exponential backoff multiplier.
	DefaultClientRetryMultiplier = 2.0

	// DefaultClientRetryJitterFactor is the default jitter percentage (±25%).
	DefaultClientRetryJitterFactor = 0.25

	// DefaultClientCircuitMaxFailures is the default failures before circuit opens.
	DefaultClientCircuitMaxFailures = 5

	// DefaultClientCircuitHalfOpenLimit is the default successes to close circuit.
	DefaultClientCircuitHalfOpenLimit = 3

	// DefaultTransportMaxIdleConns is the default max idle connections.
	DefaultTransportMaxIdleConns = 20

	// DefaultTransportMaxIdleConnsPerHost is the default max idle connections per host.
	DefaultTransportMaxIdleConnsPerHost = 5

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28

	// DefaultDigestLimit is the number of ranked entries in one digest.
	DefaultDigestLimit = 10

	// DefaultSchedule posts a digest every 14 days at midnight.
	DefaultSchedule = "0 0 */14 * *"

	// DefaultMALBaseURL is the MyAnimeList v2 API root.
	DefaultMALBaseURL = "https://api.myanimelist.net/v2"

	// DefaultSlackBaseURL is the Slack Web API root. It must end with a slash.
	DefaultSlackBaseURL = "https://slack.com/api/"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`
	MAL       MALConfig       `koanf:"mal"       validate:"required"`
	Slack     SlackConfig     `koanf:"slack"     validate:"required"`
	Schedule  ScheduleConfig  `koanf:"schedule"  validate:"required"`
	Digest    DigestConfig    `koanf:"digest"    validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains the optional ops HTTP server settings.
type ServerConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Port            int           `koanf:"port"             validate:"required_if=Enabled true,omitempty,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required_if=Enabled true"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"omitempty,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"omitempty,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"omitempty,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"omitempty,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"omitempty,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ClientConfig contains settings shared by the outbound HTTP clients.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// MALConfig configures the MyAnimeList API client.
type MALConfig struct {
	ClientID string `koanf:"client_id" validate:"required"`
	BaseURL  string `koanf:"base_url"  validate:"required,url"`
}

// SlackConfig configures the Slack publisher.
type SlackConfig struct {
	Token   string `koanf:"token"    validate:"required"`
	Channel string `koanf:"channel"  validate:"required"`
	BaseURL string `koanf:"base_url" validate:"required,url"`
}

// ScheduleConfig holds the cron expression for periodic digests.
type ScheduleConfig struct {
	Cron string `koanf:"cron" validate:"required,cron"`
}

// DigestConfig holds the static digest catalogue: header messages and marker rule tables.
// Empty rule tables fall back to the built-in defaults.
type DigestConfig struct {
	Ranking   string            `koanf:"ranking"   validate:"required,oneof=all airing upcoming tv ova movie special bypopularity favorite"`
	Limit     int               `koanf:"limit"     validate:"required,min=1,max=500"`
	Messages  []string          `koanf:"messages"  validate:"required,min=1,dive,required"`
	Genres    []GenreRuleConfig `koanf:"genres"    validate:"dive"`
	Themes    []ThemeRuleConfig `koanf:"themes"    validate:"dive"`
	Ratings   map[string]string `koanf:"ratings"   validate:"dive,keys,required,endkeys,required"`
	Catalogue []string          `koanf:"catalogue" validate:"dive,required"`
}

// GenreRuleConfig maps a MAL genre name to a marker.
type GenreRuleConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Emoji       string `koanf:"emoji"`
	EmojiName   string `koanf:"emoji_name"  validate:"required"`
	Description string `koanf:"description"`
}

// ThemeRuleConfig maps synopsis keywords to a marker.
type ThemeRuleConfig struct {
	Keywords  []string `koanf:"keywords"   validate:"required,min=1,dive,required"`
	EmojiName string   `koanf:"emoji_name" validate:"required"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "anime-digest",
		"app.version":     "dev",
		"app.environment": "local",

		"server.enabled":          false,
		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "60s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "60s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/anime-digest.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "anime-digest",
		"telemetry.sampling_rate": 1.0,

		"client.timeout":                           "15s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "200ms",
		"client.retry.max_interval":                "5s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"mal.base_url": DefaultMALBaseURL,

		"slack.channel":  "social-anime",
		"slack.base_url": DefaultSlackBaseURL,

		"schedule.cron": DefaultSchedule,

		"digest.ranking":  "airing",
		"digest.limit":    DefaultDigestLimit,
		"digest.messages": []string{"Check out these top airing anime!"},
	}
}

// legacyEnv maps the plain variable names used by earlier deployments of the bot.
var legacyEnv = map[string]string{
	"MAL_CLIENT_ID":   "mal.client_id",
	"SLACK_BOT_TOKEN": "slack.token",
	"SLACK_CHANNEL":   "slack.channel",
	"DIGEST_SCHEDULE": "schedule.cron",
}

// Options controls where Load looks for files.
type Options struct {
	// Dir holds base.yaml and <profile>.yaml. Defaults to "configs".
	Dir string

	// DotEnv is an optional .env file loaded into the process environment.
	// Existing environment variables are never overwritten. Defaults to ".env".
	DotEnv string
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Legacy plain environment variables (MAL_CLIENT_ID, SLACK_BOT_TOKEN, ...)
//  2. Environment variables (APP_ prefix, "__" separates levels)
//  3. .env file (only fills variables not already set)
//  4. Profile config file (configs/{profile}.yaml)
//  5. Base config file (configs/base.yaml)
//  6. Default values
func Load(profile string) (*Config, error) {
	return LoadWithOptions(profile, Options{})
}

// LoadWithOptions is Load with explicit file locations.
func LoadWithOptions(profile string, opts Options) (*Config, error) {
	if opts.Dir == "" {
		opts.Dir = "configs"
	}

	if opts.DotEnv == "" {
		opts.DotEnv = ".env"
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := loadFileIfExists(k, opts.Dir+"/base.yaml"); err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		if err := loadFileIfExists(k, fmt.Sprintf("%s/%s.yaml", opts.Dir, profile)); err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	if err := loadDotEnv(opts.DotEnv); err != nil {
		return nil, fmt.Errorf("loading %s: %w", opts.DotEnv, err)
	}

	err := k.Load(env.Provider("APP_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "APP_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	if err := k.Load(confmap.Provider(legacyValues(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading legacy env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return godotenv.Load(path)
}

func legacyValues() map[string]any {
	values := make(map[string]any)

	for name, key := range legacyEnv {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			values[key] = v
		}
	}

	return values
}
