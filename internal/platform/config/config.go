// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jsamuelsen/quotebox/internal/domain"
)

// Default configuration values.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize is the default maximum request body size (64KB).
	DefaultMaxRequestSize = 64 << 10

	// DefaultClientTimeout is the per-request timeout for the quote API.
	DefaultClientTimeout = 5 * time.Second

	// DefaultQuoteMaxAttempts bounds remote fetches per quote selection.
	DefaultQuoteMaxAttempts = 5

	// DefaultClientCircuitMaxFailures is the default failures before circuit opens.
	DefaultClientCircuitMaxFailures = 5

	// DefaultClientCircuitHalfOpenLimit is the default successes to close circuit.
	DefaultClientCircuitHalfOpenLimit = 1

	// DefaultTransportMaxIdleConns is the default max idle connections.
	DefaultTransportMaxIdleConns = 10

	// DefaultTransportMaxIdleConnsPerHost is the default max idle connections per host.
	DefaultTransportMaxIdleConnsPerHost = 2

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 10

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28

	// DefaultSettingsFile is the settings file name inside the storage directory.
	DefaultSettingsFile = "user_settings.json"

	// DefaultTrackerFile is the tracker file name inside the storage directory.
	DefaultTrackerFile = ".quote_tracker.json"

	// DefaultDaemonInterval is how often the daemon evaluates the schedule.
	DefaultDaemonInterval = 5 * time.Minute

	// envPrefix is the prefix of environment overrides.
	envPrefix = "APP_"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`
	Quote     QuoteConfig     `koanf:"quote"     validate:"required"`
	Storage   StorageConfig   `koanf:"storage"   validate:"required"`
	Schedule  ScheduleConfig  `koanf:"schedule"  validate:"required"`
	Display   DisplayConfig   `koanf:"display"`
	Daemon    DaemonConfig    `koanf:"daemon"    validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings for the serve command.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
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

// ClientConfig contains outbound HTTP client settings.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	UserAgent      string               `koanf:"user_agent"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
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

// QuoteConfig describes the remote quote API.
type QuoteConfig struct {
	Name        string `koanf:"name"         validate:"required"`
	BaseURL     string `koanf:"base_url"     validate:"required,url"`
	Path        string `koanf:"path"         validate:"required,startswith=/"`
	MaxAttempts int    `koanf:"max_attempts" validate:"required,min=1,max=10"`
}

// StorageConfig locates the settings and tracker files.
type StorageConfig struct {
	// Dir holds both files. Empty means the directory of the executable.
	Dir          string `koanf:"dir"`
	SettingsFile string `koanf:"settings_file" validate:"required,excludesall=/\\"`
	TrackerFile  string `koanf:"tracker_file"  validate:"required,excludesall=/\\"`
}

// ScheduleConfig lists the daily time windows.
type ScheduleConfig struct {
	Windows []WindowConfig `koanf:"windows" validate:"required,min=1,unique=Name,dive"`
}

// WindowConfig is one configured time window.
type WindowConfig struct {
	Name        string `koanf:"name"         validate:"required"`
	TriggerTime string `koanf:"trigger_time" validate:"required,clock"`
	WindowHours int    `koanf:"window_hours" validate:"min=1,max=24"`
}

// DisplayConfig controls how the launcher starts the display.
type DisplayConfig struct {
	// Command is split on whitespace. Empty re-runs this executable with "show".
	Command string `koanf:"command"`
}

// DaemonConfig controls the in-process scheduler.
type DaemonConfig struct {
	Interval   time.Duration `koanf:"interval"     validate:"required,min=10s"`
	RunOnStart bool          `koanf:"run_on_start"`
}

// Address returns the host:port the server listens on.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ResolveDir returns the storage directory, defaulting to the executable's.
func (s StorageConfig) ResolveDir() (string, error) {
	if s.Dir != "" {
		return s.Dir, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}

	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Dir(exe), nil
}

// TimeWindows converts the configured windows to domain windows.
func (s ScheduleConfig) TimeWindows() ([]domain.TimeWindow, error) {
	windows := make([]domain.TimeWindow, 0, len(s.Windows))

	for _, w := range s.Windows {
		trigger, err := domain.ParseClockTime(w.TriggerTime)
		if err != nil {
			return nil, fmt.Errorf("window %q: %w", w.Name, err)
		}

		windows = append(windows, domain.TimeWindow{
			Name:    w.Name,
			Trigger: trigger,
			Hours:   w.WindowHours,
		})
	}

	return windows, nil
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "quotebox",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "127.0.0.1",
		"server.read_timeout":     "10s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "30s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "text",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/quotebox.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "quotebox",
		"telemetry.sampling_rate": 1.0,

		"client.timeout":                           DefaultClientTimeout.String(),
		"client.user_agent":                        "quotebox",
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"quote.name":         "quote-api",
		"quote.base_url":     "https://dummyjson.com",
		"quote.path":         "/quotes/random",
		"quote.max_attempts": DefaultQuoteMaxAttempts,

		"storage.dir":           "",
		"storage.settings_file": DefaultSettingsFile,
		"storage.tracker_file":  DefaultTrackerFile,

		"schedule.windows": []map[string]any{
			{"name": "morning", "trigger_time": "05:00", "window_hours": 6},
			{"name": "midday", "trigger_time": "12:00", "window_hours": 5},
		},

		"display.command": "",

		"daemon.interval":     DefaultDaemonInterval.String(),
		"daemon.run_on_start": true,
	}
}

// Options controls where Load looks for its sources.
type Options struct {
	// Profile selects configs/{profile}.yaml.
	Profile string

	// Dir holds base.yaml and the profile files. Defaults to "configs".
	Dir string

	// EnvFile is loaded into the process environment first when it exists.
	// Existing variables are not overridden. Defaults to ".env".
	EnvFile string
}

// Load loads configuration from the default locations for profile.
func Load(profile string) (*Config, error) {
	return LoadWithOptions(Options{Profile: profile})
}

// LoadWithOptions loads configuration with the following precedence
// (highest to lowest):
//  1. Environment variables (APP_ prefix), including those from the .env file
//  2. Profile config file ({dir}/{profile}.yaml)
//  3. Base config file ({dir}/base.yaml)
//  4. Default values
func LoadWithOptions(opts Options) (*Config, error) {
	if opts.Dir == "" {
		opts.Dir = "configs"
	}
	if opts.EnvFile == "" {
		opts.EnvFile = ".env"
	}

	if err := loadDotEnv(opts.EnvFile); err != nil {
		return nil, fmt.Errorf("loading %s: %w", opts.EnvFile, err)
	}

	k := koanf.New(".")

	// 1. Load defaults
	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// 2. Load base config file if it exists
	err = loadFileIfExists(k, filepath.Join(opts.Dir, "base.yaml"))
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	// 3. Load profile config file if it exists
	if opts.Profile != "" {
		err := loadFileIfExists(k, filepath.Join(opts.Dir, opts.Profile+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", opts.Profile, err)
		}
	}

	// 4. Load environment variables with APP_ prefix
	err = k.Load(env.Provider(envPrefix, ".", envKeyMapper(k.Keys())), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKeyMapper maps APP_STORAGE_SETTINGS_FILE to storage.settings_file by
// matching against the known keys, since key segments may contain
// underscores themselves. Unknown variables map every underscore to a dot.
func envKeyMapper(known []string) func(string) string {
	lookup := make(map[string]string, len(known))
	for _, key := range known {
		lookup[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(s string) string {
		name := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		if key, ok := lookup[name]; ok {
			return key
		}

		return strings.ReplaceAll(name, "_", ".")
	}
}

// loadDotEnv loads a dotenv file if it exists.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return godotenv.Load(path)
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
