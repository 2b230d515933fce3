package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

func (l LogLevel) ToSlog() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type LogFormat string

const (
	LogFormatPlaintext LogFormat = "plaintext"
	LogFormatJSON      LogFormat = "json"
)

type AppEnv string

const (
	AppEnvDev        AppEnv = "dev"
	AppEnvProduction AppEnv = "production"
)

type Config struct {
	App    AppConfig
	Views  ViewsConfig
	Sentry SentryConfig
	Log    LogConfig
}

type AppConfig struct {
	Debug           bool
	SSL             bool
	Port            uint32
	ProxyPort       uint32
	Host            string
	URL             string
	Name            string
	ShutdownTimeout int32 // in seconds
	Env             AppEnv
	Version         string
	RequestTimeout  uint32 // in seconds
	FallbackLang    string
}

type ViewsConfig struct {
	// Directory that contains the view component files
	Dir string
	// Extension of view component files, without leading dot
	Extension string
	// Keep loaded components in memory
	Cache bool
	// Purge the component cache when view files change, only used in debug mode
	Watch bool
	// Debounce timer between a view file change and the cache purge, in milliseconds
	WatchDelay int32
}

type SentryConfig struct {
	Enabled      bool
	DSN          string
	SampleRate   float64
	TracesRate   float64
	ProfilesRate float64
}

type LogConfig struct {
	Format  LogFormat
	Level   LogLevel
	Verbose bool
}

// Defaults returns the values used for every setting that is missing from the config file
// and the environment.
func Defaults() map[string]any {
	return map[string]any{
		"app_debug":           false,
		"app_ssl":             false,
		"app_port":            3000,
		"app_proxyport":       0,
		"app_host":            "localhost",
		"app_url":             "",
		"app_name":            "apollo-views",
		"app_shutdowntimeout": 2,
		"app_env":             string(AppEnvProduction),
		"app_version":         "",
		"app_requesttimeout":  30,
		"app_fallbacklang":    "",
		"views_dir":           "views",
		"views_extension":     "svelte",
		"views_cache":         true,
		"views_watch":         true,
		"views_watchdelay":    200,
		"sentry_enabled":      false,
		"sentry_dsn":          "",
		"sentry_samplerate":   1.0,
		"sentry_tracesrate":   0.0,
		"sentry_profilesrate": 0.0,
		"log_format":          string(LogFormatJSON),
		"log_level":           string(LogLevelInfo),
		"log_verbose":         false,
	}
}

// Default returns a configuration that only contains default values.
func Default() *Config {
	reader := newReader()
	var config Config
	// Defaults are plain values, this cannot fail
	_ = reader.Unmarshal(&config)
	return &config
}

func (c Config) BaseURL() string {
	url := c.App.URL
	// If no url was specified, build one from the host and port values
	if len(c.App.URL) == 0 {
		port := c.App.Port
		if c.App.ProxyPort > 0 {
			port = c.App.ProxyPort
		}
		url = fmt.Sprintf("%v:%v", c.App.Host, port)
	}
	protocol := "http"
	if c.App.SSL {
		protocol = "https"
	}
	return fmt.Sprintf(
		"%s://%s",
		protocol,
		url,
	)
}

func (c *Config) IsTest() bool {
	return flag.Lookup("test.v") != nil || strings.HasSuffix(os.Args[0], ".test") ||
		strings.Contains(os.Args[0], "/_test/")
}

func newReader() *viper.Viper {
	reader := viper.NewWithOptions(viper.KeyDelimiter("_"))
	reader.SetConfigType("toml")
	for key, value := range Defaults() {
		reader.SetDefault(key, value)
	}
	return reader
}

// Load the configuration file from the specified filesystem.
// You can specify additional .env files to load, by default this only checks for ".env" in the
// current working directory.
// If the filesystem has no config.toml, the defaults are used and can still be overridden by
// environment variables, e.g. APP_PORT=8080.
func Load(configFS fs.FS, dotenvFiles ...string) (*Config, error) {
	reader := newReader()

	file, err := configFS.Open("config.toml")
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("No config.toml file found, using default configuration")
	} else if err != nil {
		return nil, fmt.Errorf("could not open config.toml: %w", err)
	} else {
		defer file.Close()
		if err = reader.ReadConfig(file); err != nil {
			return nil, fmt.Errorf("could not load the app configuration: %w", err)
		}
	}

	// Environment override
	err = godotenv.Load(dotenvFiles...)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("No .env file found, continuing...")
	} else if err != nil {
		return nil, fmt.Errorf(".env file found, but could not load it: %w", err)
	}
	reader.AutomaticEnv()

	var config Config
	if err := reader.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("invalid config format: %w", err)
	}

	if config.App.Debug && !config.IsTest() {
		slog.Warn("APP_DEBUG is turned on, do not run this mode in production!")
	}

	return &config, nil
}
