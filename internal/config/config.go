package config

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the default User-Agent string sent with all catalog requests.
const DefaultUserAgent = "ShowFinder/2 (+https://github.com/Belphemur/ShowFinder)"

const (
	// DefaultCatalogBaseURL is the TVmaze public API root.
	DefaultCatalogBaseURL = "https://api.tvmaze.com"
	// DefaultMissingImageURL is shown for shows the catalog has no artwork for.
	DefaultMissingImageURL = "https://tinyurl.com/tv-missing"
)

type Config struct {
	CatalogBaseURL        string `mapstructure:"catalog_base_url"`
	MissingImageURL       string `mapstructure:"missing_image_url"`
	ProxyConnectionString string `mapstructure:"proxy_connection_string"`
	ClientTimeout         string `mapstructure:"client_timeout"` // Go duration string like "30s", "1m", etc.
	UserAgent             string `mapstructure:"user_agent"`
	NormalizeSearchTerm   bool   `mapstructure:"normalize_search_term"` // trim and NFC-compose terms before sending
	Server                struct {
		Port    int    `mapstructure:"port"`
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // "console", "json" or "auto"
	Metrics   struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`
	GRPC struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"grpc"`
	RateLimit struct {
		RequestsPerSecond float64 `mapstructure:"requests_per_second"` // 0 disables the limiter
		Burst             int     `mapstructure:"burst"`
	} `mapstructure:"rate_limit"`
	CircuitBreaker struct {
		Enabled          bool   `mapstructure:"enabled"`
		FailureThreshold uint   `mapstructure:"failure_threshold"`
		Delay            string `mapstructure:"delay"`
	} `mapstructure:"circuit_breaker"`
	Flows struct {
		DiscardStale bool   `mapstructure:"discard_stale"`
		TokenTTL     string `mapstructure:"token_ttl"`
	} `mapstructure:"flows"`
	Cache struct {
		Provider string `mapstructure:"provider"` // "memory" or "redis"
		Size     int    `mapstructure:"size"`     // Maximum number of entries in the LRU cache
		Redis    struct {
			Address  string `mapstructure:"address"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`
	Sentry struct {
		DSN         string `mapstructure:"dsn"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"sentry"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	logger = newLogger(os.Stdout, "auto").With().Timestamp().Logger()
}

// Initialize loads the configuration and configures the process-wide logger.
// An empty configFile searches the default locations.
func Initialize(configFile string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn().Err(err).Msg("Failed to load .env file")
	}

	config, err := LoadConfig(configFile)
	if err != nil {
		return err
	}

	logger = newLogger(os.Stdout, config.LogFormat).With().Timestamp().Logger()

	// Parse and set log level from config
	level := zerolog.InfoLevel // default
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	logger.Debug().Str("level", level.String()).Str("format", config.LogFormat).Msg("Logging configured")
	globalConfig = config
	return nil
}

// newLogger picks a console writer for terminals and plain JSON otherwise.
func newLogger(out *os.File, format string) zerolog.Logger {
	var w io.Writer = out
	switch strings.ToLower(format) {
	case "json":
	case "console":
		w = zerolog.ConsoleWriter{Out: out}
	default:
		if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
			w = zerolog.ConsoleWriter{Out: out}
		}
	}
	return zerolog.New(w)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog_base_url", DefaultCatalogBaseURL)
	v.SetDefault("missing_image_url", DefaultMissingImageURL)
	v.SetDefault("proxy_connection_string", "")
	v.SetDefault("client_timeout", "30s")
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("normalize_search_term", false)
	v.SetDefault("server.address", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "auto")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("grpc.enabled", false)
	v.SetDefault("grpc.port", 9091)
	v.SetDefault("rate_limit.requests_per_second", 2.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("circuit_breaker.enabled", false)
	v.SetDefault("circuit_breaker.failure_threshold", 5)
	v.SetDefault("circuit_breaker.delay", "30s")
	v.SetDefault("flows.discard_stale", false)
	v.SetDefault("flows.token_ttl", "10m")
	v.SetDefault("cache.provider", "memory")
	v.SetDefault("cache.size", 10000)
	v.SetDefault("sentry.environment", "production")
}

func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variable support
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Add specific environment variable for log level
	_ = v.BindEnv("log_level", "LOG_LEVEL")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.MissingImageURL == "" {
		config.MissingImageURL = DefaultMissingImageURL
	}

	return &config, nil
}

// Default returns a configuration populated only with default values.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

// GetConfig returns the loaded configuration, or defaults when Initialize was never called.
func GetConfig() *Config {
	if globalConfig == nil {
		return Default()
	}
	return globalConfig
}

func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

func GetLogger() zerolog.Logger {
	return logger
}

// ParseDuration parses a Go duration string, falling back to def when the value is empty or invalid.
func ParseDuration(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn().Err(err).Str("duration", value).Dur("default", def).Msg("Invalid duration, using default")
		return def
	}
	return d
}
