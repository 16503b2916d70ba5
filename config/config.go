package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const (
	DefaultHealthPort   = 8080
	DefaultUpstreamPort = 80
	DefaultProbeTimeout = "2s"

	maxProbeTimeout = 30 * time.Second
)

// Config is the process-wide configuration. It is read once at startup and
// never mutated afterwards.
type Config struct {
	HealthHost   string `mapstructure:"health_host"`
	HealthPort   int    `mapstructure:"port_health"`
	UpstreamPort int    `mapstructure:"port"`
	LogLevel     string `mapstructure:"log_level"`
	Environment  string `mapstructure:"environment"`
	ProbeTimeout string `mapstructure:"probe_timeout"`
}

// Load reads an optional .env file, an optional config.yaml and the process
// environment, in increasing order of precedence, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to read .env file", slog.String("error", err.Error()))
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("health_host", "")
	v.SetDefault("port_health", DefaultHealthPort)
	v.SetDefault("port", DefaultUpstreamPort)
	v.SetDefault("log_level", LogLevelInfo)
	v.SetDefault("environment", EnvDev)
	v.SetDefault("probe_timeout", DefaultProbeTimeout)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Debug("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.HealthHost, is.Host),
		validation.Field(&c.HealthPort,
			validation.Required,
			validation.Min(1),
			validation.Max(65535),
		),
		validation.Field(&c.UpstreamPort,
			validation.Required,
			validation.Min(1),
			validation.Max(65535),
		),
		validation.Field(&c.LogLevel,
			validation.Required,
			validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
		),
		validation.Field(&c.Environment,
			validation.Required,
			validation.In(EnvDev, EnvStaging, EnvProd),
		),
		validation.Field(&c.ProbeTimeout,
			validation.Required,
			validation.By(validateTimeout),
		),
	)
	if err != nil {
		return err
	}

	if c.HealthPort == c.UpstreamPort {
		return validation.Errors{
			"port_health": validation.NewError("validation_port_conflict", "must differ from the upstream port"),
		}
	}

	return nil
}

// normalize maps log level and environment aliases onto the supported values.
// Unknown values fall back to info and dev; log settings never stop startup.
func (c *Config) normalize() {
	switch level := strings.ToLower(strings.TrimSpace(c.LogLevel)); level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		c.LogLevel = level
	case "warning":
		c.LogLevel = LogLevelWarn
	default:
		slog.Warn("unknown log level, falling back to info", slog.String("log_level", c.LogLevel))
		c.LogLevel = LogLevelInfo
	}

	switch env := strings.ToLower(strings.TrimSpace(c.Environment)); env {
	case EnvDev, EnvStaging, EnvProd:
		c.Environment = env
	case "development":
		c.Environment = EnvDev
	case "production":
		c.Environment = EnvProd
	default:
		slog.Warn("unknown environment, falling back to dev", slog.String("environment", c.Environment))
		c.Environment = EnvDev
	}
}

// HTTPAddr is the listen address of the health server.
func (c *Config) HTTPAddr() string {
	return net.JoinHostPort(c.HealthHost, strconv.Itoa(c.HealthPort))
}

// ProbeTimeoutDuration returns the parsed upstream check bound. Validate
// guarantees the value parses; an unparsable value yields the default.
func (c *Config) ProbeTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.ProbeTimeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultProbeTimeout)
	}
	return d
}

func validateTimeout(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 500ms, 2s)")
	}

	if d <= 0 || d > maxProbeTimeout {
		return validation.NewError("validation_timeout_range", "must be greater than 0 and at most 30s")
	}

	return nil
}
