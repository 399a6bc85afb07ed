package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/joshp123/dyson-mcp/plugins/dyson"
)

const (
	EnvPrefix        = "DYSON"
	DefaultRegion    = dyson.DefaultRegion
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config is the process configuration, read from DYSON_* environment
// variables.
type Config struct {
	Email       string
	Password    string
	Region      string
	BaseURL     string
	HTTPTimeout time.Duration

	LogLevel  string
	LogFormat string

	// HTTPAddr and GRPCAddr enable the operations sidecar when set.
	HTTPAddr string
	GRPCAddr string
}

// Load reads an optional .env file, then the environment, applies
// defaults, and validates.
func Load(envFiles ...string) (*Config, error) {
	// Missing .env files are fine; the environment may carry everything.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	timeout, err := parseDuration(v.GetString("http_timeout"))
	if err != nil {
		return nil, fmt.Errorf("%s_HTTP_TIMEOUT: %w", EnvPrefix, err)
	}

	cfg := &Config{
		Email:       strings.TrimSpace(v.GetString("email")),
		Password:    v.GetString("password"),
		Region:      strings.ToUpper(strings.TrimSpace(v.GetString("region"))),
		BaseURL:     strings.TrimSpace(v.GetString("base_url")),
		HTTPTimeout: timeout,
		LogLevel:    v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		HTTPAddr:    strings.TrimSpace(v.GetString("http_addr")),
		GRPCAddr:    strings.TrimSpace(v.GetString("grpc_addr")),
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("region", DefaultRegion)
	v.SetDefault("http_timeout", "0")
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
}

// Validate enforces required settings.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is required")
	}
	if c.Email == "" {
		return fmt.Errorf("%s_EMAIL is required", EnvPrefix)
	}
	if c.Password == "" {
		return fmt.Errorf("%s_PASSWORD is required", EnvPrefix)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s_LOG_LEVEL: %w", EnvPrefix, err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%s_LOG_FORMAT must be text or json, got %q", EnvPrefix, c.LogFormat)
	}
	return nil
}

// Dyson returns the client configuration.
func (c *Config) Dyson() dyson.Config {
	return dyson.Config{
		Email:    c.Email,
		Password: c.Password,
		Region:   c.Region,
		BaseURL:  c.BaseURL,
		Timeout:  c.HTTPTimeout,
	}
}

// SidecarEnabled reports whether any operations listener is configured.
func (c *Config) SidecarEnabled() bool {
	return c.HTTPAddr != "" || c.GRPCAddr != ""
}

// parseDuration accepts Go durations ("15s") or bare seconds ("15").
func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "0" {
		return 0, nil
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	return time.Duration(seconds) * time.Second, nil
}
