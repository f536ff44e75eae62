package config

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/de-tools/sales-report/pkg/runtime/export"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	appName        = "salesreport"
	configFileName = "salesreport"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Report ReportConfig `mapstructure:"report"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// MaxFormBytes caps the size of form and JSON submissions.
	MaxFormBytes int64 `mapstructure:"max_form_bytes"`
}

type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

type ReportConfig struct {
	Currency      string `mapstructure:"currency"`       // KSH
	DefaultFormat string `mapstructure:"default_format"` // docx
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_form_bytes", 1<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("report.currency", "KSH")
	v.SetDefault("report.default_format", string(export.FormatDocx))
}

// Load reads the configuration. An explicit path must exist; without one
// salesreport.yaml is looked up in the working directory and in the XDG
// config directory, and a missing file is not an error. Environment
// variables such as SERVER_PORT or REPORT_CURRENCY override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, appName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if _, err := export.ParseFormat(c.Report.DefaultFormat); err != nil {
		return fmt.Errorf("invalid default format: %w", err)
	}
	return nil
}

// Addr is the listen address of the web server.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ZerologLevel returns the configured level, falling back to info.
func (c LogConfig) ZerologLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// Format returns the configured default output format.
func (c ReportConfig) Format() export.Format {
	f, err := export.ParseFormat(c.DefaultFormat)
	if err != nil {
		return export.FormatDocx
	}
	return f
}
