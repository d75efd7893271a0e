package config

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	// Upstream endpoints
	APIURL     string
	BackendURL string

	// Shared secret accepted by the test-only login endpoint
	CypressToken string

	// Collector
	ListenAddr  string
	FrontendURL string
	LogFile     string
	MaxSizeMB   int
	MaxBackups  int

	LogLevel slog.Level
}

// Load resolves configuration from v. Keys are looked up in the config file
// first and then in upper-cased environment variables (api_url -> API_URL).
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.GetViper()
	}
	v.AutomaticEnv()

	v.SetDefault("api_url", "http://localhost:8080")
	v.SetDefault("backend_url", "http://localhost:8080")
	v.SetDefault("cypress_token", "")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("frontend_url", "http://localhost:3000")
	v.SetDefault("log_file", "./logs/events.log")
	v.SetDefault("log_max_size_mb", 50)
	v.SetDefault("log_max_backups", 3)
	v.SetDefault("log_level", "info")

	cfg := &Config{
		APIURL:       strings.TrimRight(v.GetString("api_url"), "/"),
		BackendURL:   strings.TrimRight(v.GetString("backend_url"), "/"),
		CypressToken: v.GetString("cypress_token"),
		ListenAddr:   v.GetString("listen_addr"),
		FrontendURL:  v.GetString("frontend_url"),
		LogFile:      v.GetString("log_file"),
		MaxSizeMB:    v.GetInt("log_max_size_mb"),
		MaxBackups:   v.GetInt("log_max_backups"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log_level"))); err != nil {
		slog.Debug("unrecognized log level, using info", "value", v.GetString("log_level"))
		cfg.LogLevel = slog.LevelInfo
	}

	return cfg, nil
}

// Validate reports settings the client commands cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.APIURL == "" {
		errs = append(errs, errors.New("api url is required"))
	}
	if c.BackendURL == "" {
		errs = append(errs, errors.New("backend url is required"))
	}
	return errors.Join(errs...)
}
