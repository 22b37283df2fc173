package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config carries the client settings shared by the CLI and the web viewer.
type Config struct {
	// BaseURL of the billing server; empty means same-origin relative URLs.
	BaseURL string `mapstructure:"base_url"`
	// CollectCalls is the default for the cdr target's collect_calls option.
	CollectCalls bool `mapstructure:"collect_calls"`
	// HistoryDB is the sqlite file recording upload outcomes.
	HistoryDB string `mapstructure:"history_db"`
	// UploadTimeout bounds a single transfer end to end.
	UploadTimeout time.Duration `mapstructure:"upload_timeout"`
	// ListenAddr is the web viewer bind address.
	ListenAddr string `mapstructure:"listen_addr"`
}

// Load reads configuration from an optional file, with UPLINK_* environment
// variables taking precedence over file values.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("collect_calls", false)
	v.SetDefault("history_db", "uplink.db")
	v.SetDefault("upload_timeout", "5m")
	v.SetDefault("listen_addr", "127.0.0.1:8090")

	v.SetEnvPrefix("UPLINK")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
