// Package config resolves process configuration once at startup. Request
// paths never read the environment; they receive the immutable Config.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// PollIntervalFloor is the minimum allowed status polling interval.
const PollIntervalFloor = 3 * time.Second

// Config captures runtime settings for the gateway service.
type Config struct {
	ListenAddr       string `mapstructure:"listen_addr"`
	UpstreamBaseURL  string `mapstructure:"upstream_base_url"`
	SunoAPIKey       string `mapstructure:"suno_api_key"`
	RequestTimeoutMS int    `mapstructure:"request_timeout_ms"`
	WaitTimeoutMS    int    `mapstructure:"wait_audio_timeout_ms"`
	PollIntervalMS   int    `mapstructure:"poll_interval_ms"`
	LogLevel         string `mapstructure:"log_level"`
	LogFile          string `mapstructure:"log_file"`
}

// Load reads gateway configuration from defaults, an optional config file,
// and environment variables.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath("./configs")
	v.AutomaticEnv()

	// The env names are part of the public surface; bind them verbatim
	// instead of using a prefix.
	_ = v.BindEnv("listen_addr", "LISTEN_ADDR")
	_ = v.BindEnv("upstream_base_url", "UPSTREAM_BASE_URL")
	_ = v.BindEnv("suno_api_key", "SUNO_API_KEY")
	_ = v.BindEnv("request_timeout_ms", "REQUEST_TIMEOUT_MS")
	_ = v.BindEnv("wait_audio_timeout_ms", "WAIT_AUDIO_TIMEOUT_MS")
	_ = v.BindEnv("poll_interval_ms", "POLL_INTERVAL_MS")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_file", "LOG_FILE")

	v.SetDefault("listen_addr", ":3000")
	v.SetDefault("upstream_base_url", "https://api.sunoapi.org")
	v.SetDefault("request_timeout_ms", 30000)
	v.SetDefault("wait_audio_timeout_ms", 300000)
	v.SetDefault("poll_interval_ms", 5000)
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.RequestTimeoutMS <= 0 {
		return Config{}, fmt.Errorf("request_timeout_ms must be positive, got %d", cfg.RequestTimeoutMS)
	}
	if cfg.WaitTimeoutMS <= 0 {
		return Config{}, fmt.Errorf("wait_audio_timeout_ms must be positive, got %d", cfg.WaitTimeoutMS)
	}
	if time.Duration(cfg.PollIntervalMS)*time.Millisecond < PollIntervalFloor {
		cfg.PollIntervalMS = int(PollIntervalFloor / time.Millisecond)
	}

	return cfg, nil
}

// RequestTimeout is the per-upstream-call deadline.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// WaitTimeout is the wait-for-audio budget.
func (c Config) WaitTimeout() time.Duration {
	return time.Duration(c.WaitTimeoutMS) * time.Millisecond
}

// PollInterval is the status polling cadence, already clamped to the floor.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}
