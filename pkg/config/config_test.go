package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ListenAddr != ":3000" {
		t.Fatalf("unexpected listen addr: %s", cfg.ListenAddr)
	}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Fatalf("unexpected request timeout: %v", cfg.RequestTimeout())
	}
	if cfg.WaitTimeout() != 300*time.Second {
		t.Fatalf("unexpected wait timeout: %v", cfg.WaitTimeout())
	}
	if cfg.PollInterval() != 5*time.Second {
		t.Fatalf("unexpected poll interval: %v", cfg.PollInterval())
	}
}

func TestLoadClampsPollInterval(t *testing.T) {
	t.Setenv("POLL_INTERVAL_MS", "1000")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.PollInterval() != PollIntervalFloor {
		t.Fatalf("poll interval not clamped: %v", cfg.PollInterval())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("UPSTREAM_BASE_URL", "http://upstream.test")
	t.Setenv("SUNO_API_KEY", "env-key")
	t.Setenv("WAIT_AUDIO_TIMEOUT_MS", "60000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.UpstreamBaseURL != "http://upstream.test" {
		t.Fatalf("unexpected base url: %s", cfg.UpstreamBaseURL)
	}
	if cfg.SunoAPIKey != "env-key" {
		t.Fatalf("unexpected key")
	}
	if cfg.WaitTimeout() != time.Minute {
		t.Fatalf("unexpected wait timeout: %v", cfg.WaitTimeout())
	}
}
