package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.Output != "json" || cfg.CSRFField != "_csrf" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.ReadTimeout != 10*time.Second || cfg.ShutdownWait != 5*time.Second {
		t.Fatalf("unexpected timeouts %+v", cfg)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("CONTROLBOX_ADDR", "127.0.0.1:9000")
	t.Setenv("CONTROLBOX_DEBUG", "true")
	t.Setenv("CONTROLBOX_OUTPUT", "pretty")
	t.Setenv("CONTROLBOX_READ_TIMEOUT", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" || !cfg.Debug || cfg.Output != "pretty" || cfg.ReadTimeout != time.Minute {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("CONTROLBOX_DEBUG", "maybe")
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}
